package normalize

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"property-sync/internal/domain"
	"property-sync/internal/extract"
)

// Field synonym lists, evaluated in priority order with first non-empty
// match winning. Order matters: when a record carries several of these
// tags, the earlier one is silently preferred. That is accepted best-effort
// behavior against schema-inconsistent feeds, not a correctness guarantee.
var (
	categoryFields  = []string{"Category", "PropertyCategory", "PropertyType", "UnitCategory", "Type"}
	communityFields = []string{"Community", "CommunityName", "Location", "Area"}
	titleFields     = []string{"PropertyName", "PropertyTitle", "Title", "Name"}
	salePriceFields = []string{"SellPrice", "Price", "PropertyPrice", "SalePrice"}
	rentPriceFields = []string{"Rent", "RentPrice", "Price", "PropertyPrice"}
	areaFields      = []string{"BuiltupArea", "FloorArea", "Area", "PropertyArea", "TotalArea"}
	bedroomFields   = []string{"Bedrooms", "BedroomCount", "NumberOfBedrooms"}
	agentFields     = []string{"AgentName", "Agent", "ContactName", "ListedBy"}

	imageContainers = []string{"Images"}
	imageLeaves     = []string{"Image", "ImageURL"}
	imageSiblings   = []string{"Image", "PropertyImage", "ImageURL", "Photo"}
)

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// Alias maps a lower-cased substring of a raw community value to its
// canonical name.
type Alias struct {
	Match     string
	Canonical string
}

// Tables is the configuration the normalizer runs on. Injected rather than
// global so the classifier and canonicalizer are testable with alternate
// vocabularies.
type Tables struct {
	// CommercialKeywords: a category is commercial iff its lower-cased
	// value contains at least one of these.
	CommercialKeywords []string

	// CommunityAliases is an ordered list; the first alias whose Match is
	// contained in the lower-cased raw community wins. Slice, not map:
	// declaration order is the tie-break when several aliases could match.
	CommunityAliases []Alias

	// TargetCommunities is the display whitelist. A record whose
	// canonicalized community matches none of these (bidirectional
	// containment, see TargetOf) is rejected.
	TargetCommunities []string

	PlaceholderImages []string
	PlaceholderAgent  string

	// MaxImages caps the derived image list; 0 means no cap.
	MaxImages int
}

// DefaultTables carries the production vocabulary.
func DefaultTables() Tables {
	return Tables{
		CommercialKeywords: []string{
			"office", "retail", "shop", "showroom", "warehouse", "commercial",
			"clinic", "hospital", "restaurant", "cafe", "salon", "plaza",
			"storage", "industrial", "workshop", "factory", "laboratory",
			"pharmacy", "supermarket", "mall", "kiosk", "gym", "school",
			"business center",
		},
		CommunityAliases: []Alias{
			{Match: "dubai investment park", Canonical: "Motor City"},
			{Match: "motor city", Canonical: "Motor City"},
			{Match: "business bay", Canonical: "Business Bay"},
			{Match: "al barsha heights", Canonical: "Barsha Heights"},
			{Match: "barsha heights", Canonical: "Barsha Heights"},
			{Match: "tecom", Canonical: "Barsha Heights"},
		},
		TargetCommunities: []string{"Business Bay", "Motor City", "Barsha Heights"},
		PlaceholderImages: []string{
			"https://images.unsplash.com/photo-1497366216548-37526070297c?w=1200",
			"https://images.unsplash.com/photo-1486406146926-c627a92ad1ab?w=1200",
			"https://images.unsplash.com/photo-1524758631624-e2822e304c36?w=1200",
		},
		PlaceholderAgent: "Chestertons Agent",
		MaxImages:        5,
	}
}

// Rejection reasons, in pipeline order.
var (
	ErrNoCategory    = errors.New("normalize: record has no category")
	ErrNotCommercial = errors.New("normalize: category is not commercial")
	ErrNotTargeted   = errors.New("normalize: community outside target communities")
	ErrNoPrice       = errors.New("normalize: price missing or not positive")
)

// Normalizer converts extracted field-bags into canonical Properties.
type Normalizer struct {
	Tables Tables

	// Now feeds the id timestamp; overridable in tests.
	Now func() time.Time
}

func New(t Tables) *Normalizer {
	return &Normalizer{Tables: t, Now: time.Now}
}

// Normalize maps one record into zero-or-one Property, short-circuiting on
// the first rejection. The returned error is one of the Err* sentinels.
func (n *Normalizer) Normalize(rec extract.Record, kind domain.ListingKind) (domain.Property, error) {
	category := rec.First(categoryFields...)
	if category == "" {
		return domain.Property{}, ErrNoCategory
	}
	if !n.Commercial(category) {
		return domain.Property{}, ErrNotCommercial
	}

	community := n.Canonicalize(rec.First(communityFields...))
	if _, ok := TargetOf(community, n.Tables.TargetCommunities); !ok {
		return domain.Property{}, ErrNotTargeted
	}

	title := rec.First(titleFields...)
	if title == "" {
		title = fmt.Sprintf("Property %d", rec.Index+1)
	}

	priceFields := salePriceFields
	if kind == domain.KindRent {
		priceFields = rentPriceFields
	}
	price := parseNumber(rec.First(priceFields...), 0)
	if price <= 0 {
		return domain.Property{}, ErrNoPrice
	}

	area := parseNumber(rec.First(areaFields...), 800)
	bedrooms := int(parseNumber(rec.First(bedroomFields...), 0))

	agent := rec.First(agentFields...)
	if agent == "" {
		agent = n.Tables.PlaceholderAgent
	}

	now := time.Now
	if n.Now != nil {
		now = n.Now
	}

	return domain.Property{
		ID:        fmt.Sprintf("%s-%d-%d", kind, rec.Index, now().UnixMilli()),
		Title:     title,
		Price:     price,
		Area:      area,
		Bedrooms:  bedrooms,
		Community: community,
		Images:    n.images(rec),
		Kind:      kind,
		Usage:     domain.UsageCommercial,
		Category:  category,
		AgentName: agent,
	}, nil
}

// NormalizeAll maps a record sequence, dropping rejects, and logs the
// shrinkage per feed kind.
func (n *Normalizer) NormalizeAll(recs []extract.Record, kind domain.ListingKind) []domain.Property {
	out := make([]domain.Property, 0, len(recs))
	for _, rec := range recs {
		p, err := n.Normalize(rec, kind)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	if len(recs) > 0 {
		log.Printf("normalize: %s feed %d -> %d records (dropped %d)",
			kind, len(recs), len(out), len(recs)-len(out))
	}
	return out
}

// Commercial reports whether a raw category label is commercial stock:
// a boolean OR of keyword containment over the lower-cased label.
func (n *Normalizer) Commercial(category string) bool {
	c := strings.ToLower(category)
	for _, kw := range n.Tables.CommercialKeywords {
		if strings.Contains(c, kw) {
			return true
		}
	}
	return false
}

// Canonicalize maps a raw community string to its canonical name via the
// ordered alias table. No alias match returns the raw value unchanged.
func (n *Normalizer) Canonicalize(community string) string {
	c := strings.ToLower(community)
	for _, a := range n.Tables.CommunityAliases {
		if strings.Contains(c, a.Match) {
			return a.Canonical
		}
	}
	return community
}

// TargetOf matches a community against the whitelist using bidirectional
// case-insensitive containment: it tolerates both truncated and
// over-qualified source strings ("Business Bay Tower 2" and "Bay" styles),
// at the cost of possible false positives. An empty community never
// matches. Exchange the tables for exact matching if that risk bites.
func TargetOf(community string, targets []string) (string, bool) {
	c := strings.ToLower(strings.TrimSpace(community))
	if c == "" {
		return "", false
	}
	for _, t := range targets {
		tl := strings.ToLower(t)
		if strings.Contains(c, tl) || strings.Contains(tl, c) {
			return t, true
		}
	}
	return "", false
}

// images collects the record's image URLs in document order, preferring an
// Images container of Image/ImageURL pairs, then loose sibling tags, then
// the placeholder set. Capped at Tables.MaxImages when positive.
func (n *Normalizer) images(rec extract.Record) []string {
	var urls []string
	if c, ok := rec.Container(imageContainers...); ok {
		urls = c.Texts(imageLeaves...)
	}
	if len(urls) == 0 {
		urls = rec.Texts(imageSiblings...)
	}
	if len(urls) == 0 {
		urls = append(urls, n.Tables.PlaceholderImages...)
	}
	if n.Tables.MaxImages > 0 && len(urls) > n.Tables.MaxImages {
		urls = urls[:n.Tables.MaxImages]
	}
	return urls
}

// parseNumber strips everything but digits and dots, then parses. "AED
// 1,250,000" -> 1250000. Unparsable input returns the fallback.
func parseNumber(raw string, fallback float64) float64 {
	cleaned := nonNumeric.ReplaceAllString(raw, "")
	if cleaned == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return fallback
	}
	return v
}
