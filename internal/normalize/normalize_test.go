package normalize

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"property-sync/internal/domain"
	"property-sync/internal/extract"
)

func testNormalizer() *Normalizer {
	n := New(DefaultTables())
	n.Now = func() time.Time { return time.UnixMilli(1724966400000) }
	return n
}

func recordsFromXML(t *testing.T, doc string) []extract.Record {
	t.Helper()
	recs, err := extract.Records(context.Background(), []byte(doc), extract.DefaultOptions())
	if err != nil {
		t.Fatalf("Expected test document to parse, got %v", err)
	}
	return recs
}

func singleRecord(t *testing.T, doc string) extract.Record {
	t.Helper()
	recs := recordsFromXML(t, doc)
	if len(recs) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(recs))
	}
	return recs[0]
}

func TestCommercialClassifier(t *testing.T) {
	n := testNormalizer()

	cases := []struct {
		category string
		want     bool
	}{
		{"Modern Office Space", true},
		{"Retail Shop", true},
		{"WAREHOUSE unit", true},
		{"Medical Clinic", true},
		{"2 Bedroom Apartment", false},
		{"Villa", false},
		{"", false},
	}
	for _, c := range cases {
		if got := n.Commercial(c.category); got != c.want {
			t.Errorf("Commercial(%q) = %v, want %v", c.category, got, c.want)
		}
	}
}

func TestCanonicalizeAliases(t *testing.T) {
	n := testNormalizer()

	cases := []struct {
		raw  string
		want string
	}{
		{"Dubai Investment Park (DIP) — Phase 2", "Motor City"},
		{"business bay", "Business Bay"},
		{"Al Barsha Heights", "Barsha Heights"},
		{"TECOM District", "Barsha Heights"},
		{"Jumeirah Lakes Towers", "Jumeirah Lakes Towers"}, // no alias: unchanged
	}
	for _, c := range cases {
		if got := n.Canonicalize(c.raw); got != c.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestCanonicalizeAliasOrderDeterministic(t *testing.T) {
	n := New(Tables{
		CommunityAliases: []Alias{
			{Match: "barsha", Canonical: "First"},
			{Match: "barsha heights", Canonical: "Second"},
		},
	})
	// Both aliases match as substrings; declaration order must win.
	if got := n.Canonicalize("Al Barsha Heights"); got != "First" {
		t.Errorf("Expected first declared alias to win, got %q", got)
	}
}

func TestTargetOf(t *testing.T) {
	targets := DefaultTables().TargetCommunities

	if _, ok := TargetOf("Business Bay", targets); !ok {
		t.Error("Expected exact community to match")
	}
	// Over-qualified source string.
	if got, ok := TargetOf("Business Bay Tower 2", targets); !ok || got != "Business Bay" {
		t.Errorf("Expected over-qualified match to Business Bay, got %q ok=%v", got, ok)
	}
	// Truncated source string.
	if got, ok := TargetOf("Motor", targets); !ok || got != "Motor City" {
		t.Errorf("Expected truncated match to Motor City, got %q ok=%v", got, ok)
	}
	if _, ok := TargetOf("Downtown", targets); ok {
		t.Error("Expected non-target community to be rejected")
	}
	// Empty string must never match a non-empty whitelist entry.
	if _, ok := TargetOf("", targets); ok {
		t.Error("Expected empty community to be rejected")
	}
	if _, ok := TargetOf("   ", targets); ok {
		t.Error("Expected whitespace community to be rejected")
	}
}

func TestNormalizeEndToEndSale(t *testing.T) {
	rec := singleRecord(t, `<Units><UnitDTO>
	  <Category>Retail Shop</Category>
	  <Community>Al Barsha Heights</Community>
	  <SellPrice>500,000</SellPrice>
	  <BuiltupArea>900 sqft</BuiltupArea>
	</UnitDTO></Units>`)

	n := testNormalizer()
	p, err := n.Normalize(rec, domain.KindSale)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if p.Category != "Retail Shop" {
		t.Errorf("Expected category %q, got %q", "Retail Shop", p.Category)
	}
	if p.Community != "Barsha Heights" {
		t.Errorf("Expected community %q, got %q", "Barsha Heights", p.Community)
	}
	if p.Price != 500000 {
		t.Errorf("Expected price 500000, got %v", p.Price)
	}
	if p.Area != 900 {
		t.Errorf("Expected area 900, got %v", p.Area)
	}
	if p.Usage != domain.UsageCommercial {
		t.Errorf("Expected commercial usage, got %q", p.Usage)
	}
	if p.Kind != domain.KindSale {
		t.Errorf("Expected sale kind, got %q", p.Kind)
	}
	if p.ID != "sale-0-1724966400000" {
		t.Errorf("Expected id from kind+index+timestamp, got %q", p.ID)
	}
	if p.Title != "Property 1" {
		t.Errorf("Expected synthesized title, got %q", p.Title)
	}
	if p.AgentName != "Chestertons Agent" {
		t.Errorf("Expected placeholder agent, got %q", p.AgentName)
	}
	if len(p.Images) != 3 {
		t.Errorf("Expected placeholder image set of 3, got %d", len(p.Images))
	}
}

func TestNormalizeRejectsResidential(t *testing.T) {
	rec := singleRecord(t, `<Units><UnitDTO>
	  <Category>Apartment</Category>
	  <Community>Al Barsha Heights</Community>
	  <SellPrice>500,000</SellPrice>
	</UnitDTO></Units>`)

	_, err := testNormalizer().Normalize(rec, domain.KindSale)
	if !errors.Is(err, ErrNotCommercial) {
		t.Errorf("Expected ErrNotCommercial, got %v", err)
	}
}

func TestNormalizeRejectsMissingCategory(t *testing.T) {
	rec := singleRecord(t, `<Units><UnitDTO>
	  <Community>Business Bay</Community>
	  <SellPrice>500,000</SellPrice>
	</UnitDTO></Units>`)

	_, err := testNormalizer().Normalize(rec, domain.KindSale)
	if !errors.Is(err, ErrNoCategory) {
		t.Errorf("Expected ErrNoCategory, got %v", err)
	}
}

func TestNormalizeRejectsMissingCommunity(t *testing.T) {
	rec := singleRecord(t, `<Units><UnitDTO>
	  <Category>Office</Category>
	  <SellPrice>500,000</SellPrice>
	</UnitDTO></Units>`)

	_, err := testNormalizer().Normalize(rec, domain.KindSale)
	if !errors.Is(err, ErrNotTargeted) {
		t.Errorf("Expected ErrNotTargeted for empty community, got %v", err)
	}
}

func TestNormalizeRejectsUnparsablePrice(t *testing.T) {
	rec := singleRecord(t, `<Units><UnitDTO>
	  <Category>Office</Category>
	  <Community>Business Bay</Community>
	  <SellPrice>N/A</SellPrice>
	</UnitDTO></Units>`)

	_, err := testNormalizer().Normalize(rec, domain.KindSale)
	if !errors.Is(err, ErrNoPrice) {
		t.Errorf("Expected ErrNoPrice for N/A price, got %v", err)
	}
}

func TestNormalizeRentPriceCandidates(t *testing.T) {
	rec := singleRecord(t, `<Units><UnitDTO>
	  <Category>Office</Category>
	  <Community>Business Bay</Community>
	  <Rent>85,000</Rent>
	  <SellPrice>1,000,000</SellPrice>
	</UnitDTO></Units>`)

	p, err := testNormalizer().Normalize(rec, domain.KindRent)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.Price != 85000 {
		t.Errorf("Expected rent candidate list to prefer Rent, got %v", p.Price)
	}
}

func TestNormalizeFieldDefaults(t *testing.T) {
	rec := singleRecord(t, `<Units><UnitDTO>
	  <Category>Office</Category>
	  <Community>Business Bay</Community>
	  <SellPrice>750000</SellPrice>
	  <BuiltupArea>unknown</BuiltupArea>
	</UnitDTO></Units>`)

	p, err := testNormalizer().Normalize(rec, domain.KindSale)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.Area != 800 {
		t.Errorf("Expected area default 800 for unparsable value, got %v", p.Area)
	}
	if p.Bedrooms != 0 {
		t.Errorf("Expected bedrooms default 0, got %d", p.Bedrooms)
	}
}

func TestNormalizeImageCap(t *testing.T) {
	doc := `<Units><UnitDTO>
	  <Category>Office</Category>
	  <Community>Business Bay</Community>
	  <SellPrice>750000</SellPrice>
	  <Images>`
	for i := 1; i <= 7; i++ {
		doc += fmt.Sprintf("<Image><ImageURL>https://a.example/%d.jpg</ImageURL></Image>", i)
	}
	doc += `</Images></UnitDTO></Units>`

	p, err := testNormalizer().Normalize(singleRecord(t, doc), domain.KindSale)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(p.Images) != 5 {
		t.Errorf("Expected image list capped at 5, got %d", len(p.Images))
	}
	if p.Images[0] != "https://a.example/1.jpg" {
		t.Errorf("Expected document order preserved, got %q first", p.Images[0])
	}
}

func TestNormalizeAllDropsRejects(t *testing.T) {
	recs := recordsFromXML(t, `<Units>
	  <UnitDTO>
	    <Category>Office</Category>
	    <Community>Business Bay</Community>
	    <SellPrice>750000</SellPrice>
	  </UnitDTO>
	  <UnitDTO>
	    <Category>Apartment</Category>
	    <Community>Business Bay</Community>
	    <SellPrice>900000</SellPrice>
	  </UnitDTO>
	  <UnitDTO>
	    <Category>Office</Category>
	    <Community>Business Bay</Community>
	    <SellPrice>0</SellPrice>
	  </UnitDTO>
	</Units>`)

	props := testNormalizer().NormalizeAll(recs, domain.KindSale)
	if len(props) != 1 {
		t.Fatalf("Expected 1 surviving property, got %d", len(props))
	}
	if props[0].Price <= 0 {
		t.Errorf("Expected every surviving property to have positive price, got %v", props[0].Price)
	}
}
