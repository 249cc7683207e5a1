package domain

// ListingKind says which upstream feed a property came from.
type ListingKind string

const (
	KindSale ListingKind = "sale"
	KindRent ListingKind = "rent"
)

// UsageClass separates commercial stock from residential.
type UsageClass string

const (
	UsageCommercial  UsageClass = "commercial"
	UsageResidential UsageClass = "residential"
)

// Property is the canonical representation of a listing inside this service.
// Every feed maps into this model, and every destination (CSV, XML, the
// inquiry webhook) maps from it. A Property is never mutated after the
// normalizer builds it; filtering and grouping only select references.
type Property struct {
	ID    string // kind + positional index + load timestamp; best-effort unique per run
	Title string // never empty (synthesized when the source is blank)

	Price    float64 // > 0 for any Property that survives normalization
	Area     float64 // square feet; defaults to 800 when unparsable
	Bedrooms int     // defaults to 0

	Community string   // canonicalized when a known alias matches, else raw
	Images    []string // never empty; placeholder set when the feed has none

	Kind  ListingKind
	Usage UsageClass

	Category  string // raw category label, kept for display and type filtering
	AgentName string
}
