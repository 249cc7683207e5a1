package filter

import (
	"strings"

	"property-sync/internal/domain"
)

// Criteria is a pure predicate over normalized properties. The zero value
// passes every commercial property: empty search and type match anything,
// and a Max of 0 means that bound is open.
type Criteria struct {
	// Search matches case-insensitively against title, community and
	// category.
	Search string

	PriceMin float64
	PriceMax float64 // 0 = unbounded

	AreaMin float64
	AreaMax float64 // 0 = unbounded

	// PropertyType narrows by category substring; "" or "any" passes all.
	// Properties without a category fail a concrete type filter.
	PropertyType string
}

// Matches reports whether every criterion holds for p.
func (c Criteria) Matches(p domain.Property) bool {
	// Normalization already drops non-commercial stock; re-check anyway so
	// a hand-built Property cannot slip through.
	if p.Usage != domain.UsageCommercial {
		return false
	}

	if s := strings.ToLower(strings.TrimSpace(c.Search)); s != "" {
		if !strings.Contains(strings.ToLower(p.Title), s) &&
			!strings.Contains(strings.ToLower(p.Community), s) &&
			!(p.Category != "" && strings.Contains(strings.ToLower(p.Category), s)) {
			return false
		}
	}

	if p.Price < c.PriceMin || (c.PriceMax > 0 && p.Price > c.PriceMax) {
		return false
	}
	if p.Area < c.AreaMin || (c.AreaMax > 0 && p.Area > c.AreaMax) {
		return false
	}

	if t := strings.ToLower(strings.TrimSpace(c.PropertyType)); t != "" && t != "any" {
		if p.Category == "" || !strings.Contains(strings.ToLower(p.Category), t) {
			return false
		}
	}

	return true
}

// Apply selects the properties matching c, preserving input order. Pure:
// the input slice is never modified, and applying twice equals applying
// once.
func (c Criteria) Apply(props []domain.Property) []domain.Property {
	out := make([]domain.Property, 0, len(props))
	for _, p := range props {
		if c.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
