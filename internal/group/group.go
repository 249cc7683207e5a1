package group

import (
	"property-sync/internal/domain"
	"property-sync/internal/normalize"
)

// ByCommunity partitions properties into one list per target community,
// preserving input order within each list. Every community gets an entry
// even with zero matches, so callers can render "0 properties" states.
// Membership uses the same containment rule as the normalization gate, so
// a property that survived normalization always lands in exactly one group.
func ByCommunity(props []domain.Property, communities []string) map[string][]domain.Property {
	out := make(map[string][]domain.Property, len(communities))
	for _, c := range communities {
		out[c] = []domain.Property{}
	}
	for _, p := range props {
		target, ok := normalize.TargetOf(p.Community, communities)
		if !ok {
			continue
		}
		out[target] = append(out[target], p)
	}
	return out
}
