package matching

import (
	"cmp"
	"slices"
	"strings"

	"estate_portal_backend/internal/catalog/domain"
)

// SortKey selects the result order.
type SortKey string

const (
	// SortDefault keeps candidate order.
	SortDefault      SortKey = "default"
	SortPriceLowHigh SortKey = "priceLowHigh"
	SortPriceHighLow SortKey = "priceHighLow"
)

// ParseSortKey maps unknown or empty keys to SortDefault.
func ParseSortKey(raw string) SortKey {
	switch SortKey(strings.TrimSpace(raw)) {
	case SortPriceLowHigh:
		return SortPriceLowHigh
	case SortPriceHighLow:
		return SortPriceHighLow
	default:
		return SortDefault
	}
}

// Match filters candidates and orders the survivors. Sorting is stable so
// equal prices keep their candidate order. The returned slice is never
// shared with candidates and is non-nil.
func Match(candidates []domain.Property, f FilterRequest, key SortKey) []domain.Property {
	return MatchCriteria(candidates, Normalize(f), key)
}

// MatchCriteria is Match over already coerced criteria.
func MatchCriteria(candidates []domain.Property, c Criteria, key SortKey) []domain.Property {
	predicate := BuildCriteria(c)

	result := make([]domain.Property, 0, len(candidates))
	for _, p := range candidates {
		if predicate(p) {
			result = append(result, p)
		}
	}

	switch ParseSortKey(string(key)) {
	case SortPriceLowHigh:
		slices.SortStableFunc(result, func(a, b domain.Property) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceHighLow:
		slices.SortStableFunc(result, func(a, b domain.Property) int { return cmp.Compare(b.Price, a.Price) })
	}

	return result
}
