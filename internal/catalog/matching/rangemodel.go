package matching

import "estate_portal_backend/internal/catalog/domain"

// Range is the observed price and area domain of a candidate set. It feeds
// slider bounds and plays no part in filtering.
type Range struct {
	MinPrice int64 `json:"minPrice"`
	MaxPrice int64 `json:"maxPrice"`
	MinArea  int   `json:"minArea"`
	MaxArea  int   `json:"maxArea"`
}

// ComputeRange returns the bounds over candidates. An empty set yields the
// zero Range.
func ComputeRange(candidates []domain.Property) Range {
	if len(candidates) == 0 {
		return Range{}
	}

	r := Range{
		MinPrice: candidates[0].Price,
		MaxPrice: candidates[0].Price,
		MinArea:  candidates[0].Area,
		MaxArea:  candidates[0].Area,
	}
	for _, p := range candidates[1:] {
		r.MinPrice = min(r.MinPrice, p.Price)
		r.MaxPrice = max(r.MaxPrice, p.Price)
		r.MinArea = min(r.MinArea, p.Area)
		r.MaxArea = max(r.MaxArea, p.Area)
	}
	return r
}
