// Package matching filters, ranges and orders property candidates.
// Every function here is pure and total: malformed input degrades to a
// looser filter or an empty result, never an error.
package matching

import (
	"math"
	"strconv"
	"strings"

	"estate_portal_backend/internal/catalog/domain"
)

// Deal types accepted by FilterRequest.DealType.
const (
	DealAll  = "all"
	DealBuy  = "buy"
	DealRent = "rent"
)

// Amenity flag keywords. A flag matches when any amenity or feature tag
// contains the keyword.
const (
	KeywordParking   = "parking"
	KeywordFurnished = "furnish"
	KeywordPet       = "pet"
)

// FilterRequest is a search as submitted by a client. Numeric bounds are
// kept as text because they arrive from query strings; values that do not
// parse as numbers are ignored.
type FilterRequest struct {
	DealType     string
	PropertyType string
	Keyword      string
	Location     string
	MinPrice     string
	MaxPrice     string
	MinBeds      string
	MinBaths     string
	MinArea      string
	MaxArea      string
	HasParking   bool
	IsFurnished  bool
	PetFriendly  bool
}

// Criteria is a FilterRequest after coercion. Nil bounds and empty strings
// contribute no clause. The catalog store translates the same Criteria into
// SQL so both evaluation paths share one reading of the request.
type Criteria struct {
	Status       domain.Status
	PropertyType string
	Keyword      string
	Location     string
	MinPrice     *float64
	MaxPrice     *float64
	MinBeds      *float64
	MinBaths     *float64
	MinArea      *float64
	MaxArea      *float64
	Amenities    []string
}

// Normalize coerces the request into Criteria.
func Normalize(f FilterRequest) Criteria {
	c := Criteria{
		Status:       dealStatus(f.DealType),
		PropertyType: normalizeChoice(f.PropertyType),
		Keyword:      strings.TrimSpace(f.Keyword),
		Location:     strings.TrimSpace(f.Location),
		MinPrice:     parseNumber(f.MinPrice),
		MaxPrice:     parseNumber(f.MaxPrice),
		MinBeds:      parseNumber(f.MinBeds),
		MinBaths:     parseNumber(f.MinBaths),
		MinArea:      parseNumber(f.MinArea),
		MaxArea:      parseNumber(f.MaxArea),
	}
	if f.HasParking {
		c.Amenities = append(c.Amenities, KeywordParking)
	}
	if f.IsFurnished {
		c.Amenities = append(c.Amenities, KeywordFurnished)
	}
	if f.PetFriendly {
		c.Amenities = append(c.Amenities, KeywordPet)
	}
	return c
}

// dealStatus maps a deal type to the listing status it selects. Unknown
// deal types select nothing in particular.
func dealStatus(dealType string) domain.Status {
	switch strings.ToLower(strings.TrimSpace(dealType)) {
	case DealBuy:
		return domain.StatusForSale
	case DealRent:
		return domain.StatusForRent
	default:
		return ""
	}
}

func normalizeChoice(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.EqualFold(trimmed, "all") {
		return ""
	}
	return trimmed
}

func parseNumber(raw string) *float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) {
		return nil
	}
	return &value
}
