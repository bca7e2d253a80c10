package matching

import (
	"strings"

	"estate_portal_backend/internal/catalog/domain"
)

// Predicate decides whether a property belongs in a result.
type Predicate func(domain.Property) bool

// Clause is one named conjunct of a predicate.
type Clause struct {
	Name string
	Test Predicate
}

// Build returns the conjunction of every clause the request contributes.
// A request with no clauses matches everything.
func Build(f FilterRequest) Predicate {
	return BuildCriteria(Normalize(f))
}

// BuildCriteria is Build over already coerced criteria.
func BuildCriteria(c Criteria) Predicate {
	clauses := CriteriaClauses(c)
	return func(p domain.Property) bool {
		for _, clause := range clauses {
			if !clause.Test(p) {
				return false
			}
		}
		return true
	}
}

// Clauses lists the clauses a request contributes, in a fixed order.
func Clauses(f FilterRequest) []Clause {
	return CriteriaClauses(Normalize(f))
}

// CriteriaClauses lists the clauses for coerced criteria.
func CriteriaClauses(c Criteria) []Clause {
	clauses := make([]Clause, 0, 12)

	if c.Status != "" {
		status := c.Status
		clauses = append(clauses, Clause{Name: "dealType", Test: func(p domain.Property) bool {
			return p.Status == status
		}})
	}
	if c.PropertyType != "" {
		propertyType := c.PropertyType
		clauses = append(clauses, Clause{Name: "propertyType", Test: func(p domain.Property) bool {
			return strings.EqualFold(p.Type, propertyType)
		}})
	}
	if c.Keyword != "" {
		needle := strings.ToLower(c.Keyword)
		clauses = append(clauses, Clause{Name: "keyword", Test: func(p domain.Property) bool {
			return containsFold(p.Title, needle) || containsFold(p.Address, needle)
		}})
	}
	if c.Location != "" {
		needle := strings.ToLower(c.Location)
		clauses = append(clauses, Clause{Name: "location", Test: func(p domain.Property) bool {
			return containsFold(p.Address, needle) || containsFold(p.City, needle)
		}})
	}

	clauses = appendBound(clauses, "minPrice", c.MinPrice, atLeast, func(p domain.Property) float64 { return float64(p.Price) })
	clauses = appendBound(clauses, "maxPrice", c.MaxPrice, atMost, func(p domain.Property) float64 { return float64(p.Price) })
	clauses = appendBound(clauses, "minBeds", c.MinBeds, atLeast, func(p domain.Property) float64 { return float64(p.Beds) })
	clauses = appendBound(clauses, "minBaths", c.MinBaths, atLeast, func(p domain.Property) float64 { return float64(p.Baths) })
	clauses = appendBound(clauses, "minArea", c.MinArea, atLeast, func(p domain.Property) float64 { return float64(p.Area) })
	clauses = appendBound(clauses, "maxArea", c.MaxArea, atMost, func(p domain.Property) float64 { return float64(p.Area) })

	for _, keyword := range c.Amenities {
		needle := strings.ToLower(keyword)
		clauses = append(clauses, Clause{Name: "amenity:" + keyword, Test: func(p domain.Property) bool {
			return hasTag(p, needle)
		}})
	}

	return clauses
}

func atLeast(value, bound float64) bool { return value >= bound }
func atMost(value, bound float64) bool  { return value <= bound }

func appendBound(clauses []Clause, name string, bound *float64, cmp func(value, bound float64) bool, field func(domain.Property) float64) []Clause {
	if bound == nil {
		return clauses
	}
	limit := *bound
	return append(clauses, Clause{Name: name, Test: func(p domain.Property) bool {
		return cmp(field(p), limit)
	}})
}

func hasTag(p domain.Property, needle string) bool {
	for _, tag := range p.Amenities {
		if containsFold(tag, needle) {
			return true
		}
	}
	for _, tag := range p.Features {
		if containsFold(tag, needle) {
			return true
		}
	}
	return false
}

// containsFold reports whether lowerNeedle occurs in s ignoring case.
func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
