package repository

import (
	"fmt"
	"strings"

	"estate_portal_backend/internal/catalog/matching"
)

// buildPropertySearchWhere renders criteria as a WHERE clause with the same
// meaning as matching.BuildCriteria. Numeric bounds are compared as double
// precision because coerced bounds may be fractional.
func buildPropertySearchWhere(c matching.Criteria) (string, []interface{}) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	addEquals := func(column string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}
	addBound := func(column, op string, value *float64) {
		if value == nil {
			return
		}
		whereClauses = append(whereClauses, fmt.Sprintf("%s %s $%d::double precision", column, op, argIdx))
		args = append(args, *value)
		argIdx++
	}
	addContainsAny := func(columns []string, needle string) {
		parts := make([]string, len(columns))
		for i, column := range columns {
			parts[i] = fmt.Sprintf("%s ILIKE $%d", column, argIdx)
		}
		whereClauses = append(whereClauses, "("+strings.Join(parts, " OR ")+")")
		args = append(args, likePattern(needle))
		argIdx++
	}

	if c.Status != "" {
		addEquals("status", string(c.Status))
	}
	if c.PropertyType != "" {
		addEquals("lower(type)", strings.ToLower(c.PropertyType))
	}
	if c.Keyword != "" {
		addContainsAny([]string{"title", "address"}, c.Keyword)
	}
	if c.Location != "" {
		addContainsAny([]string{"address", "city"}, c.Location)
	}

	addBound("price", ">=", c.MinPrice)
	addBound("price", "<=", c.MaxPrice)
	addBound("beds", ">=", c.MinBeds)
	addBound("baths", ">=", c.MinBaths)
	addBound("area", ">=", c.MinArea)
	addBound("area", "<=", c.MaxArea)

	for _, keyword := range c.Amenities {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM unnest(amenities || features) AS tag WHERE tag ILIKE $%d)", argIdx,
		))
		args = append(args, likePattern(keyword))
		argIdx++
	}

	return strings.Join(whereClauses, " AND "), args
}

// orderClause mirrors the stable engine sort over newest-first candidates.
func orderClause(key matching.SortKey) string {
	const tiebreak = "created_at DESC, id ASC"
	switch matching.ParseSortKey(string(key)) {
	case matching.SortPriceLowHigh:
		return "price ASC, " + tiebreak
	case matching.SortPriceHighLow:
		return "price DESC, " + tiebreak
	default:
		return tiebreak
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps needle for a substring ILIKE, escaping wildcards so the
// match is literal like strings.Contains.
func likePattern(needle string) string {
	return "%" + likeEscaper.Replace(needle) + "%"
}
