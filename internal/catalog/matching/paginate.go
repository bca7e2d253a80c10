package matching

// PageInfo describes the slice returned by Paginate.
type PageInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Paginate returns one page of items. Page numbers start at 1; a
// non-positive page size returns everything as a single page.
func Paginate[T any](items []T, page, pageSize int) ([]T, PageInfo) {
	total := len(items)
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		out := make([]T, total)
		copy(out, items)
		return out, PageInfo{Page: 1, PageSize: total, Total: total, TotalPages: 1}
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	// Compare page numbers before multiplying so a huge page cannot overflow.
	if page-1 >= (total+pageSize-1)/pageSize {
		return []T{}, PageInfo{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, PageInfo{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}
