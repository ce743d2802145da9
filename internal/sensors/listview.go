package sensors

// Pagination describes one page of a filtered list. Page is the page that
// was asked for, even when it lies past TotalPages.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Filter keeps the records matching status, preserving order. FilterAll
// returns records unchanged.
func Filter(records []Record, status StatusFilter) []Record {
	status = ParseStatus(string(status))
	if status == FilterAll {
		return records
	}

	filtered := make([]Record, 0, len(records))
	for _, r := range records {
		if string(r.Status) == string(status) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// TotalPages returns ceil(total/pageSize), never less than 1
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate slices items[(page-1)*pageSize : page*pageSize]. A page past the
// end yields an empty slice, not an error.
func Paginate[T any](items []T, page, pageSize int) ([]T, Pagination) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(items)
	p := Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: TotalPages(total, pageSize),
	}

	// pages are compared before multiplying; (page-1)*pageSize overflows for huge pages
	if total == 0 || page > p.TotalPages {
		return []T{}, p
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	return items[start:end:end], p
}
