package sensors

// Links holds query strings for neighbouring pages. Prev and Next are
// empty on the first and last page.
type Links struct {
	First string `json:"first"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
	Last  string `json:"last"`
}

// View is everything the sensor list renders for one query
type View struct {
	Query      ListQuery  `json:"query"`
	Canonical  string     `json:"canonical"`
	Items      []Record   `json:"items"`
	Pagination Pagination `json:"pagination"`
	Window     []PageSlot `json:"window"`
	Summary    Summary    `json:"summary"`
	Links      Links      `json:"links"`
}

// BuildView derives the rendered list from the full record set. The
// effective page is pulled back to the last page when the query points
// past the end of a non-empty list.
func BuildView(records []Record, q ListQuery) View {
	q = q.Normalize()
	filtered := Filter(records, q.Status)

	totalPages := TotalPages(len(filtered), q.PageSize)
	if len(filtered) > 0 && q.Page > totalPages {
		q.Page = totalPages
	}

	items, pagination := Paginate(filtered, q.Page, q.PageSize)

	return View{
		Query:      q,
		Canonical:  q.Encode(),
		Items:      items,
		Pagination: pagination,
		Window:     BuildPageWindow(q.Page, pagination.TotalPages),
		Summary:    Summarize(records),
		Links:      buildLinks(q, pagination.TotalPages),
	}
}

func buildLinks(q ListQuery, totalPages int) Links {
	at := func(page int) string {
		return UpdateParams(q, ParamUpdate{}.WithPage(page)).Encode()
	}

	links := Links{First: at(1), Last: at(totalPages)}
	if q.Page > 1 {
		links.Prev = at(q.Page - 1)
	}
	if q.Page < totalPages {
		links.Next = at(q.Page + 1)
	}
	return links
}
