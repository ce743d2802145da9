package sensors

import (
	"net/url"
	"strconv"
	"strings"
)

// StatusFilter selects which sensors a list shows
type StatusFilter string

const (
	FilterAll     StatusFilter = "all"
	FilterOnline  StatusFilter = "online"
	FilterOffline StatusFilter = "offline"
)

// URL query parameter names
const (
	ParamStatus = "status"
	ParamPage   = "page"
	ParamSize   = "size"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 25
)

// PageSizes are the supported page sizes
var PageSizes = []int{25, 50, 100}

// ListQuery is the parsed form of the sensor list URL query. The URL is
// authoritative; a ListQuery is always derived from it.
type ListQuery struct {
	Status   StatusFilter `json:"status"`
	Page     int          `json:"page"`
	PageSize int          `json:"size"`
}

// DefaultQuery returns the query an empty URL parses to
func DefaultQuery() ListQuery {
	return ListQuery{Status: FilterAll, Page: DefaultPage, PageSize: DefaultPageSize}
}

// ParseStatus maps a raw value to a filter; unknown values mean all
func ParseStatus(raw string) StatusFilter {
	switch StatusFilter(raw) {
	case FilterOnline:
		return FilterOnline
	case FilterOffline:
		return FilterOffline
	default:
		return FilterAll
	}
}

func validPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// ParseQuery reads status, page and size from query values. Invalid or
// missing values fall back to their defaults; parsing never fails.
func ParseQuery(values url.Values) ListQuery {
	q := DefaultQuery()
	q.Status = ParseStatus(values.Get(ParamStatus))

	if page, err := strconv.Atoi(values.Get(ParamPage)); err == nil && page >= 1 {
		q.Page = page
	}

	if size, err := strconv.Atoi(values.Get(ParamSize)); err == nil && validPageSize(size) {
		q.PageSize = size
	}

	return q
}

// ParseRawQuery parses a raw query string, with or without a leading "?".
// Malformed pairs are skipped.
func ParseRawQuery(raw string) ListQuery {
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return ParseQuery(values)
}

// Normalize replaces every invalid field with its default
func (q ListQuery) Normalize() ListQuery {
	q.Status = ParseStatus(string(q.Status))
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if !validPageSize(q.PageSize) {
		q.PageSize = DefaultPageSize
	}
	return q
}

// Values renders the query, omitting parameters at their default value
func (q ListQuery) Values() url.Values {
	q = q.Normalize()
	values := url.Values{}
	if q.Status != FilterAll {
		values.Set(ParamStatus, string(q.Status))
	}
	if q.Page != DefaultPage {
		values.Set(ParamPage, strconv.Itoa(q.Page))
	}
	if q.PageSize != DefaultPageSize {
		values.Set(ParamSize, strconv.Itoa(q.PageSize))
	}
	return values
}

// Encode renders the minimal query string, without a leading "?"
func (q ListQuery) Encode() string {
	return q.Values().Encode()
}

// ParamUpdate is a partial change to a ListQuery. Nil fields are left
// as they are.
type ParamUpdate struct {
	Status   *StatusFilter
	Page     *int
	PageSize *int
}

// WithStatus returns a copy of u that sets the status filter
func (u ParamUpdate) WithStatus(s StatusFilter) ParamUpdate {
	u.Status = &s
	return u
}

// WithPage returns a copy of u that sets the page
func (u ParamUpdate) WithPage(page int) ParamUpdate {
	u.Page = &page
	return u
}

// WithPageSize returns a copy of u that sets the page size
func (u ParamUpdate) WithPageSize(size int) ParamUpdate {
	u.PageSize = &size
	return u
}

// UpdateParams applies u to current. Changing the status filter or the
// page size sends the list back to page 1 unless u also names a page.
func UpdateParams(current ListQuery, u ParamUpdate) ListQuery {
	current = current.Normalize()
	next := current

	if u.Status != nil {
		next.Status = *u.Status
	}
	if u.PageSize != nil {
		next.PageSize = *u.PageSize
	}
	next = next.Normalize()

	switch {
	case u.Page != nil:
		next.Page = *u.Page
	case next.Status != current.Status || next.PageSize != current.PageSize:
		next.Page = DefaultPage
	}

	return next.Normalize()
}

// UpdateURL applies u to the list parameters in a raw query string and
// returns the new query string. Parameters the list does not own are kept.
func UpdateURL(raw string, u ParamUpdate) string {
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if values == nil {
		values = url.Values{}
	}

	next := UpdateParams(ParseQuery(values), u)

	values.Del(ParamStatus)
	values.Del(ParamPage)
	values.Del(ParamSize)
	for key, vals := range next.Values() {
		values[key] = vals
	}

	return values.Encode()
}
