package service

import "math"

// Page sizes of the paginated listings
const (
	CategoriesPerPage = 20
	ProductsPerPage   = 10
	UsersPerPage      = 20
)

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items       []T
	Total       int64
	PerPage     int
	CurrentPage int
}

// TotalPages is the index of the last page; an empty listing still has one page.
func (p *Page[T]) TotalPages() int {
	if p.Total == 0 || p.PerPage <= 0 {
		return 1
	}
	pages := int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if pages < 1 {
		return 1
	}
	return pages
}

// HasNext reports whether a page follows the current one.
func (p *Page[T]) HasNext() bool {
	return p.CurrentPage < p.TotalPages()
}

// window converts a 1-based page number into an offset and limit. The page is
// echoed back as requested; only the offset is clamped so it cannot overflow.
func window(page, perPage int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	skip := page - 1
	if maxSkip := math.MaxInt / perPage; skip > maxSkip {
		skip = maxSkip
	}
	return page, skip * perPage, perPage
}

// newPage keeps Items non-nil so an empty listing serializes as [].
func newPage[T any](items []T, total int64, page, perPage int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Total: total, PerPage: perPage, CurrentPage: page}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
