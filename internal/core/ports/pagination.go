package ports

const (
	DefaultPageLimit = 15
	MaxPageLimit     = 50
)

// PageRequest carries the search text and 1-based page window of a list call.
type PageRequest struct {
	Query string
	Page  int
	Limit int
}

// Normalize clamps the page to >= 1 and the limit to (0, MaxPageLimit],
// substituting DefaultPageLimit when none was given.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset is the number of rows skipped before the requested page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageResult is one page of items plus the totals needed for pagination links.
type PageResult[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// NewPageResult computes TotalPages from total and the request limit.
func NewPageResult[T any](items []T, total int64, req PageRequest) *PageResult[T] {
	pages := 0
	if req.Limit > 0 {
		pages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}
	if items == nil {
		items = []T{}
	}
	return &PageResult[T]{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: pages,
	}
}
