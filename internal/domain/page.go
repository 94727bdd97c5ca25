package domain

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PaginationParams carries a validated page/limit pair from the HTTP layer
// down to the repo layer. Construct it with NewPaginationParams.
type PaginationParams struct {
	Page  int // 1-indexed page number
	Limit int // rows per page, capped at maxPageLimit
}

// NewPaginationParams normalizes optional query values into usable paging
// parameters: nil or out-of-range values fall back to page 1 / limit 20, and
// the limit is capped so a single request cannot scan an unbounded range.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: defaultPageLimit}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, maxPageLimit)
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
