package pagination

import "strconv"

// Pagination represents pagination parameters.
type Pagination struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// Default values.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// New creates pagination with default values.
func New() *Pagination {
	return &Pagination{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}
}

// Parse reads page and page_size query values. It returns nil when neither
// is present, meaning the caller asked for the full list.
func Parse(page, pageSize string) *Pagination {
	if page == "" && pageSize == "" {
		return nil
	}
	p := New()
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(pageSize); err == nil && n > 0 {
		p.PageSize = n
	}
	return p
}

// Offset returns the offset for database queries.
func (p *Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// Limit returns the limit for database queries.
func (p *Pagination) Limit() int {
	if p.PageSize < 1 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}
