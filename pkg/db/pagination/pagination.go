package pagination

// Pagination carries offset paging parameters from list requests.
type Pagination struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=20" validate:"gte=1,lte=250"` // Min 1, Max 250
}

// PageInfo describes the returned page and the full result size.
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 250
)

// Normalize clamps paging values to sane bounds.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

// Offset returns the row offset for the page.
func (p Pagination) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.PageSize
}

// BuildPageInfo derives the page descriptor from the total row count.
func BuildPageInfo(p Pagination, totalCount int64) PageInfo {
	p = p.Normalize()
	totalPages := int(totalCount) / p.PageSize
	if int(totalCount)%p.PageSize != 0 {
		totalPages++
	}
	return PageInfo{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
