package services

// Pagination mirrors the paging block rendered under every listing.
type Pagination struct {
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

const maxPageSize = 500

func NewPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// NextPage and PrevPage are used by the templates to build links.
func (p Pagination) NextPage() int { return p.Page + 1 }

func (p Pagination) PrevPage() int { return p.Page - 1 }

func normalizePage(page, pageSize, defaultSize int) (int, int) {
	if defaultSize <= 0 {
		defaultSize = 50
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultSize
	}
	return page, pageSize
}
