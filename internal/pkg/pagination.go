package pkg

import (
	"math"

	"gorm.io/gorm"

	"github.com/simp-lee/travelmarket/internal/domain"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// NormalizePage clamps a 1-based page number to valid bounds.
func NormalizePage(page int) int {
	if page < 1 {
		return defaultPage
	}
	return page
}

// NormalizePageSize clamps a page size to valid bounds, applying the default
// when unset.
func NormalizePageSize(pageSize int) int {
	if pageSize < 1 {
		return defaultPageSize
	}
	if pageSize > maxPageSize {
		return maxPageSize
	}
	return pageSize
}

// Window converts a 1-based page and page size into an offset/limit pair.
func Window(page, pageSize int) (offset, limit int) {
	return (page - 1) * pageSize, pageSize
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET for the given
// 1-based page.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset, limit := Window(page, pageSize)
		return db.Offset(offset).Limit(limit)
	}
}

// NewPagination computes pagination metadata from a total count obtained
// independently of the windowed fetch. A page beyond the last valid page is
// not an error; it simply yields HasNextPage=false.
func NewPagination(total int64, page, pageSize int) domain.Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}

	return domain.Pagination{
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && total > 0,
	}
}
