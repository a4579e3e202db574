package option

import (
	"strings"

	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

// QueryOption mutates a gorm statement before execution.
type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type optionFunc func(*gorm.DB) *gorm.DB

func (f optionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

// ApplyPagination applies offset paging.
func ApplyPagination(p pagination.Pagination) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		p := p.Normalize()
		return db.Offset(p.Offset()).Limit(p.PageSize)
	})
}

// QuerySortBy declares the requested sort and its allowlist.
type QuerySortBy struct {
	Column  string
	Desc    bool
	Allow   map[string]bool
	Default string
}

// WithSortBy orders by an allowlisted column, falling back to the default.
func WithSortBy(sort QuerySortBy) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		column := strings.TrimSpace(strings.ToLower(sort.Column))
		if column == "" || !sort.Allow[column] {
			column = sort.Default
		}
		if column == "" {
			return db
		}
		direction := "asc"
		if sort.Desc {
			direction = "desc"
		}
		return db.Order(column + " " + direction)
	})
}

// WithSearch applies a case-insensitive LIKE across the given columns.
func WithSearch(term string, columns ...string) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		clause := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))
		for _, column := range columns {
			clause = append(clause, "lower("+column+") LIKE ?")
			args = append(args, pattern)
		}
		return db.Where("("+strings.Join(clause, " OR ")+")", args...)
	})
}
