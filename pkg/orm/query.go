package orm

import (
	"math"
	"strings"

	"gorm.io/gorm"
)

// Pagination is the metadata block rendered next to every paginated list.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
}

// NewPagination derives the metadata for page/perPage over total rows.
// TotalPages never drops below 1, so an empty result is still "page 1 of 1".
func NewPagination(page, perPage int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		pages = 1
	}

	return Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		TotalPages:  pages,
		TotalCount:  total,
	}
}

// Offset is the number of rows skipped before the current page. It saturates
// at math.MaxInt instead of overflowing.
func (p Pagination) Offset() int {
	if p.CurrentPage <= 1 || p.PerPage <= 0 {
		return 0
	}
	if p.CurrentPage-1 > math.MaxInt/p.PerPage {
		return math.MaxInt
	}
	return (p.CurrentPage - 1) * p.PerPage
}

// PastEnd reports whether the current page starts after the last row.
func (p Pagination) PastEnd() bool {
	return int64(p.Offset()) >= p.TotalCount
}

// Window returns the [start, end) slice bounds of the current page within
// total rows, clamped so a page past the end yields an empty window.
func (p Pagination) Window(total int) (start, end int) {
	start = p.Offset()
	if start >= total {
		return total, total
	}
	end = total
	if total-start > p.PerPage {
		end = start + p.PerPage
	}
	return start, end
}

// Paginate is a gorm scope applying LIMIT/OFFSET for p.
//
//	db.Scopes(orm.Paginate(p)).Find(&rows)
func Paginate(p Pagination) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.PerPage)
	}
}

// LikeEscape is the escape character used by Contains.
const LikeEscape = '!'

// Contains returns a gorm scope matching rows whose column contains term,
// ignoring case. LIKE wildcards in term match literally.
func Contains(column, term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		pattern := "%" + EscapeLike(strings.ToLower(term), db.Dialector.Name() == "sqlserver") + "%"
		return db.Where("LOWER("+column+") LIKE ? ESCAPE '!'", pattern)
	}
}

// EscapeLike prefixes every LIKE metacharacter in s with LikeEscape.
// SQL Server additionally treats '[' as a metacharacter.
func EscapeLike(s string, bracket bool) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r == LikeEscape, r == '%', r == '_', bracket && r == '[':
			out = append(out, LikeEscape, r)
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
