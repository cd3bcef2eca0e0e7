// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps Skip far from int64 overflow.
	MaxPage = 1_000_000
)

// Params is a parsed page request. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// Parse reads ?page= and ?limit=. Missing or invalid values fall back to
// page 1 and DefaultLimit. Page is clamped to [1, MaxPage] and limit to
// [1, MaxLimit].
func Parse(r *http.Request) Params {
	p := Params{Page: 1, Limit: DefaultLimit}
	if n, err := strconv.Atoi(query.Get(r, "page")); err == nil && n >= 1 {
		p.Page = min(n, MaxPage)
	}
	if n, err := strconv.Atoi(query.Get(r, "limit")); err == nil && n >= 1 {
		p.Limit = min(n, MaxLimit)
	}
	return p
}

// Skip is the number of documents before this page.
func (p Params) Skip() int64 { return int64(p.Page-1) * int64(p.Limit) }

// Limit64 is Limit as Mongo's option type wants it.
func (p Params) Limit64() int64 { return int64(p.Limit) }

// Result is the "pagination" object in list responses.
type Result struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewResult computes the page count for total matches.
func NewResult(p Params, total int64) Result {
	pages := int64(0)
	if p.Limit > 0 {
		pages = (total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	return Result{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}
