// Package browser holds the state of one directory browsing session and the
// transitions that mutate it. Each transition runs to completion and
// recomputes the ordered results explicitly; nothing is derived lazily.
package browser

import (
	"slices"

	"github.com/gartstein/directory/internal/directory/models"
	"github.com/gartstein/directory/internal/directory/pagination"
	"github.com/gartstein/directory/internal/directory/query"
)

// Browser bundles the catalog, the active filter and sort, the view state and
// the derived results. The zero value is not ready; use New.
type Browser struct {
	catalog  []models.Company
	results  []models.Company
	filter   models.Filter
	sort     models.Sort
	page     int
	pageSize int
	loading  bool
	err      string
	loaded   bool
	fetchSeq uint64
}

// New returns an empty browser showing pageSize companies per page.
// Non-positive sizes fall back to pagination.DefaultPageSize.
func New(pageSize int) *Browser {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &Browser{
		filter:   models.DefaultFilter(),
		sort:     models.DefaultSort(),
		page:     1,
		pageSize: pageSize,
		results:  []models.Company{},
	}
}

// Filter returns the active filter.
func (b *Browser) Filter() models.Filter { return b.filter }

// Sort returns the active sort.
func (b *Browser) Sort() models.Sort { return b.sort }

// CurrentPage returns the 1-based current page.
func (b *Browser) CurrentPage() int { return b.page }

// PageSize returns the number of companies per page.
func (b *Browser) PageSize() int { return b.pageSize }

// Loading reports whether a catalog fetch is outstanding.
func (b *Browser) Loading() bool { return b.loading }

// Loaded reports whether a catalog fetch has ever succeeded.
func (b *Browser) Loaded() bool { return b.loaded }

// Err returns the last error message, or "" when none.
func (b *Browser) Err() string { return b.err }

// Catalog returns a copy of the full catalog.
func (b *Browser) Catalog() []models.Company { return slices.Clone(b.catalog) }

// Results returns a copy of the ordered results.
func (b *Browser) Results() []models.Company { return slices.Clone(b.results) }

// View paginates the current results.
func (b *Browser) View() pagination.Page {
	return pagination.Paginate(b.results, b.page, b.pageSize)
}

// BeginFetch marks a catalog fetch as started and returns its sequence number.
// Only the completion carrying the latest sequence number is applied.
func (b *Browser) BeginFetch() uint64 {
	b.fetchSeq++
	b.loading = true
	b.err = ""
	return b.fetchSeq
}

// CompleteFetch applies the outcome of fetch seq. It returns false, leaving
// the state untouched, when a newer fetch has been issued since.
func (b *Browser) CompleteFetch(seq uint64, companies []models.Company, errMsg string) bool {
	if seq != b.fetchSeq {
		return false
	}
	b.loading = false
	if errMsg != "" {
		b.Fail(errMsg)
		return true
	}
	b.LoadCatalog(companies)
	return true
}

// LoadCatalog replaces the catalog. Results are the catalog as delivered,
// neither filtered nor sorted, and any error is cleared.
func (b *Browser) LoadCatalog(companies []models.Company) {
	b.catalog = slices.Clone(companies)
	b.results = slices.Clone(companies)
	if b.results == nil {
		b.results = []models.Company{}
	}
	b.err = ""
	b.loaded = true
}

// UpdateFilters merges patch into the active filter, resets to page 1 and
// recomputes the results.
func (b *Browser) UpdateFilters(patch models.FilterPatch) {
	b.filter = patch.Apply(b.filter)
	b.page = 1
	b.Recompute()
}

// ResetFilters restores the default filter, resets to page 1 and recomputes
// against the full catalog.
func (b *Browser) ResetFilters() {
	b.filter = models.DefaultFilter()
	b.page = 1
	b.Recompute()
}

// SetSort changes the sort, resets to page 1 and recomputes.
func (b *Browser) SetSort(s models.Sort) {
	b.sort = s
	b.page = 1
	b.Recompute()
}

// SetPage moves to page p. It does not clamp; callers consult the view's
// HasPrev and HasNext before navigating.
func (b *Browser) SetPage(p int) {
	b.page = p
}

// PrevPage moves back one page unless already on the first page.
func (b *Browser) PrevPage() bool {
	if !b.View().HasPrev {
		return false
	}
	b.page--
	return true
}

// NextPage moves forward one page unless already on the last page.
func (b *Browser) NextPage() bool {
	if !b.View().HasNext {
		return false
	}
	b.page++
	return true
}

// Fail records errMsg. Results keep their last good value.
func (b *Browser) Fail(errMsg string) {
	b.err = errMsg
	b.loading = false
}

// Recompute re-evaluates the results from the catalog, filter and sort.
func (b *Browser) Recompute() {
	b.results = query.Evaluate(b.catalog, b.filter, b.sort)
}
