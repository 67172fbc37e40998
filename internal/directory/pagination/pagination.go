// Package pagination slices an ordered result list into pages and computes
// the metadata a page view needs.
package pagination

import (
	"math"

	"github.com/gartstein/directory/internal/directory/models"
)

const (
	// DefaultPageSize is the number of companies per page.
	DefaultPageSize = 6
	// MaxWindow is the maximum number of page buttons shown at once.
	MaxWindow = 5
	// MaxPageSize matches the largest page size the gRPC API can carry.
	MaxPageSize = math.MaxInt32
)

// Page is one page of results plus reporting values.
type Page struct {
	Visible      []models.Company `json:"visible"`
	CurrentPage  int              `json:"current_page"`
	PageSize     int              `json:"page_size"`
	TotalItems   int              `json:"total_items"`
	TotalPages   int              `json:"total_pages"`
	RangeStart   int              `json:"range_start"`
	RangeEnd     int              `json:"range_end"`
	HasPrev      bool             `json:"has_prev"`
	HasNext      bool             `json:"has_next"`
	Window       []int            `json:"window"`
	ShowControls bool             `json:"show_controls"`
}

// Paginate returns page (1-based) of items. A page beyond the last one yields
// an empty Visible slice; the page is never clamped here.
// Both page and pageSize must be positive.
func Paginate(items []models.Company, page, pageSize int) Page {
	total := len(items)
	totalPages := TotalPages(total, pageSize)

	visible := []models.Company{}
	start := offset(page, pageSize)
	end := total
	if page >= 1 && page <= totalPages {
		end = start + min(pageSize, total-start)
		visible = items[start:end:end]
	}

	return Page{
		Visible:      visible,
		CurrentPage:  page,
		PageSize:     pageSize,
		TotalItems:   total,
		TotalPages:   totalPages,
		RangeStart:   start + 1,
		RangeEnd:     end,
		HasPrev:      page > 1,
		HasNext:      page < totalPages,
		Window:       Window(page, totalPages),
		ShowControls: totalPages > 1,
	}
}

// offset is (page-1)*pageSize, saturated so that offset+1 cannot overflow.
func offset(page, pageSize int) int {
	n := page - 1
	if n > 0 && pageSize > (math.MaxInt-1)/n {
		return math.MaxInt - 1
	}
	return n * pageSize
}

// Addressable reports whether every item offset on page fits in an int, so
// page and pageSize can be paginated without saturation.
func Addressable(page, pageSize int) bool {
	if page < 1 || pageSize < 1 || pageSize > MaxPageSize {
		return false
	}
	return page <= math.MaxInt/pageSize
}

// TotalPages is ceil(total/pageSize), 0 for an empty list.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}

// Window returns the page numbers to display: all of them when there are at
// most MaxWindow pages, otherwise MaxWindow pages starting two before current.
// Near the last page the window shrinks rather than shifting left.
func Window(current, totalPages int) []int {
	if totalPages <= 0 {
		return []int{}
	}
	start := 1
	end := totalPages
	if totalPages > MaxWindow {
		start = max(1, current-2)
		if start > totalPages {
			return []int{}
		}
		end = start + min(MaxWindow-1, totalPages-start)
	}
	pages := make([]int, 0, end-start+1)
	for i := range end - start + 1 {
		pages = append(pages, start+i)
	}
	return pages
}
