// Package models defines the core domain models of the companies directory:
// the Company entity and the fixed-shape filter and sort settings
// applied to the catalog.
package models

import (
	"fmt"
	"strings"

	e "github.com/gartstein/directory/internal/directory/errors"
)

// All is the filter value that matches every company.
const All = "all"

// Company defines the domain model for a directory entry.
type Company struct {
	// ID is the unique, stable identifier of the company.
	ID int64 `json:"id"`
	// Name is the display name.
	Name string `json:"name"`
	// Industry is one value of an open vocabulary.
	Industry string `json:"industry"`
	// Location is a free-text "city, region" string.
	Location string `json:"location"`
	// Employees is the headcount.
	Employees int `json:"employees"`
	// Founded is the founding year.
	Founded int `json:"founded"`
	// Revenue is a display string and is never compared numerically.
	Revenue string `json:"revenue"`
	// Description is free text.
	Description string `json:"description"`
}

// Bucket is a named employee-count range.
type Bucket string

const (
	BucketAll    Bucket = All
	BucketSmall  Bucket = "small"
	BucketMedium Bucket = "medium"
	BucketLarge  Bucket = "large"
)

// Bucket boundaries are half-open: [0,100) small, [100,300) medium, [300,∞) large.
const (
	MediumMinEmployees = 100
	LargeMinEmployees  = 300
)

// Buckets lists the selectable buckets in display order.
var Buckets = []Bucket{BucketAll, BucketSmall, BucketMedium, BucketLarge}

// ClassifyEmployees returns the bucket a headcount falls into.
func ClassifyEmployees(employees int) Bucket {
	switch {
	case employees < MediumMinEmployees:
		return BucketSmall
	case employees < LargeMinEmployees:
		return BucketMedium
	default:
		return BucketLarge
	}
}

// Contains reports whether the headcount satisfies the bucket.
func (b Bucket) Contains(employees int) bool {
	if b == BucketAll || b == "" {
		return true
	}
	return ClassifyEmployees(employees) == b
}

// Label is the human-readable bucket description.
func (b Bucket) Label() string {
	switch b {
	case BucketSmall:
		return "Small (< 100)"
	case BucketMedium:
		return "Medium (100-300)"
	case BucketLarge:
		return "Large (> 300)"
	default:
		return "All Sizes"
	}
}

// ParseBucket validates a raw bucket name. Empty input means BucketAll.
func ParseBucket(raw string) (Bucket, error) {
	switch b := Bucket(strings.ToLower(strings.TrimSpace(raw))); b {
	case "":
		return BucketAll, nil
	case BucketAll, BucketSmall, BucketMedium, BucketLarge:
		return b, nil
	default:
		return "", fmt.Errorf("%w: unknown employees bucket %q", e.ErrInvalidInput, raw)
	}
}

// Filter is the set of active filter predicates. The zero value is not
// all-permissive; use DefaultFilter.
type Filter struct {
	Search    string `json:"search"`
	Industry  string `json:"industry"`
	Location  string `json:"location"`
	Employees Bucket `json:"employees"`
}

// DefaultFilter returns the all-permissive filter.
func DefaultFilter() Filter {
	return Filter{
		Search:    "",
		Industry:  All,
		Location:  All,
		Employees: BucketAll,
	}
}

// IsDefault reports whether no predicate is active.
func (f Filter) IsDefault() bool {
	return f == DefaultFilter()
}

// FilterPatch represents a partial filter update.
// Pointer fields are used so that only set fields are merged.
type FilterPatch struct {
	Search    *string
	Industry  *string
	Location  *string
	Employees *Bucket
}

// Apply merges the patch into f and returns the result.
func (p FilterPatch) Apply(f Filter) Filter {
	if p.Search != nil {
		f.Search = *p.Search
	}
	if p.Industry != nil {
		f.Industry = *p.Industry
	}
	if p.Location != nil {
		f.Location = *p.Location
	}
	if p.Employees != nil {
		f.Employees = *p.Employees
	}
	return f
}

// ParseFilter builds a Filter from raw user input. Empty facet values
// normalise to All.
func ParseFilter(search, industry, location, employees string) (Filter, error) {
	bucket, err := ParseBucket(employees)
	if err != nil {
		return Filter{}, err
	}
	f := DefaultFilter()
	f.Search = search
	if industry != "" {
		f.Industry = industry
	}
	if location != "" {
		f.Location = location
	}
	f.Employees = bucket
	return f, nil
}

// SortField is a field the catalog can be ordered by.
type SortField string

const (
	SortByName      SortField = "name"
	SortByEmployees SortField = "employees"
	SortByFounded   SortField = "founded"
)

// SortOrder is the sort direction.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Sort is the active sort field and direction.
type Sort struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

// DefaultSort orders by name, A to Z.
func DefaultSort() Sort {
	return Sort{Field: SortByName, Order: Asc}
}

// String returns the combined "field-order" token, e.g. "name-asc".
func (s Sort) String() string {
	return string(s.Field) + "-" + string(s.Order)
}

// Label is the human-readable sort option.
func (s Sort) Label() string {
	switch s {
	case Sort{SortByName, Asc}:
		return "Name (A-Z)"
	case Sort{SortByName, Desc}:
		return "Name (Z-A)"
	case Sort{SortByEmployees, Asc}:
		return "Employees (Low-High)"
	case Sort{SortByEmployees, Desc}:
		return "Employees (High-Low)"
	case Sort{SortByFounded, Asc}:
		return "Founded (Old-New)"
	case Sort{SortByFounded, Desc}:
		return "Founded (New-Old)"
	default:
		return s.String()
	}
}

// SortOptions lists the selectable sort options in display order.
var SortOptions = []Sort{
	{SortByName, Asc},
	{SortByName, Desc},
	{SortByEmployees, Asc},
	{SortByEmployees, Desc},
	{SortByFounded, Asc},
	{SortByFounded, Desc},
}

// ParseSort validates a raw field and order. Empty values fall back to the
// default sort's field and order.
func ParseSort(field, order string) (Sort, error) {
	s := DefaultSort()
	switch f := SortField(strings.ToLower(strings.TrimSpace(field))); f {
	case "":
	case SortByName, SortByEmployees, SortByFounded:
		s.Field = f
	default:
		return Sort{}, fmt.Errorf("%w: unknown sort field %q", e.ErrInvalidInput, field)
	}
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(order))); o {
	case "":
	case Asc, Desc:
		s.Order = o
	default:
		return Sort{}, fmt.Errorf("%w: unknown sort order %q", e.ErrInvalidInput, order)
	}
	return s, nil
}

// ParseSortOption parses a combined "field-order" token such as "founded-desc".
func ParseSortOption(raw string) (Sort, error) {
	field, order, ok := strings.Cut(raw, "-")
	if !ok {
		return Sort{}, fmt.Errorf("%w: malformed sort option %q", e.ErrInvalidInput, raw)
	}
	return ParseSort(field, order)
}
