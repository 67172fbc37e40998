// Package query filters and orders the company catalog. Every function in
// this package is pure: inputs are never modified and no call fails.
package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/gartstein/directory/internal/directory/models"
)

// Evaluate returns the companies that satisfy every active predicate of f,
// ordered by s. The result is a new slice; catalog is left untouched.
func Evaluate(catalog []models.Company, f models.Filter, s models.Sort) []models.Company {
	out := Filter(catalog, f)
	SortInPlace(out, s)
	return out
}

// Filter returns the companies matching f, preserving catalog order.
func Filter(catalog []models.Company, f models.Filter) []models.Company {
	term := strings.ToLower(f.Search)
	out := make([]models.Company, 0, len(catalog))
	for _, c := range catalog {
		if Matches(c, f, term) {
			out = append(out, c)
		}
	}
	return out
}

// Matches reports whether c satisfies f. term is the lowercased search string.
func Matches(c models.Company, f models.Filter, term string) bool {
	if term != "" &&
		!strings.Contains(strings.ToLower(c.Name), term) &&
		!strings.Contains(strings.ToLower(c.Description), term) &&
		!strings.Contains(strings.ToLower(c.Location), term) {
		return false
	}
	if f.Industry != "" && f.Industry != models.All && c.Industry != f.Industry {
		return false
	}
	// Location matching is a case-sensitive containment check, unlike search.
	if f.Location != "" && f.Location != models.All && !strings.Contains(c.Location, f.Location) {
		return false
	}
	return f.Employees.Contains(c.Employees)
}

// SortInPlace stably orders companies by s. Equal keys keep their relative order.
func SortInPlace(companies []models.Company, s models.Sort) {
	compare := comparator(s.Field)
	if s.Order == models.Desc {
		slices.SortStableFunc(companies, func(a, b models.Company) int { return compare(b, a) })
		return
	}
	slices.SortStableFunc(companies, compare)
}

func comparator(field models.SortField) func(a, b models.Company) int {
	switch field {
	case models.SortByEmployees:
		return func(a, b models.Company) int { return cmp.Compare(a.Employees, b.Employees) }
	case models.SortByFounded:
		return func(a, b models.Company) int { return cmp.Compare(a.Founded, b.Founded) }
	default:
		return func(a, b models.Company) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
}
