package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gartstein/directory/internal/directory/controller"
	"github.com/gartstein/directory/internal/directory/events"
	"github.com/spf13/cobra"
)

// formatter writes command results as text or JSON.
type formatter struct {
	format string
	w      io.Writer
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *formatter {
	return &formatter{format: opts.Format, w: cmd.OutOrStdout()}
}

func (f *formatter) json(v any) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (f *formatter) queryResult(r *controller.QueryResult) error {
	if f.format == "json" {
		return f.json(r)
	}

	p := r.Page
	fmt.Fprintf(f.w, "Showing %d companies (sorted by %s)\n", p.TotalItems, r.Sort.Label())
	if len(p.Visible) == 0 {
		fmt.Fprintln(f.w, "NO COMPANIES FOUND!")
		fmt.Fprintln(f.w, "Try adjusting your filters to see more results.")
		return nil
	}
	fmt.Fprintln(f.w)
	for _, c := range p.Visible {
		fmt.Fprintf(f.w, "%3d  %-24s %-16s %-24s %5d  %d  %s\n",
			c.ID, c.Name, c.Industry, c.Location, c.Employees, c.Founded, c.Revenue)
	}
	if p.ShowControls {
		fmt.Fprintf(f.w, "\nPAGE %d OF %d | Showing %d to %d of %d results\n",
			p.CurrentPage, p.TotalPages, p.RangeStart, p.RangeEnd, p.TotalItems)
	}
	return nil
}

func (f *formatter) facets(facets *controller.Facets) error {
	if f.format == "json" {
		return f.json(facets)
	}

	buckets := make([]string, 0, len(facets.Buckets))
	for _, b := range facets.Buckets {
		buckets = append(buckets, string(b))
	}
	fmt.Fprintf(f.w, "industries: %s\n", strings.Join(facets.Industries, "; "))
	fmt.Fprintf(f.w, "locations:  %s\n", strings.Join(facets.Locations, "; "))
	fmt.Fprintf(f.w, "sizes:      %s\n", strings.Join(buckets, ", "))
	fmt.Fprintf(f.w, "sorts:      %s\n", strings.Join(facets.Sorts, ", "))
	return nil
}

func (f *formatter) event(ev events.Event) error {
	if f.format == "json" {
		return json.NewEncoder(f.w).Encode(ev)
	}

	switch {
	case ev.Query != nil:
		q := ev.Query
		_, err := fmt.Fprintf(f.w, "%s %s search=%q industry=%s location=%s employees=%s sort=%s page=%d/%d total=%d\n",
			ev.OccurredAt.Format("15:04:05"), ev.Type, q.Filter.Search, q.Filter.Industry, q.Filter.Location,
			q.Filter.Employees, q.Sort, q.Page, q.PageSize, q.TotalItems)
		return err
	case ev.Catalog != nil:
		_, err := fmt.Fprintf(f.w, "%s %s companies=%d\n", ev.OccurredAt.Format("15:04:05"), ev.Type, ev.Catalog.Companies)
		return err
	default:
		_, err := fmt.Fprintf(f.w, "%s %s\n", ev.OccurredAt.Format("15:04:05"), ev.Type)
		return err
	}
}
