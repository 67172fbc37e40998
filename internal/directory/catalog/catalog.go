// Package catalog supplies the immutable list of companies browsed by the
// directory and the facet vocabularies derived from it.
package catalog

import (
	"context"
	"fmt"
	"slices"
	"time"

	e "github.com/gartstein/directory/internal/directory/errors"
	"github.com/gartstein/directory/internal/directory/models"
)

// DefaultDelay mirrors the artificial latency of the mock directory API.
const DefaultDelay = 800 * time.Millisecond

// Source loads the full catalog.
type Source interface {
	LoadCatalog(ctx context.Context) ([]models.Company, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context) ([]models.Company, error)

// LoadCatalog calls f.
func (f SourceFunc) LoadCatalog(ctx context.Context) ([]models.Company, error) {
	return f(ctx)
}

// SimulatedSource serves a fixed list after an artificial delay.
type SimulatedSource struct {
	companies []models.Company
	delay     time.Duration
}

// NewSimulatedSource returns a source serving companies after delay.
// The slice is copied; later changes by the caller are not observed.
func NewSimulatedSource(companies []models.Company, delay time.Duration) *SimulatedSource {
	return &SimulatedSource{
		companies: slices.Clone(companies),
		delay:     delay,
	}
}

// LoadCatalog waits for the configured delay and returns a fresh copy of the
// catalog. A cancelled context aborts the wait with ErrCatalogUnavailable.
func (s *SimulatedSource) LoadCatalog(ctx context.Context) ([]models.Company, error) {
	if s.delay > 0 {
		if err := wait(ctx, s.delay); err != nil {
			return nil, err
		}
	} else if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", e.ErrCatalogUnavailable, err)
	}
	return slices.Clone(s.companies), nil
}

// WithDelay wraps source so that every load first waits for delay.
func WithDelay(source Source, delay time.Duration) Source {
	if delay <= 0 {
		return source
	}
	return SourceFunc(func(ctx context.Context) ([]models.Company, error) {
		if err := wait(ctx, delay); err != nil {
			return nil, err
		}
		return source.LoadCatalog(ctx)
	})
}

// WithTimeout wraps source so that each load is bounded by timeout.
// A non-positive timeout returns source unchanged.
func WithTimeout(source Source, timeout time.Duration) Source {
	if timeout <= 0 {
		return source
	}
	return SourceFunc(func(ctx context.Context) ([]models.Company, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return source.LoadCatalog(ctx)
	})
}

func wait(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", e.ErrCatalogUnavailable, ctx.Err())
	}
}

// Industries returns the distinct industries in first-seen order.
func Industries(companies []models.Company) []string {
	return distinct(companies, func(c models.Company) string { return c.Industry })
}

// Locations returns the distinct locations in first-seen order.
func Locations(companies []models.Company) []string {
	return distinct(companies, func(c models.Company) string { return c.Location })
}

func distinct(companies []models.Company, field func(models.Company) string) []string {
	seen := make(map[string]struct{}, len(companies))
	values := make([]string, 0, len(companies))
	for _, c := range companies {
		v := field(c)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}
