// Package controller implements the directory service layer: it keeps the
// last good catalog snapshot, answers filter/sort/page queries against it
// and reports activity as events.
package controller

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/gartstein/directory/internal/directory/catalog"
	e "github.com/gartstein/directory/internal/directory/errors"
	"github.com/gartstein/directory/internal/directory/events"
	"github.com/gartstein/directory/internal/directory/models"
	"github.com/gartstein/directory/internal/directory/pagination"
	"github.com/gartstein/directory/internal/directory/query"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type EventProducer interface {
	Produce(event events.Event)
}

// QueryRequest is a validated directory query.
type QueryRequest struct {
	Filter   models.Filter
	Sort     models.Sort
	Page     int
	PageSize int
}

// NewQueryRequest validates raw query parameters. Zero page and page size
// fall back to the first page and defaultPageSize.
func NewQueryRequest(f models.Filter, s models.Sort, page, pageSize, defaultPageSize int) (QueryRequest, error) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if err := checkPage(page, pageSize); err != nil {
		return QueryRequest{}, err
	}
	return QueryRequest{Filter: f, Sort: s, Page: page, PageSize: pageSize}, nil
}

func checkPage(page, pageSize int) error {
	switch {
	case page <= 0 || pageSize <= 0:
		return fmt.Errorf("%w: page and page size must be positive", e.ErrInvalidInput)
	case pageSize > pagination.MaxPageSize:
		return fmt.Errorf("%w: page size must not exceed %d", e.ErrInvalidInput, pagination.MaxPageSize)
	case !pagination.Addressable(page, pageSize):
		return fmt.Errorf("%w: page %d is out of range for page size %d", e.ErrInvalidInput, page, pageSize)
	}
	return nil
}

// QueryResult is one page of an evaluated query.
type QueryResult struct {
	Filter models.Filter   `json:"filter"`
	Sort   models.Sort     `json:"sort"`
	Page   pagination.Page `json:"page"`
}

// Facets are the selectable filter values.
type Facets struct {
	Industries []string        `json:"industries"`
	Locations  []string        `json:"locations"`
	Buckets    []models.Bucket `json:"buckets"`
	Sorts      []string        `json:"sorts"`
}

// DirectoryService answers directory queries from a catalog snapshot.
type DirectoryService struct {
	source       catalog.Source
	producer     EventProducer
	logger       *zap.Logger
	fetchTimeout time.Duration
	group        singleflight.Group

	mu       sync.RWMutex
	snapshot []models.Company
	loaded   bool
}

// NewDirectoryService constructs a DirectoryService reading from source.
// fetchTimeout bounds each reload; zero means no bound.
func NewDirectoryService(source catalog.Source, producer EventProducer, logger *zap.Logger, fetchTimeout time.Duration) *DirectoryService {
	return &DirectoryService{
		source:       source,
		producer:     producer,
		logger:       logger.Named("directory_service"),
		fetchTimeout: fetchTimeout,
	}
}

// Reload fetches the catalog and replaces the snapshot. Concurrent callers
// share one fetch. On failure the previous snapshot is kept and
// ErrCatalogUnavailable is returned.
func (s *DirectoryService) Reload(ctx context.Context) (int, error) {
	v, err, _ := s.group.Do("catalog", func() (interface{}, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (s *DirectoryService) fetch(ctx context.Context) (int, error) {
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	companies, err := s.source.LoadCatalog(ctx)
	if err != nil {
		s.logger.Error("Failed to load catalog", zap.Error(err))
		if errors.Is(err, e.ErrCatalogUnavailable) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", e.ErrCatalogUnavailable, err)
	}

	s.mu.Lock()
	s.snapshot = slices.Clone(companies)
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("Catalog loaded", zap.Int("companies", len(companies)))
	go func() {
		s.producer.Produce(events.NewCatalogEvent(len(companies)))
	}()
	return len(companies), nil
}

// Loaded reports whether a reload has ever succeeded.
func (s *DirectoryService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *DirectoryService) current() ([]models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, e.ErrCatalogUnavailable
	}
	return s.snapshot, nil
}

// Query evaluates req against the snapshot and returns the requested page.
func (s *DirectoryService) Query(_ context.Context, req QueryRequest) (*QueryResult, error) {
	if err := checkPage(req.Page, req.PageSize); err != nil {
		return nil, err
	}
	snapshot, err := s.current()
	if err != nil {
		return nil, err
	}

	results := query.Evaluate(snapshot, req.Filter, req.Sort)
	page := pagination.Paginate(results, req.Page, req.PageSize)

	go func() {
		s.producer.Produce(events.NewQueryEvent(events.QueryDetails{
			Filter:     req.Filter,
			Sort:       req.Sort,
			Page:       req.Page,
			PageSize:   req.PageSize,
			TotalItems: page.TotalItems,
		}))
	}()

	return &QueryResult{Filter: req.Filter, Sort: req.Sort, Page: page}, nil
}

// Facets returns the filter vocabularies of the full catalog.
func (s *DirectoryService) Facets(_ context.Context) (*Facets, error) {
	snapshot, err := s.current()
	if err != nil {
		return nil, err
	}
	sorts := make([]string, 0, len(models.SortOptions))
	for _, opt := range models.SortOptions {
		sorts = append(sorts, opt.String())
	}
	return &Facets{
		Industries: catalog.Industries(snapshot),
		Locations:  catalog.Locations(snapshot),
		Buckets:    slices.Clone(models.Buckets),
		Sorts:      sorts,
	}, nil
}

// GetCompany returns the company with id, or ErrNotFound.
func (s *DirectoryService) GetCompany(_ context.Context, id int64) (*models.Company, error) {
	snapshot, err := s.current()
	if err != nil {
		return nil, err
	}
	for _, c := range snapshot {
		if c.ID == id {
			company := c
			return &company, nil
		}
	}
	return nil, e.ErrNotFound
}
