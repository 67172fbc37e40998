package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gartstein/directory/internal/directory/auth"
	"github.com/gartstein/directory/internal/directory/catalog"
	"github.com/gartstein/directory/internal/directory/controller"
	e "github.com/gartstein/directory/internal/directory/errors"
	"github.com/gartstein/directory/internal/directory/events"
	"github.com/gartstein/directory/internal/directory/models"
	"github.com/gartstein/directory/internal/directory/pagination"
	"github.com/gartstein/directory/internal/directory/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// mockDirectoryController is a simple mock implementation of DirectoryController.
type mockDirectoryController struct {
	queryFunc      func(ctx context.Context, req controller.QueryRequest) (*controller.QueryResult, error)
	facetsFunc     func(ctx context.Context) (*controller.Facets, error)
	getCompanyFunc func(ctx context.Context, id int64) (*models.Company, error)
	reloadFunc     func(ctx context.Context) (int, error)
}

func (m *mockDirectoryController) Query(ctx context.Context, req controller.QueryRequest) (*controller.QueryResult, error) {
	return m.queryFunc(ctx, req)
}

func (m *mockDirectoryController) Facets(ctx context.Context) (*controller.Facets, error) {
	return m.facetsFunc(ctx)
}

func (m *mockDirectoryController) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	return m.getCompanyFunc(ctx, id)
}

func (m *mockDirectoryController) Reload(ctx context.Context) (int, error) {
	return m.reloadFunc(ctx)
}

// sampleQuery evaluates req against the sample catalog, like the real service.
func sampleQuery(_ context.Context, req controller.QueryRequest) (*controller.QueryResult, error) {
	results := query.Evaluate(catalog.Sample(), req.Filter, req.Sort)
	return &controller.QueryResult{Filter: req.Filter, Sort: req.Sort, Page: pagination.Paginate(results, req.Page, req.PageSize)}, nil
}

func visibleIDs(t *testing.T, st *structpb.Struct) []float64 {
	t.Helper()
	page := st.GetFields()["page"].GetStructValue()
	require.NotNil(t, page)
	var ids []float64
	for _, v := range page.GetFields()["visible"].GetListValue().GetValues() {
		ids = append(ids, v.GetStructValue().GetFields()["id"].GetNumberValue())
	}
	return ids
}

func TestDirectoryHandler_Query(t *testing.T) {
	logger := zaptest.NewLogger(t)

	tests := []struct {
		name     string
		req      map[string]any
		wantCode codes.Code
		wantIDs  []float64
	}{
		{
			name:     "defaults",
			req:      map[string]any{},
			wantCode: codes.OK,
			wantIDs:  []float64{7, 5, 4, 8, 2, 3},
		},
		{
			name:     "combined sort option",
			req:      map[string]any{"sort": "employees-desc", "employees": "large"},
			wantCode: codes.OK,
			wantIDs:  []float64{6, 4, 10, 3},
		},
		{
			name:     "split sort fields and page",
			req:      map[string]any{"sort_by": "founded", "sort_order": "asc", "page": 2, "page_size": 4},
			wantCode: codes.OK,
			wantIDs:  []float64{11, 9, 1, 7},
		},
		{
			name:     "unknown bucket",
			req:      map[string]any{"employees": "huge"},
			wantCode: codes.InvalidArgument,
		},
		{
			name:     "non-numeric page",
			req:      map[string]any{"page": "two"},
			wantCode: codes.InvalidArgument,
		},
		{
			name:     "fractional page size",
			req:      map[string]any{"page_size": 2.5},
			wantCode: codes.InvalidArgument,
		},
		{
			name:     "negative page",
			req:      map[string]any{"page": -1},
			wantCode: codes.InvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewDirectoryHandler(&mockDirectoryController{queryFunc: sampleQuery}, logger, 6)
			req, err := structpb.NewStruct(tt.req)
			require.NoError(t, err)

			resp, err := handler.Query(context.Background(), req)
			require.Equal(t, tt.wantCode, status.Code(err), "error: %v", err)
			if tt.wantCode != codes.OK {
				return
			}
			assert.Equal(t, tt.wantIDs, visibleIDs(t, resp))
		})
	}
}

func TestDirectoryHandler_QueryCatalogUnavailable(t *testing.T) {
	ctrl := &mockDirectoryController{
		queryFunc: func(context.Context, controller.QueryRequest) (*controller.QueryResult, error) {
			return nil, fmt.Errorf("%w: timeout", e.ErrCatalogUnavailable)
		},
	}
	handler := NewDirectoryHandler(ctrl, zaptest.NewLogger(t), 6)

	_, err := handler.Query(context.Background(), &structpb.Struct{})
	st, _ := status.FromError(err)
	assert.Equal(t, codes.Unavailable, st.Code())
	assert.Equal(t, e.UserMessage, st.Message())
}

func TestDirectoryHandler_GetCompany(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctrl := &mockDirectoryController{
		getCompanyFunc: func(_ context.Context, id int64) (*models.Company, error) {
			if id == 11 {
				return &models.Company{ID: 11, Name: "RealEstate Pro"}, nil
			}
			return nil, e.ErrNotFound
		},
	}
	handler := NewDirectoryHandler(ctrl, logger, 6)

	t.Run("InvalidID", func(t *testing.T) {
		_, err := handler.GetCompany(context.Background(), wrapperspb.Int64(0))
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := handler.GetCompany(context.Background(), wrapperspb.Int64(99))
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("Success", func(t *testing.T) {
		resp, err := handler.GetCompany(context.Background(), wrapperspb.Int64(11))
		require.NoError(t, err)
		assert.Equal(t, "RealEstate Pro", resp.GetFields()["name"].GetStringValue())
	})
}

func TestDirectoryHandler_FacetsAndReload(t *testing.T) {
	ctrl := &mockDirectoryController{
		facetsFunc: func(context.Context) (*controller.Facets, error) {
			return &controller.Facets{Industries: []string{"Technology"}, Locations: []string{"Mumbai, Maharashtra"}}, nil
		},
		reloadFunc: func(context.Context) (int, error) { return 12, nil },
	}
	handler := NewDirectoryHandler(ctrl, zaptest.NewLogger(t), 6)

	facets, err := handler.Facets(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	industries := facets.GetFields()["industries"].GetListValue().GetValues()
	require.Len(t, industries, 1)
	assert.Equal(t, "Technology", industries[0].GetStringValue())

	resp, err := handler.ReloadCatalog(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, float64(12), resp.GetFields()["companies"].GetNumberValue())

	ctrl.reloadFunc = func(context.Context) (int, error) { return 0, errors.New("boom") }
	_, err = handler.ReloadCatalog(context.Background(), &emptypb.Empty{})
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestDirectoryHandler_ReloadRecordsOperator(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctrl := &mockDirectoryController{reloadFunc: func(context.Context) (int, error) { return 12, nil }}
	handler := NewDirectoryHandler(ctrl, zap.New(core), 6)

	claims := &auth.Claims{}
	claims.Subject = "admin"
	ctx := auth.NewContext(context.Background(), claims)

	_, err := handler.ReloadCatalog(ctx, &emptypb.Empty{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/catalog/reload", nil).WithContext(ctx)
	handler.httpReload(rec, req, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := logs.FilterMessage("Catalog reloaded").AllUntimed()
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, "admin", entry.ContextMap()["operator"])
		assert.Equal(t, int64(12), entry.ContextMap()["companies"])
	}
}

func TestDirectoryHandler_HTTP(t *testing.T) {
	ctrl := &mockDirectoryController{
		queryFunc: sampleQuery,
		getCompanyFunc: func(_ context.Context, id int64) (*models.Company, error) {
			return nil, e.ErrNotFound
		},
	}
	handler := NewDirectoryHandler(ctrl, zaptest.NewLogger(t), 6)

	t.Run("Query", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/companies?search=tech&page_size=20", nil)
		handler.httpQuery(rec, req, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var result controller.QueryResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, 9, result.Page.TotalItems)
		assert.Equal(t, "tech", result.Filter.Search)
		assert.False(t, result.Page.ShowControls)
	})

	t.Run("BadPage", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/companies?page=x", nil)
		handler.httpQuery(rec, req, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("CompanyNotFound", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/companies/99", nil)
		handler.httpGetCompany(rec, req, map[string]string{"id": "99"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body errorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, http.StatusNotFound, body.Code)
	})

	t.Run("CompanyBadID", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/companies/abc", nil)
		handler.httpGetCompany(rec, req, map[string]string{"id": "abc"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDirectoryHandler_HTTPQueryLimits(t *testing.T) {
	logger := zaptest.NewLogger(t)
	service := controller.NewDirectoryService(catalog.NewSimulatedSource(catalog.Sample(), 0), events.NopProducer{}, logger, 0)
	_, err := service.Reload(context.Background())
	require.NoError(t, err)
	handler := NewDirectoryHandler(service, logger, 6)

	tests := []struct {
		name       string
		rawQuery   string
		wantStatus int
		wantIDs    []int64
		wantPages  int
	}{
		{name: "page size beyond int32", rawQuery: "page_size=9223372036854775807", wantStatus: http.StatusBadRequest},
		{name: "offset wraps to zero", rawQuery: "page=4611686018427387905&page_size=4", wantStatus: http.StatusBadRequest},
		{name: "offset wraps negative", rawQuery: "page=4611686018427387905&page_size=3", wantStatus: http.StatusBadRequest},
		{name: "page beyond int64", rawQuery: "page=9223372036854775808", wantStatus: http.StatusBadRequest},
		{name: "largest page size", rawQuery: "page_size=2147483647", wantStatus: http.StatusOK, wantIDs: []int64{7, 5, 4, 8, 2, 3, 10, 9, 11, 6, 1, 12}, wantPages: 1},
		{name: "far page is empty", rawQuery: "page=1000000000000&page_size=6", wantStatus: http.StatusOK, wantIDs: []int64{}, wantPages: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/v1/companies?"+tt.rawQuery, nil)
			require.NotPanics(t, func() { handler.httpQuery(rec, req, nil) })

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				var body errorBody
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantStatus, body.Code)
				return
			}

			var result controller.QueryResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
			ids := make([]int64, 0, len(result.Page.Visible))
			for _, c := range result.Page.Visible {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, 12, result.Page.TotalItems)
			assert.Equal(t, tt.wantPages, result.Page.TotalPages)
		})
	}
}
