package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gartstein/directory/internal/directory/auth"
	"github.com/gartstein/directory/internal/directory/controller"
	"github.com/gartstein/directory/internal/directory/models"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// DirectoryController defines the business logic interface
// that the gRPC/HTTP handlers will invoke.
type DirectoryController interface {
	Query(ctx context.Context, req controller.QueryRequest) (*controller.QueryResult, error)
	Facets(ctx context.Context) (*controller.Facets, error)
	GetCompany(ctx context.Context, id int64) (*models.Company, error)
	Reload(ctx context.Context) (int, error)
}

// DirectoryHandler serves directory operations over gRPC and HTTP,
// mapping requests to a DirectoryController.
type DirectoryHandler struct {
	service         DirectoryController
	logger          *zap.Logger
	defaultPageSize int
}

// NewDirectoryHandler constructs a DirectoryHandler. Queries that omit a
// page size use defaultPageSize.
func NewDirectoryHandler(service DirectoryController, logger *zap.Logger, defaultPageSize int) *DirectoryHandler {
	return &DirectoryHandler{
		service:         service,
		logger:          logger.Named("directory_handler"),
		defaultPageSize: defaultPageSize,
	}
}

// Query filters, sorts and pages the catalog.
func (h *DirectoryHandler) Query(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	params, err := paramsFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	result, err := h.query(ctx, params)
	if err != nil {
		return nil, err
	}
	return h.respond(result)
}

// Facets returns the selectable filter values.
func (h *DirectoryHandler) Facets(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	facets, err := h.service.Facets(ctx)
	if err != nil {
		return nil, mapServiceError(h.logger, err)
	}
	return h.respond(facets)
}

// GetCompany fetches a company by ID.
func (h *DirectoryHandler) GetCompany(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if req.GetValue() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "invalid company ID")
	}
	company, err := h.service.GetCompany(ctx, req.GetValue())
	if err != nil {
		return nil, mapServiceError(h.logger, err)
	}
	return h.respond(company)
}

// ReloadCatalog refreshes the service's catalog snapshot.
func (h *DirectoryHandler) ReloadCatalog(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	n, err := h.reload(ctx)
	if err != nil {
		return nil, err
	}
	return h.respond(map[string]int{"companies": n})
}

// reload refreshes the catalog on behalf of the authenticated operator.
func (h *DirectoryHandler) reload(ctx context.Context) (int, error) {
	operator := "unknown"
	if claims, ok := auth.FromContext(ctx); ok {
		operator = claims.Operator()
	}

	n, err := h.service.Reload(ctx)
	if err != nil {
		h.logger.Error("Reload catalog failed", zap.String("operator", operator), zap.Error(err))
		return 0, mapServiceError(h.logger, err)
	}
	h.logger.Info("Catalog reloaded", zap.String("operator", operator), zap.Int("companies", n))
	return n, nil
}

func (h *DirectoryHandler) query(ctx context.Context, params queryParams) (*controller.QueryResult, error) {
	req, err := params.toRequest(h.defaultPageSize)
	if err != nil {
		return nil, mapServiceError(h.logger, err)
	}
	result, err := h.service.Query(ctx, req)
	if err != nil {
		return nil, mapServiceError(h.logger, err)
	}
	return result, nil
}

func (h *DirectoryHandler) respond(v any) (*structpb.Struct, error) {
	st, err := toStruct(v)
	if err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to encode response")
	}
	return st, nil
}

// HTTP handlers registered on the gateway mux.

func (h *DirectoryHandler) httpQuery(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	params, err := paramsFromURL(r.URL.Query())
	if err != nil {
		writeError(w, status.Error(codes.InvalidArgument, err.Error()))
		return
	}
	result, err := h.query(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *DirectoryHandler) httpGetCompany(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	id, err := strconv.ParseInt(pathParams["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, status.Error(codes.InvalidArgument, "invalid company ID"))
		return
	}
	company, err := h.service.GetCompany(r.Context(), id)
	if err != nil {
		writeError(w, mapServiceError(h.logger, err))
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (h *DirectoryHandler) httpFacets(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	facets, err := h.service.Facets(r.Context())
	if err != nil {
		writeError(w, mapServiceError(h.logger, err))
		return
	}
	writeJSON(w, http.StatusOK, facets)
}

func (h *DirectoryHandler) httpReload(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	n, err := h.reload(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"companies": n})
}

var _ DirectoryServiceServer = (*DirectoryHandler)(nil)
