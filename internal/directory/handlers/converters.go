package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gartstein/directory/internal/directory/controller"
	e "github.com/gartstein/directory/internal/directory/errors"
	"github.com/gartstein/directory/internal/directory/models"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// queryParams is the raw, unvalidated form of a directory query.
type queryParams struct {
	Search    string
	Industry  string
	Location  string
	Employees string
	Sort      string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// toRequest validates p. A combined "sort" option wins over sort_by/sort_order.
func (p queryParams) toRequest(defaultPageSize int) (controller.QueryRequest, error) {
	filter, err := models.ParseFilter(p.Search, p.Industry, p.Location, p.Employees)
	if err != nil {
		return controller.QueryRequest{}, err
	}
	var sort models.Sort
	if p.Sort != "" {
		sort, err = models.ParseSortOption(p.Sort)
	} else {
		sort, err = models.ParseSort(p.SortBy, p.SortOrder)
	}
	if err != nil {
		return controller.QueryRequest{}, err
	}
	return controller.NewQueryRequest(filter, sort, p.Page, p.PageSize, defaultPageSize)
}

// paramsFromStruct reads query parameters from a gRPC request struct.
func paramsFromStruct(st *structpb.Struct) (queryParams, error) {
	fields := st.GetFields()
	str := func(key string) string { return fields[key].GetStringValue() }
	num := func(key string) (int, error) {
		v, ok := fields[key]
		if !ok {
			return 0, nil
		}
		if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
			return 0, fmt.Errorf("%w: %s must be a number", e.ErrInvalidInput, key)
		}
		n := v.GetNumberValue()
		if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
			return 0, fmt.Errorf("%w: %s must be an integer", e.ErrInvalidInput, key)
		}
		return int(n), nil
	}

	page, err := num("page")
	if err != nil {
		return queryParams{}, err
	}
	pageSize, err := num("page_size")
	if err != nil {
		return queryParams{}, err
	}
	return queryParams{
		Search:    str("search"),
		Industry:  str("industry"),
		Location:  str("location"),
		Employees: str("employees"),
		Sort:      str("sort"),
		SortBy:    str("sort_by"),
		SortOrder: str("sort_order"),
		Page:      page,
		PageSize:  pageSize,
	}, nil
}

// paramsFromURL reads query parameters from an HTTP query string.
func paramsFromURL(values url.Values) (queryParams, error) {
	num := func(key string) (int, error) {
		raw := values.Get(key)
		if raw == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be an integer", e.ErrInvalidInput, key)
		}
		return n, nil
	}

	page, err := num("page")
	if err != nil {
		return queryParams{}, err
	}
	pageSize, err := num("page_size")
	if err != nil {
		return queryParams{}, err
	}
	return queryParams{
		Search:    values.Get("search"),
		Industry:  values.Get("industry"),
		Location:  values.Get("location"),
		Employees: values.Get("employees"),
		Sort:      values.Get("sort"),
		SortBy:    values.Get("sort_by"),
		SortOrder: values.Get("sort_order"),
		Page:      page,
		PageSize:  pageSize,
	}, nil
}

// toStruct converts any JSON-serialisable value into a protobuf Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return structpb.NewStruct(fields)
}

// mapServiceError maps domain errors to appropriate gRPC status codes.
func mapServiceError(logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, e.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, e.ErrCatalogUnavailable):
		return status.Error(codes.Unavailable, e.UserMessage)
	default:
		logger.Error("Internal server error", zap.Error(err))
		return status.Error(codes.Internal, fmt.Sprintf("internal server error: %v", err))
	}
}

// httpStatus maps a gRPC status error to an HTTP status code.
func httpStatus(err error) int {
	return runtime.HTTPStatusFromCode(status.Code(err))
}

// errorBody is the JSON error envelope of the HTTP API.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := httpStatus(err)
	writeJSON(w, code, errorBody{Code: code, Message: status.Convert(err).Message()})
}
