package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gartstein/directory/internal/directory/config"
	"github.com/gartstein/directory/internal/directory/controller"
	"github.com/gartstein/directory/internal/directory/events"
	"github.com/gartstein/directory/internal/directory/handlers"
	"github.com/gartstein/directory/internal/directory/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// directory is what the one-shot commands need, served either in-process
// or by a remote server.
type directory interface {
	Query(ctx context.Context, req controller.QueryRequest) (*controller.QueryResult, error)
	Facets(ctx context.Context) (*controller.Facets, error)
}

// BackendOptions selects where one-shot commands read the directory from.
type BackendOptions struct {
	Addr   string
	Source string
}

func (o *BackendOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Addr, "addr", "", "gRPC address of a running server; queries run in-process when empty")
	cmd.Flags().StringVar(&o.Source, "source", "sample", "in-process catalog source (sample|db)")
}

// open returns the selected backend and a function releasing it.
func (o *BackendOptions) open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (directory, func(), error) {
	if o.Addr != "" {
		conn, err := grpc.NewClient(o.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to %s: %w", o.Addr, err)
		}
		return &remoteDirectory{client: handlers.NewDirectoryClient(conn)}, func() { _ = conn.Close() }, nil
	}

	source, closeSource, err := openSource(ctx, o.Source, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	service := controller.NewDirectoryService(source, events.NopProducer{}, logger, cfg.FetchTimeout())
	if _, err := service.Reload(ctx); err != nil {
		closeSource()
		return nil, nil, err
	}
	return service, closeSource, nil
}

// remoteDirectory adapts the gRPC client to the directory interface.
type remoteDirectory struct {
	client *handlers.DirectoryClient
}

func (r *remoteDirectory) Query(ctx context.Context, req controller.QueryRequest) (*controller.QueryResult, error) {
	in, err := structpb.NewStruct(map[string]any{
		"search":    req.Filter.Search,
		"industry":  req.Filter.Industry,
		"location":  req.Filter.Location,
		"employees": string(req.Filter.Employees),
		"sort":      req.Sort.String(),
		"page":      req.Page,
		"page_size": req.PageSize,
	})
	if err != nil {
		return nil, err
	}
	out, err := r.client.Query(ctx, in)
	if err != nil {
		return nil, err
	}
	var result controller.QueryResult
	if err := decodeStruct(out, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *remoteDirectory) Facets(ctx context.Context) (*controller.Facets, error) {
	out, err := r.client.Facets(ctx)
	if err != nil {
		return nil, err
	}
	var facets controller.Facets
	if err := decodeStruct(out, &facets); err != nil {
		return nil, err
	}
	return &facets, nil
}

func decodeStruct(st *structpb.Struct, v any) error {
	raw, err := protojson.Marshal(st)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	Backend   BackendOptions
	Search    string
	Industry  string
	Location  string
	Employees string
	Sort      string
	Page      int
	PageSize  int
}

// NewQueryCommand creates the one-shot query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter, sort and page the directory once",
		Example: `  directory query --search tech --sort employees-desc
  directory query --employees large --format json
  directory query --addr localhost:50051 --industry Finance`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, rootOpts, opts)
		},
	}

	opts.Backend.register(cmd)
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "case-insensitive text matched against name, description and location")
	cmd.Flags().StringVar(&opts.Industry, "industry", models.All, "exact industry, or all")
	cmd.Flags().StringVar(&opts.Location, "location", models.All, "location substring, or all")
	cmd.Flags().StringVar(&opts.Employees, "employees", string(models.BucketAll), "size bucket (all|small|medium|large)")
	cmd.Flags().StringVar(&opts.Sort, "sort", models.DefaultSort().String(), "sort option, e.g. name-asc or founded-desc")
	cmd.Flags().IntVarP(&opts.Page, "page", "p", 1, "page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "companies per page; PAGE_SIZE when zero")

	return cmd
}

func runQuery(cmd *cobra.Command, rootOpts *RootOptions, opts *QueryOptions) error {
	filter, err := models.ParseFilter(opts.Search, opts.Industry, opts.Location, opts.Employees)
	if err != nil {
		return err
	}
	sort, err := models.ParseSortOption(opts.Sort)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(rootOpts)
	if err != nil {
		return err
	}
	req, err := controller.NewQueryRequest(filter, sort, opts.Page, opts.PageSize, cfg.PageSize)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	dir, closeDir, err := opts.Backend.open(ctx, cfg, oneShotLogger(rootOpts))
	if err != nil {
		return err
	}
	defer closeDir()

	result, err := dir.Query(ctx, req)
	if err != nil {
		return err
	}
	return newFormatter(rootOpts, cmd).queryResult(result)
}

// NewFacetsCommand creates the facets command.
func NewFacetsCommand(rootOpts *RootOptions) *cobra.Command {
	backend := &BackendOptions{}

	cmd := &cobra.Command{
		Use:   "facets",
		Short: "List the selectable industries, locations, sizes and sort options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			dir, closeDir, err := backend.open(ctx, cfg, oneShotLogger(rootOpts))
			if err != nil {
				return err
			}
			defer closeDir()

			facets, err := dir.Facets(ctx)
			if err != nil {
				return err
			}
			return newFormatter(rootOpts, cmd).facets(facets)
		},
	}
	backend.register(cmd)

	return cmd
}

// oneShotLogger logs warnings and errors only, unless a level is set.
func oneShotLogger(rootOpts *RootOptions) *zap.Logger {
	level := rootOpts.LogLevel
	if level == "" {
		level = "warn"
	}
	logger, err := newLogger(level)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
