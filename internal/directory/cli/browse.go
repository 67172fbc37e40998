package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gartstein/directory/internal/directory/catalog"
	"github.com/gartstein/directory/internal/directory/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// BrowseOptions holds flags for the browse command.
type BrowseOptions struct {
	Source  string
	LogFile string
}

// NewBrowseCommand creates the interactive browse command.
func NewBrowseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BrowseOptions{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the directory interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd.Context(), rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", "sample", "catalog source (sample|db)")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "write logs to this file; logging is off otherwise")

	return cmd
}

func runBrowse(ctx context.Context, rootOpts *RootOptions, opts *BrowseOptions) error {
	cfg, err := loadConfig(rootOpts)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs only go to a file.
	logger := zap.NewNop()
	if opts.LogFile != "" {
		logger, err = newLogger(logLevel(rootOpts, cfg), opts.LogFile)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
	}

	source, closeSource, err := openSource(ctx, opts.Source, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	source = catalog.WithTimeout(source, cfg.FetchTimeout())

	program := tea.NewProgram(tui.New(ctx, source, cfg.PageSize, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}
