package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/directory/internal/directory/events"
	"github.com/spf13/cobra"
)

// EventsOptions holds flags for the events command.
type EventsOptions struct {
	GroupID string
	Types   []string
}

// NewEventsCommand creates the command tailing directory events from Kafka.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventsOptions{}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail query and catalog events published by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			if !cfg.EventsEnabled() {
				return fmt.Errorf("no KAFKA_BROKERS configured in %s", rootOpts.ConfigPath)
			}
			logger := oneShotLogger(rootOpts)
			defer func() { _ = logger.Sync() }()

			groupID := cfg.GroupID
			if opts.GroupID != "" {
				groupID = opts.GroupID
			}

			consumer := events.NewConsumer(cfg.KafkaBrokers, groupID, cfg.Topic, logger)
			defer consumer.Close()
			consumer.RegisterHandler(eventPrinter(newFormatter(rootOpts, cmd), opts.Types))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			consumer.Run(ctx)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.GroupID, "group", "", "consumer group; GROUP_ID when empty")
	cmd.Flags().StringSliceVar(&opts.Types, "type", nil, "only show these event types (query_executed, catalog_reloaded)")

	return cmd
}

// eventPrinter returns a consumer handler writing events of the given types.
// No types means all.
func eventPrinter(f *formatter, types []string) func(context.Context, events.Event) error {
	wanted := make(map[events.EventType]bool, len(types))
	for _, t := range types {
		wanted[events.EventType(t)] = true
	}
	return func(_ context.Context, ev events.Event) error {
		if len(wanted) > 0 && !wanted[ev.Type] {
			return nil
		}
		return f.event(ev)
	}
}
