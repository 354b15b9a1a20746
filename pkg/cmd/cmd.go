package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/callsight/callprof/internal/settings"
	"github.com/callsight/callprof/pkg/cmd/options"
	"github.com/callsight/callprof/pkg/cmd/replay"
	"github.com/callsight/callprof/pkg/cmd/report"
	"github.com/callsight/callprof/pkg/cmd/status"
	"github.com/callsight/callprof/pkg/cmd/stop"
)

const logLevelInfo = "info"

func NewCommand(opts *options.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   settings.CmdName,
		Short: fmt.Sprintf("%s is an in-process function call profiler", settings.CmdName),
		Long: fmt.Sprintf(`
%s profiles function calls of embedded script runtimes: it aggregates
per-function invocation counts and cumulative elapsed time from call/return
instrumentation events, and writes a ranked report.
`, settings.CmdName),
		DisableAutoGenTag: true,
	}
	cmd.AddCommand(replay.NewCommand(opts))
	cmd.AddCommand(status.NewCommand(opts))
	cmd.AddCommand(stop.NewCommand(opts))
	cmd.AddCommand(report.NewCommand(opts))
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", logLevelInfo, "Set the log level (trace, debug, info, warn, error, fatal, panic)")

	return cmd
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := log.New(
		log.ConsoleWriter{Out: os.Stderr},
	).With().Timestamp().Logger()

	opts := options.NewOptions(
		options.WithContext(ctx),
		options.WithLogger(logger),
	)

	if err := NewCommand(opts).Execute(); err != nil {
		os.Exit(1)
	}
}
