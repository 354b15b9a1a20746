package replay

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/callsight/callprof/internal/output"
	"github.com/callsight/callprof/internal/settings"
	"github.com/callsight/callprof/pkg/cmd/options"
	"github.com/callsight/callprof/pkg/profile"
	"github.com/callsight/callprof/pkg/replay"
)

const CmdName = "replay"

func NewCommand(opts *options.Options) *cobra.Command {
	o := new(Options)
	o.Options = opts

	cmd := &cobra.Command{
		Use:   CmdName,
		Short: "Replay a recorded call/return event stream into a report",
		Long: fmt.Sprintf(`
%s reads a recorded call/return event stream (JSON lines) and aggregates it
into the ranked per-function report, exactly as a live session would.
`, CmdName),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE:              o.Run,
	}

	cmd.Flags().StringVarP(&o.input, "input", "i", "", "Path to the recorded event stream")
	cmd.Flags().StringVarP(&o.output, "output", "o", settings.ReportFile, "Path of the generated report")
	cmd.Flags().StringVar(&o.pprofPath, "pprof", "", "Also export the aggregate as a gzipped pprof profile at this path")
	cmd.Flags().BoolVar(&o.verbose, "verbose", false, "Mirror every report row to standard output")
	cmd.Flags().BoolVar(&o.status, "status", false, "Periodically print a status of the replay")

	cmd.MarkFlagRequired("input")

	return cmd
}

func (o *Options) Run(_ *cobra.Command, _ []string) error {
	logLevel, err := log.ParseLevel(o.LogLevel)
	if err != nil {
		o.Logger.Fatal().Err(err).Msg("invalid log level")
	}
	logger := o.Logger.Level(logLevel)

	src, err := replay.NewSource(
		replay.WithSourcePath(o.input),
		replay.WithSourceLogger(logger),
	)
	if err != nil {
		return errors.Wrap(err, "failed to open event source")
	}

	session := profile.NewSession(
		profile.WithRuntime(src),
		profile.WithLogger(logger),
	)
	session.AttachPrintFunction(func(line string) {
		fmt.Println(line)
	}, o.verbose)

	session.Start()

	if o.status {
		barCtx, barCancel := context.WithCancel(o.Ctx)
		defer barCancel()
		go o.printStatusBar(barCtx, src)
	}

	if err := src.Run(o.Ctx); err != nil {
		return errors.Wrap(err, "failed to replay event stream")
	}

	if err := session.Report(o.output); err != nil {
		return errors.Wrap(err, "failed to generate report")
	}

	if o.pprofPath != "" {
		f, err := os.Create(o.pprofPath)
		if err != nil {
			return errors.Wrapf(err, "failed to open pprof file %s", o.pprofPath)
		}
		defer f.Close()
		if err := session.WritePprof(f); err != nil {
			return errors.Wrap(err, "failed to export pprof profile")
		}
	}

	return nil
}

func (o *Options) printStatusBar(ctx context.Context, src *replay.Source) {
	var prev uint64
	output.StatusBar(ctx,
		1*time.Second, // bar refresh interval.
		func() {
			events := src.Events()
			output.PrintRight(output.PrettyReplayStatus(
				events,
				events-prev, // events rate reset at each bar refresh.
			))
			prev = events
		},
	)
}
