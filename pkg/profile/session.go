package profile

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"

	"github.com/callsight/callprof/internal/settings"
)

// DefaultSelfLabel marks the profiler's own source location. Records
// whose identity contains it are excluded from reports.
const DefaultSelfLabel = settings.CmdName

// Session owns one measurement lifecycle: it resets the record store and
// installs the event hook on Start, removes the hook on Stop, and hands
// the record snapshot to the report generator. A session holds
// unsynchronized mutable state; it must only be driven from the thread
// being profiled.
type Session struct {
	runtime Runtime
	norm    *Normalizer
	store   *Store
	hook    *Hook
	logger  log.Logger

	selfLabel string

	startTime float64
	stopTime  float64
	running   bool

	printFn func(string)
	verbose bool
}

type SessionOption func(*Session)

func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		norm:      NewNormalizer(),
		logger:    log.Nop(),
		selfLabel: DefaultSelfLabel,
	}
	for _, f := range opts {
		f(s)
	}
	if s.runtime == nil {
		s.runtime = NewHostRuntime()
	}
	s.store = NewStore()
	s.hook = NewHook(s.norm, s.store)

	return s
}

func WithRuntime(rt Runtime) SessionOption {
	return func(s *Session) {
		s.runtime = rt
	}
}

func WithNormalizer(norm *Normalizer) SessionOption {
	return func(s *Session) {
		s.norm = norm
	}
}

func WithLogger(logger log.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

func WithSelfLabel(label string) SessionOption {
	return func(s *Session) {
		s.selfLabel = label
	}
}

// AttachPrintFunction registers a mirror callback receiving single
// formatted report lines. The total-time line and the final save notice
// are always mirrored while a callback is attached; per-function rows
// only when verbose is set.
func (s *Session) AttachPrintFunction(fn func(string), verbose bool) {
	s.printFn = fn
	s.verbose = verbose
}

// Start begins a measurement: it discards any prior records and
// timestamps, captures the start time and installs the hook. Calling
// Start while already running simply restarts the measurement.
func (s *Session) Start() {
	s.store.Reset()
	s.startTime = s.runtime.Now()
	s.stopTime = 0
	s.runtime.InstallHook(s.hook)
	s.running = true
	s.logger.Debug().Float64("start", s.startTime).Msg("profiling started")
}

// Stop captures the stop time and removes the hook. Idempotent until the
// next Start.
func (s *Session) Stop() {
	if s.running {
		s.stopTime = s.runtime.Now()
		s.running = false
		s.logger.Debug().Float64("stop", s.stopTime).Msg("profiling stopped")
	}
	s.runtime.UninstallHook()
}

// Running reports whether a measurement is in progress.
func (s *Session) Running() bool {
	return s.running
}

// Snapshot returns the current records in unspecified order.
func (s *Session) Snapshot() []*FunctionRecord {
	return s.store.All()
}

// Handler returns the event hook of this session, for runtimes that
// dispatch events directly rather than through InstallHook.
func (s *Session) Handler() Handler {
	return s.hook
}

// Report stops the session if still running and writes the ranked report
// to path (settings.ReportFile when empty). This is the only session
// operation that can fail, and only on output I/O.
func (s *Session) Report(path string) error {
	if s.running {
		s.Stop()
	}
	if path == "" {
		path = settings.ReportFile
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open report file %s", path)
	}
	defer f.Close()

	fileW, funcW, lineW := s.norm.Widths()
	report := NewReport(
		WithReportRecords(s.store.All()),
		WithReportSpan(s.startTime, s.stopTime),
		WithReportSelfLabel(s.selfLabel),
		WithReportNativeMarker(s.norm.NativeMarker()),
		WithReportColumnWidths(fileW, funcW, lineW),
		WithReportMirror(s.printFn, s.verbose),
	)
	if err := report.WriteReport(f); err != nil {
		return err
	}

	if s.printFn != nil {
		s.printFn(fmt.Sprintf("> Report saved to %s", path))
	}
	s.logger.Info().Str("path", path).Int("functions", s.store.Len()).Msg("report saved")

	return nil
}
