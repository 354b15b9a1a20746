package profile

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	// EmptyTime is the textual zero-time sentinel: a cumulative time
	// that formats to it is below the clock's measurement resolution.
	EmptyTime = "0.0000"

	// NegligibleMarker replaces the time and percentage columns of
	// rows below measurement resolution.
	NegligibleMarker = "~"

	timeWidth = 10
	relWidth  = 6
)

// TableReport formats a record snapshot into a ranked fixed-width table:
// functions sorted by descending cumulative time, with a single divider
// inserted at the transition into the negligible-time partition.
type TableReport struct {
	records []*FunctionRecord
	start   float64
	stop    float64

	selfLabel    string
	nativeMarker string

	fileWidth int
	funcWidth int
	lineWidth int

	mirror  func(string)
	verbose bool
}

type ReportOption func(*TableReport)

func NewReport(opts ...ReportOption) *TableReport {
	report := &TableReport{
		nativeMarker: NativeMarker,
		fileWidth:    DefaultFileWidth,
		funcWidth:    DefaultFuncWidth,
		lineWidth:    DefaultLineWidth,
	}
	for _, opt := range opts {
		opt(report)
	}

	return report
}

func WithReportRecords(records []*FunctionRecord) ReportOption {
	return func(o *TableReport) {
		o.records = records
	}
}

func WithReportSpan(start, stop float64) ReportOption {
	return func(o *TableReport) {
		o.start = start
		o.stop = stop
	}
}

// WithReportSelfLabel sets the source location of the profiler itself.
// Rows whose identity contains the label are excluded, so the profiler
// does not report its own bookkeeping functions.
func WithReportSelfLabel(label string) ReportOption {
	return func(o *TableReport) {
		o.selfLabel = label
	}
}

func WithReportNativeMarker(marker string) ReportOption {
	return func(o *TableReport) {
		o.nativeMarker = marker
	}
}

func WithReportColumnWidths(file, fn, line int) ReportOption {
	return func(o *TableReport) {
		o.fileWidth = file
		o.funcWidth = fn
		o.lineWidth = line
	}
}

// WithReportMirror attaches a callback receiving single formatted lines.
// The total-time line is always mirrored; per-function rows only when
// verbose is set. Header and divider lines are never mirrored.
func WithReportMirror(mirror func(string), verbose bool) ReportOption {
	return func(o *TableReport) {
		o.mirror = mirror
		o.verbose = verbose
	}
}

// WriteReport writes the formatted table to w. It is the only fallible
// step of report generation: everything else is in-memory computation.
func (r *TableReport) WriteReport(w io.Writer) error {
	totalTime := r.stop - r.start

	recs := make([]*FunctionRecord, len(r.records))
	copy(recs, r.records)
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CumulativeTime > recs[j].CumulativeTime
	})

	bw := bufio.NewWriter(w)
	header := r.headerRow()
	divider := strings.Repeat("-", len(header))

	totalLine := fmt.Sprintf("> Total time: %f s", totalTime)
	r.mirrorLine(totalLine, false)

	writeLine(bw, totalLine)
	writeLine(bw, divider)
	writeLine(bw, header)
	writeLine(bw, divider)

	partitioned := false
	for _, rec := range recs {
		if r.skip(rec, totalTime) {
			continue
		}

		timeCol := fmt.Sprintf("%.4f", rec.CumulativeTime)
		relCol := fmt.Sprintf("%.1f", rec.CumulativeTime/totalTime*100)
		if timeCol == EmptyTime {
			// Separate functions with measurable cost from those
			// too fast to resolve at clock granularity.
			if !partitioned {
				writeLine(bw, divider)
				partitioned = true
			}
			timeCol = NegligibleMarker
			relCol = NegligibleMarker
		}

		row := fmt.Sprintf("%s: %s: %s: %d",
			rec.Display, pad(timeCol, timeWidth), pad(relCol, relWidth), rec.CallCount)
		r.mirrorLine(row, true)
		writeLine(bw, row)
	}

	writeLine(bw, divider)

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "failed to write report")
	}

	return nil
}

func (r *TableReport) headerRow() string {
	return fmt.Sprintf("%s: %s: %s: %s: %s: #",
		pad("FILE", r.fileWidth),
		pad("FUNCTION", r.funcWidth),
		pad("LINE", r.lineWidth),
		pad("TIME", timeWidth),
		pad("%", relWidth),
	)
}

// skip reports whether a record is excluded from the table: never
// called, measured above the session total (clock noise), the profiler's
// own functions, or native frames with no source-level definition.
func (r *TableReport) skip(rec *FunctionRecord, totalTime float64) bool {
	if rec.CallCount == 0 {
		return true
	}
	if rec.CumulativeTime > totalTime {
		return true
	}
	if r.selfLabel != "" && strings.Contains(rec.Display, r.selfLabel) {
		return true
	}
	if rec.ID.Source == r.nativeMarker {
		return true
	}

	return false
}

func (r *TableReport) mirrorLine(line string, rowOnly bool) {
	if r.mirror == nil {
		return
	}
	if rowOnly && !r.verbose {
		return
	}
	r.mirror(line)
}

func writeLine(bw *bufio.Writer, line string) {
	bw.WriteString(line)
	bw.WriteByte('\n')
}
