package profile

import (
	"io"
	"sort"

	"github.com/google/pprof/profile"
	"github.com/pkg/errors"
)

// BuildProfile converts a record snapshot into a flat pprof profile: one
// sample per function with values [cumulative nanoseconds, call count].
// Records that were never called are left out. No call-graph edges are
// reconstructed, so every sample carries a single location.
func BuildProfile(records []*FunctionRecord, start, stop float64) *profile.Profile {
	prof := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "cpu", Unit: "nanoseconds"},
			{Type: "calls", Unit: "count"},
		},
		DurationNanos: int64((stop - start) * 1e9),
		PeriodType:    &profile.ValueType{Type: "cpu", Unit: "nanoseconds"},
		Period:        1,
	}

	recs := make([]*FunctionRecord, len(records))
	copy(recs, records)
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CumulativeTime > recs[j].CumulativeTime
	})

	nextID := uint64(1)
	for _, rec := range recs {
		if rec.CallCount == 0 {
			continue
		}

		fn := &profile.Function{
			ID:         nextID,
			Name:       rec.ID.Symbol,
			SystemName: rec.ID.Symbol,
			Filename:   rec.ID.Source,
			StartLine:  int64(rec.ID.Line),
		}
		loc := &profile.Location{
			ID: nextID,
			Line: []profile.Line{
				{Function: fn, Line: int64(rec.ID.Line)},
			},
		}
		nextID++

		prof.Function = append(prof.Function, fn)
		prof.Location = append(prof.Location, loc)
		prof.Sample = append(prof.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value: []int64{
				int64(rec.CumulativeTime * 1e9),
				int64(rec.CallCount),
			},
		})
	}

	return prof
}

// WritePprof exports the session's aggregated records as a gzipped pprof
// protobuf, so the text report can be cross-checked with standard
// tooling.
func (s *Session) WritePprof(w io.Writer) error {
	prof := BuildProfile(s.store.All(), s.startTime, s.stopTime)
	if err := prof.Write(w); err != nil {
		return errors.Wrap(err, "failed to write pprof profile")
	}

	return nil
}
