// Package replay drives a profiling session from a recorded call/return
// event stream instead of live instrumentation. Streams are JSON lines,
// one event per line, with timestamps in monotonic float seconds:
//
//	{"k":"call","t":0.000124,"src":"main.lua","fn":"update","ln":42}
//	{"k":"return","t":0.000981,"src":"main.lua","fn":"update","ln":42}
package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/callsight/callprof/pkg/profile"
)

const (
	kindCall   = "call"
	kindReturn = "return"
)

// event is the wire form of one recorded call/return notification.
type event struct {
	Kind   string  `json:"k"`
	Time   float64 `json:"t"`
	Source string  `json:"src,omitempty"`
	Symbol string  `json:"fn,omitempty"`
	Line   int     `json:"ln,omitempty"`
}

// Source replays a recorded event stream through the installed hook. It
// implements profile.Runtime: Now returns the stream clock, i.e. the
// timestamp of the last dispatched event rebased so the first event sits
// at zero. A session started before Run and reported after it therefore
// measures the span of the stream.
type Source struct {
	handler profile.Handler
	now     float64
	rebased bool
	base    float64

	events atomic.Uint64

	*SourceOptions
}

func NewSource(opts ...SourceOption) (*Source, error) {
	src := &Source{
		SourceOptions: &SourceOptions{},
	}
	for _, opt := range opts {
		opt(src)
	}
	if src.path == "" {
		return nil, ErrInputPathEmpty
	}

	return src, nil
}

func (s *Source) InstallHook(h profile.Handler) {
	s.handler = h
}

func (s *Source) UninstallHook() {
	s.handler = nil
}

// Now returns the rebased timestamp of the last dispatched event.
func (s *Source) Now() float64 {
	return s.now
}

// Events returns the number of events dispatched so far. Safe to read
// from a status goroutine while Run is in progress.
func (s *Source) Events() uint64 {
	return s.events.Load()
}

// Run decodes the stream and dispatches every event serially to the
// installed hook, preserving the single-writer contract of the record
// store. Malformed lines and unknown event kinds are skipped; only input
// I/O surfaces as an error.
func (s *Source) Run(ctx context.Context) error {
	f, err := os.Open(s.path)
	if err != nil {
		return errors.Wrapf(err, "failed to open event stream %s", s.path)
	}
	defer f.Close()

	g, ctx := errgroup.WithContext(ctx)
	evtCh := make(chan event)

	g.Go(func() error {
		defer close(evtCh)

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var evt event
			if err := json.Unmarshal(line, &evt); err != nil {
				s.logger.Debug().Err(err).Msg("skipping malformed event line")
				continue
			}

			select {
			case evtCh <- evt:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		return errors.Wrapf(scanner.Err(), "failed to read event stream %s", s.path)
	})

	for evt := range evtCh {
		var kind profile.EventKind
		switch evt.Kind {
		case kindCall:
			kind = profile.EventCall
		case kindReturn:
			kind = profile.EventReturn
		default:
			s.logger.Debug().Str("kind", evt.Kind).Msg("skipping unknown event kind")
			continue
		}

		if !s.rebased {
			s.base = evt.Time
			s.rebased = true
		}
		s.now = evt.Time - s.base
		s.events.Add(1)

		if s.handler != nil {
			s.handler.HandleEvent(profile.Event{
				Kind: kind,
				Frame: profile.Frame{
					Source: evt.Source,
					Symbol: evt.Symbol,
					Line:   evt.Line,
				},
				Time: s.now,
			})
		}
	}

	return g.Wait()
}
