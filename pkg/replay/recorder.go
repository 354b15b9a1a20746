package replay

import (
	"encoding/json"
	"io"

	"github.com/callsight/callprof/pkg/profile"
)

// Recorder captures the event stream seen by a session so it can be
// replayed later. It implements profile.Handler and can be chained in
// front of another handler, typically the session's own hook:
//
//	rec := replay.NewRecorder(w, session.Handler())
//	runtime.InstallHook(rec)
type Recorder struct {
	enc  *json.Encoder
	next profile.Handler
}

func NewRecorder(w io.Writer, next profile.Handler) *Recorder {
	return &Recorder{
		enc:  json.NewEncoder(w),
		next: next,
	}
}

// HandleEvent encodes the event as one JSON line and forwards it.
// Encoding failures are swallowed: the hook path must never abort the
// profiled program.
func (r *Recorder) HandleEvent(evt profile.Event) {
	kind := kindCall
	if evt.Kind == profile.EventReturn {
		kind = kindReturn
	}

	r.enc.Encode(event{
		Kind:   kind,
		Time:   evt.Time,
		Source: evt.Frame.Source,
		Symbol: evt.Frame.Symbol,
		Line:   evt.Frame.Line,
	})

	if r.next != nil {
		r.next.HandleEvent(evt)
	}
}
