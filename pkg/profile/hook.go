package profile

// Hook reacts to call/return events and drives the timing of each record.
// It executes wholly within the instrumented thread's call/return
// transition, so the work per event is a map lookup and a few field
// writes. No error is ever signaled: malformed frames degrade through the
// normalizer's fallback markers.
type Hook struct {
	norm  *Normalizer
	store *Store
}

func NewHook(norm *Normalizer, store *Store) *Hook {
	return &Hook{norm: norm, store: store}
}

// HandleEvent implements Handler.
//
// A return event with no matching pending entry (e.g. profiling started
// mid-call) is silently ignored. The pending entry timestamp is not
// cleared after a return consumes it; see FunctionRecord.
func (h *Hook) HandleEvent(evt Event) {
	id := h.norm.Normalize(evt.Frame)
	rec := h.store.GetOrCreate(id, h.norm.Display(id))

	switch evt.Kind {
	case EventCall:
		rec.pendingSince = evt.Time
		rec.hasPending = true
		rec.CallCount++
	case EventReturn:
		if rec.hasPending && rec.CallCount > 0 {
			rec.CumulativeTime += evt.Time - rec.pendingSince
		}
	}
}
