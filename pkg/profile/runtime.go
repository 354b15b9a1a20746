package profile

import (
	"time"
)

// HostRuntime is the default Runtime for live instrumentation. The
// embedding application registers a callback with its script VM and
// forwards every call/return notification through Emit; HostRuntime
// stamps the event with its monotonic clock and dispatches it to the
// installed hook, if any.
type HostRuntime struct {
	base    time.Time
	handler Handler
}

func NewHostRuntime() *HostRuntime {
	return &HostRuntime{base: time.Now()}
}

// Now returns monotonic seconds since the runtime was created.
func (r *HostRuntime) Now() float64 {
	return time.Since(r.base).Seconds()
}

func (r *HostRuntime) InstallHook(h Handler) {
	r.handler = h
}

func (r *HostRuntime) UninstallHook() {
	r.handler = nil
}

// Emit stamps and dispatches one event. Events emitted while no hook is
// installed are dropped.
func (r *HostRuntime) Emit(kind EventKind, frame Frame) {
	if r.handler == nil {
		return
	}
	r.handler.HandleEvent(Event{Kind: kind, Frame: frame, Time: r.Now()})
}
