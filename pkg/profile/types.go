// Package profile implements an in-process function call profiler for
// embedded script runtimes. The host runtime forwards call/return events
// carrying frame metadata; the profiler aggregates per-function invocation
// counts and cumulative elapsed time, and writes a ranked fixed-width report.
//
// The whole package is single-threaded by contract: the event hook is
// expected to be invoked serially from the instrumented thread, and the
// session state is unsynchronized. Driving one session from concurrently
// profiled threads is undefined behavior.
package profile

// Frame is the raw frame metadata the host runtime reports for a
// call/return event. Zero values mean the field is unknown: an empty
// Source denotes a frame with no source-level definition (e.g. a native
// function), an empty Symbol an anonymous function, a zero Line an
// unknown definition line.
type Frame struct {
	Source string
	Symbol string
	Line   int
}

// EventKind discriminates call and return events.
type EventKind int

const (
	// EventCall is emitted when the instrumented thread enters a function.
	EventCall EventKind = iota
	// EventReturn is emitted when the instrumented thread leaves a function.
	EventReturn
)

func (k EventKind) String() string {
	switch k {
	case EventCall:
		return "call"
	case EventReturn:
		return "return"
	}
	return "unknown"
}

// Event is a single call or return notification. Time is the producer's
// monotonic clock reading in seconds at the moment of the event.
type Event struct {
	Kind  EventKind
	Frame Frame
	Time  float64
}

// Handler consumes call/return events. It runs on the hot path of every
// instrumented call and must be cheap; implementations never panic on
// malformed frames.
type Handler interface {
	HandleEvent(Event)
}

// Runtime abstracts the host runtime's instrumentation facility: hook
// installation, hook removal and a monotonic clock in float seconds.
type Runtime interface {
	InstallHook(Handler)
	UninstallHook()
	Now() float64
}

// FunctionRecord aggregates all observed invocations of one function
// identity. Records are owned by the Store and mutated only by the Hook.
type FunctionRecord struct {
	ID      Identity
	Display string

	CallCount      int
	CumulativeTime float64

	// pendingSince holds the entry timestamp of the most recent call
	// event. It is overwritten by re-entrant calls and is not cleared
	// when a return event consumes it, so recursive invocations
	// under-count the outer frame. Kept for compatibility with
	// existing measurements.
	pendingSince float64
	hasPending   bool
}

// Pending returns the pending entry timestamp, if any.
func (r *FunctionRecord) Pending() (float64, bool) {
	return r.pendingSince, r.hasPending
}
