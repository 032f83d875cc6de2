// Package core implements the hierarchical finite state machine engine:
// the transition index builder, the event dispatcher, the transition
// executor, and the hierarchical runtime that ties sub-machines together
// through history restoration and the synthetic COMPLETE event.
package core

import "fmt"

// EventID identifies an event across a single state machine hierarchy.
// User-defined event IDs must be contiguous integers starting at zero and
// strictly less than EventIDUpperBound.
type EventID uint32

const (
	// EventIDTerminate requests immediate shutdown of the entire hierarchy.
	EventIDTerminate EventID = 0xFFFF

	// EventIDComplete is synthetic: the engine emits it on the parent
	// machine when a sub-machine reaches its FINAL state. Applications
	// must never inject it directly; Run and SimpleRun reject it.
	EventIDComplete EventID = 0xFFFE

	// EventIDInit is synthetic: delivered to the entry state's OnEnter on
	// first activation. Applications must never inject it directly.
	EventIDInit EventID = 0xFFFD

	// EventIDUpperBound is the exclusive upper bound for user event IDs.
	EventIDUpperBound EventID = 0xF000
)

// StateID identifies a state within one machine level. IDs are local to
// the owning machine, not global across a hierarchy, and must be
// contiguous starting at zero.
type StateID uint32

const (
	// StateIDFinal is the pseudo-state reached when a sub-machine
	// completes. It carries no structure of its own.
	StateIDFinal StateID = 0xFFFE

	// StateIDUpperBound is the exclusive upper bound for user state IDs.
	StateIDUpperBound StateID = 0xF000
)

// FinalState is the shared pseudo-state instance used as a transition
// target to mark a sub-machine as complete.
var FinalState = &State{ID: StateIDFinal, Name: "final"}

// Event is delivered to a machine to drive a transition. Name and Payload
// are optional and are passed through to guards, actions, and entry/exit
// callbacks unchanged.
type Event struct {
	ID      EventID
	Name    string
	Payload any
}

// SimpleEvent builds a payload-less Event from a bare event ID.
func SimpleEvent(id EventID) Event {
	return Event{ID: id}
}

// ActionResult is the return code of a guard/action/entry/exit callback.
type ActionResult int

const (
	// ActionOK reports that the callback completed without problems.
	ActionOK ActionResult = iota

	// ActionError reports a recoverable error. For exit and transition
	// actions this yields StatusActionError; for entry actions it is
	// escalated to StatusFatal.
	ActionError

	// ActionFatal reports an unrecoverable error that terminates the
	// entire machine hierarchy. From an OnExit callback it is treated like
	// any other non-OK result and yields StatusActionError.
	ActionFatal
)

// GuardFunc evaluates whether a transition may fire. Returning false
// silently cancels the transition; the call still reports StatusOK.
type GuardFunc func(event Event, context any) bool

// ActionFunc is the signature of a state's OnEnter/OnExit callback.
type ActionFunc func(event Event, context any) ActionResult

// TransitionFunc is a transition's action, run after the guard and before
// the source state's OnExit. It may inspect (but not redirect) the
// transition's target state.
type TransitionFunc func(event Event, context any, target *State) ActionResult

// HistoryType controls whether entering a composite state resumes its
// sub-machine at its last-active state.
type HistoryType int

const (
	// HistoryNone restarts the sub-machine at its entry state.
	HistoryNone HistoryType = iota

	// HistoryShallow resumes the sub-machine at its recorded history
	// state, without restoring history recursively in grandchildren.
	HistoryShallow

	// HistoryDeep resumes the sub-machine at its recorded history state
	// and preserves deep restoration recursively in grandchildren.
	HistoryDeep
)

// OptimizeHint selects the lookup structure a machine builds for
// transition dispatch. See pkg/core/lookup.go for the layouts.
type OptimizeHint int

const (
	// OptimizeAuto keeps each source state's transitions in a list scanned
	// linearly, and promotes it to a dense per-event array when the state
	// has more than 4 outbound event-triggered transitions.
	OptimizeAuto OptimizeHint = iota

	// OptimizeTime builds one dense [event][state] table for the whole
	// machine. O(1) lookup, O(states*events) space.
	OptimizeTime

	// OptimizeSpace always keeps a per-state list scanned linearly, never
	// promoting.
	OptimizeSpace
)

// Status is the return code of every public engine operation.
type Status int

const (
	// StatusOK reports success, including a guard-blocked no-op.
	StatusOK Status = iota

	// StatusUnknownEvent reports that no transition matched the event. An
	// event ID within a machine's own event range is looked up at that
	// level only; only IDs above that range are delegated to the active
	// state's sub-machine.
	StatusUnknownEvent

	// StatusActionError reports that an exit or transition callback
	// returned ActionError; active state is left unchanged.
	StatusActionError

	// StatusMachineError reports an internal invariant violation, such as
	// a transition whose From state does not match the active state.
	StatusMachineError

	// StatusFatal reports an unrecoverable error. The entire hierarchy is
	// destroyed.
	StatusFatal

	// StatusInitNoStateFound reports that a machine declared zero states.
	StatusInitNoStateFound

	// StatusInitNoTransitionFound reports that a machine declared zero
	// transitions.
	StatusInitNoTransitionFound

	// StatusInitStateIDOverflow reports a state ID >= StateIDUpperBound.
	StatusInitStateIDOverflow

	// StatusInitEventIDOverflow reports an event ID that is neither
	// EventIDComplete nor < EventIDUpperBound.
	StatusInitEventIDOverflow

	// StatusInitDuplicateTransition reports two transitions declared for
	// the same (from, event) pair. See SPEC_FULL.md §3 for why this
	// rejects at Init rather than silently overwriting the index slot.
	StatusInitDuplicateTransition
)

var statusNames = map[Status]string{
	StatusOK:                      "OK",
	StatusUnknownEvent:            "UNKNOWN_EVENT",
	StatusActionError:             "ACTION_ERROR",
	StatusMachineError:            "MACHINE_ERROR",
	StatusFatal:                   "FATAL",
	StatusInitNoStateFound:        "INIT_NO_STATE_FOUND",
	StatusInitNoTransitionFound:   "INIT_NO_TRANSITION_FOUND",
	StatusInitStateIDOverflow:     "INIT_STATE_ID_OVERFLOW",
	StatusInitEventIDOverflow:     "INIT_EVENT_ID_OVERFLOW",
	StatusInitDuplicateTransition: "INIT_DUPLICATE_TRANSITION",
}

// String renders the status using its spec-defined name.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// OK reports whether the status is StatusOK.
func (s Status) OK() bool {
	return s == StatusOK
}

// Allocator accounts for buffers the index builder creates: lookup table
// rows, promoted dense per-state arrays, per-state list entries for the
// SPACE/AUTO layouts, and nodes of the COMPLETE transition list. The lookup
// structures themselves live in native Go slices; Alloc/Free exist so
// applications can verify the "fully released on destroy" contract (and
// so tests can assert it), matching the pluggable get_buffer/free_buffer
// collaborator described by the spec without hand-managing raw memory in
// a garbage-collected language.
type Allocator interface {
	Alloc(n int)
	Free(n int)
}

// DefaultAllocator is a no-op Allocator used when a Config omits one.
type DefaultAllocator struct{}

// Alloc implements Allocator.
func (DefaultAllocator) Alloc(n int) {}

// Free implements Allocator.
func (DefaultAllocator) Free(n int) {}

// Config customizes how a single machine level initializes and is torn
// down. A nil Config is equivalent to a zero-value Config. Config is never
// inherited from a parent machine — a sub-machine with a nil Config gets
// its own DefaultAllocator and OptimizeAuto hint, not its parent's.
type Config struct {
	// Allocator accounts for lookup-structure buffers. Defaults to
	// DefaultAllocator when nil.
	Allocator Allocator

	// OptimizeHint selects the lookup layout. Defaults to OptimizeAuto
	// when left at its zero value.
	OptimizeHint OptimizeHint

	// Destructor is invoked with the application context when this
	// machine is torn down (TERMINATE or FATAL unwinding).
	Destructor func(context any)

	// Observers are notified around this machine's dispatch. Like the rest
	// of Config, Observers is per-machine-level and is not inherited by a
	// sub-machine's own Config.
	Observers []Observer
}

func (c *Config) allocator() Allocator {
	if c == nil || c.Allocator == nil {
		return DefaultAllocator{}
	}
	return c.Allocator
}

func (c *Config) optimizeHint() OptimizeHint {
	if c == nil {
		return OptimizeAuto
	}
	return c.OptimizeHint
}

func (c *Config) destructor() func(any) {
	if c == nil {
		return nil
	}
	return c.Destructor
}
