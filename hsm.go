// Package hsm provides a hierarchical finite state machine engine: a
// transition index builder, an event dispatcher, a transition executor,
// and a hierarchical runtime tying sub-machines together through history
// restoration and the synthetic COMPLETE event.
package hsm

import (
	"github.com/anggasct/fluo/pkg/builders"
	"github.com/anggasct/fluo/pkg/core"
	"github.com/anggasct/fluo/pkg/observers"
	"github.com/anggasct/fluo/pkg/utils"
)

// Core types
type (
	// EventID identifies an event across a single state machine hierarchy.
	EventID = core.EventID

	// Event is delivered to a machine to drive a transition.
	Event = core.Event

	// StateID identifies a state within one machine level.
	StateID = core.StateID

	// State is a leaf or composite state.
	State = core.State

	// Transition is a (from, event, to) declaration.
	Transition = core.Transition

	// Machine is one level of a state machine hierarchy.
	Machine = core.Machine

	// Config customizes how a single machine level initializes and tears down.
	Config = core.Config

	// Allocator accounts for buffers the index builder creates.
	Allocator = core.Allocator

	// GuardFunc evaluates whether a transition may fire.
	GuardFunc = core.GuardFunc

	// ActionFunc is the signature of a state's OnEnter/OnExit callback.
	ActionFunc = core.ActionFunc

	// TransitionFunc is a transition's action.
	TransitionFunc = core.TransitionFunc

	// ActionResult is the return code of a guard/action/entry/exit callback.
	ActionResult = core.ActionResult

	// HistoryType controls whether entering a composite state resumes its
	// sub-machine at its last-active state.
	HistoryType = core.HistoryType

	// OptimizeHint selects the lookup structure a machine builds for
	// transition dispatch.
	OptimizeHint = core.OptimizeHint

	// Status is the return code of every public engine operation.
	Status = core.Status

	// Observer is notified around dispatch.
	Observer = core.Observer
)

// Reserved IDs and constants
const (
	EventIDTerminate  = core.EventIDTerminate
	EventIDComplete   = core.EventIDComplete
	EventIDInit       = core.EventIDInit
	EventIDUpperBound = core.EventIDUpperBound
	StateIDFinal      = core.StateIDFinal
	StateIDUpperBound = core.StateIDUpperBound

	ActionOK    = core.ActionOK
	ActionError = core.ActionError
	ActionFatal = core.ActionFatal

	HistoryNone    = core.HistoryNone
	HistoryShallow = core.HistoryShallow
	HistoryDeep    = core.HistoryDeep

	OptimizeAuto  = core.OptimizeAuto
	OptimizeTime  = core.OptimizeTime
	OptimizeSpace = core.OptimizeSpace

	StatusOK                      = core.StatusOK
	StatusUnknownEvent            = core.StatusUnknownEvent
	StatusActionError             = core.StatusActionError
	StatusMachineError            = core.StatusMachineError
	StatusFatal                   = core.StatusFatal
	StatusInitNoStateFound        = core.StatusInitNoStateFound
	StatusInitNoTransitionFound   = core.StatusInitNoTransitionFound
	StatusInitStateIDOverflow     = core.StatusInitStateIDOverflow
	StatusInitEventIDOverflow     = core.StatusInitEventIDOverflow
	StatusInitDuplicateTransition = core.StatusInitDuplicateTransition
)

// FinalState is the shared pseudo-state used as a transition target to
// mark a sub-machine as complete.
var FinalState = core.FinalState

// Public API
var (
	// Init validates a machine hierarchy, builds its transition indexes,
	// and activates every level's entry state.
	Init = core.Init

	// Run delivers event to a machine hierarchy.
	Run = core.Run

	// SimpleRun wraps an EventID into a payload-less Event and calls Run.
	SimpleRun = core.SimpleRun

	// TakeSnapshot writes the root-to-leaf chain of active state IDs.
	TakeSnapshot = core.TakeSnapshot

	// SimpleEvent builds a payload-less Event from a bare event ID.
	SimpleEvent = core.SimpleEvent
)

// Re-export builder types
type (
	// MachineBuilder accumulates states and transitions for one machine level.
	MachineBuilder = builders.MachineBuilder

	// StateBuilder configures the state just added to a MachineBuilder.
	StateBuilder = builders.StateBuilder

	// TransitionBuilder configures the transition just added to a MachineBuilder.
	TransitionBuilder = builders.TransitionBuilder
)

// Re-export builder constructors and combinators
var (
	// NewMachineBuilder creates an empty MachineBuilder.
	NewMachineBuilder = builders.NewMachineBuilder

	// And combines guards so a transition only fires when all are true.
	And = builders.And

	// Or combines guards so a transition fires when any is true.
	Or = builders.Or

	// Not negates a guard.
	Not = builders.Not

	// LogAction returns a transition action that logs a message.
	LogAction = builders.LogAction
)

// Re-export observer types
type (
	// LoggingObserver logs hierarchy dispatch events.
	LoggingObserver = observers.LoggingObserver

	// LogLevel represents the logging level.
	LogLevel = observers.LogLevel

	// LogFormatter formats log messages.
	LogFormatter = observers.LogFormatter

	// MetricsObserver counts dispatch outcomes across a machine hierarchy.
	MetricsObserver = observers.MetricsObserver

	// CoverageObserver tracks which expected states/transitions fired.
	CoverageObserver = observers.CoverageObserver
)

const (
	LogError   = observers.LogError
	LogWarning = observers.LogWarning
	LogInfo    = observers.LogInfo
	LogDebug   = observers.LogDebug
)

// Re-export observer constructors
var (
	NewLoggingObserver       = observers.NewDefaultLoggingObserver
	NewCustomLoggingObserver = observers.NewLoggingObserver
	DefaultLogFormatter      = observers.DefaultLogFormatter
	NewMetricsObserver       = observers.NewMetricsObserver
	NewCoverageObserver      = observers.NewCoverageObserver
)

// Re-export error types
type (
	// StatusError wraps a core.Status with state/event context.
	StatusError = utils.StatusError

	// ErrorCollector accumulates multiple errors during validation.
	ErrorCollector = utils.ErrorCollector
)

// Re-export error constructors
var (
	NewStatusError    = utils.NewStatusError
	NewErrorCollector = utils.NewErrorCollector
)
