package core

import "github.com/google/uuid"

// State is a leaf or composite state. A State with a non-nil SubMachine is
// a composite state: entering it activates SubMachine independently, and
// SubMachine reaching FinalState propagates the synthetic COMPLETE event
// back up to this State's owning Machine.
//
// State, Transition, and Machine values are declared once by the
// application and only read by the engine; Init does not copy or take
// ownership of the States/Transitions slices beyond the index it builds
// from them.
type State struct {
	ID         StateID
	Name       string
	SubMachine *Machine
	OnEnter    ActionFunc
	OnExit     ActionFunc
}

// Transition is a (from, event, to) declaration, optionally decorated with
// a guard, an action, and a history-restore type used when To is a
// composite state.
type Transition struct {
	Event   EventID
	From    *State
	To      *State
	Guard   GuardFunc
	Action  TransitionFunc
	History HistoryType
}

// Observer is notified around dispatch. Implementations must not call back
// into Run/SimpleRun on the same hierarchy (see Machine's re-entrancy
// note); they exist for logging and metrics, not control flow.
type Observer interface {
	OnEnter(m *Machine, s *State, event Event)
	OnExit(m *Machine, s *State, event Event)
	OnTransition(m *Machine, t *Transition, event Event)
	OnGuardRejected(m *Machine, t *Transition, event Event)
	OnError(m *Machine, status Status, event Event)
}

// Machine is one level of a state machine hierarchy: an ordered States
// array (States[0] is the entry state) and a Transitions array. Machine is
// single-threaded and synchronous per hierarchy — concurrent Run calls on
// the same hierarchy, or a user action that calls back into Run, are
// undefined behavior (see SPEC_FULL.md §5).
type Machine struct {
	States      []*State
	Transitions []*Transition
	Config      *Config

	data *machineData
}

// machineData is populated by Init and must never be touched directly by
// application code.
type machineData struct {
	maxStateID   StateID
	maxEventID   EventID
	optimizeHint OptimizeHint
	lookup       *lookup
	entryState   *State
	activeState  *State
	historyState *State
	parent       *Machine
	allocator    Allocator
	observers    []Observer
	runID        string
}

// RunID is the identifier stamped on this Machine when Init ran, used to
// tell independent hierarchies apart in observer output. It is empty
// before Init.
func (m *Machine) RunID() string {
	if m.data == nil {
		return ""
	}
	return m.data.runID
}

// ActiveStateID returns this machine's current active state, or false
// before the first activation.
func (m *Machine) ActiveStateID() (StateID, bool) {
	if m.data == nil || m.data.activeState == nil {
		return 0, false
	}
	return m.data.activeState.ID, true
}

func (m *Machine) notify(fn func(Observer)) {
	if m.data == nil {
		return
	}
	for _, o := range m.data.observers {
		fn(o)
	}
}

// Init validates machine (and recursively every sub-machine reachable
// through its states), builds the transition index per the effective
// optimize hint, and activates the entry state, invoking its OnEnter with
// EventIDInit.
func Init(machine *Machine, context any) Status {
	return initMachine(machine, nil, context)
}

func initMachine(machine *Machine, parent *Machine, context any) Status {
	if machine == nil {
		return StatusFatal
	}
	if len(machine.States) == 0 {
		return StatusInitNoStateFound
	}
	if len(machine.Transitions) == 0 {
		return StatusInitNoTransitionFound
	}

	maxStateID, status := scanStates(machine, context)
	if !status.OK() {
		return status
	}

	maxEventID, status := scanTransitions(machine, maxStateID)
	if !status.OK() {
		return status
	}

	alloc := machine.Config.allocator()
	hint := machine.Config.optimizeHint()

	lu, status := buildLookup(machine.Transitions, maxStateID, maxEventID, hint, alloc)
	if !status.OK() {
		return status
	}

	var observers []Observer
	if machine.Config != nil {
		observers = machine.Config.Observers
	}

	entry := machine.States[0]
	machine.data = &machineData{
		maxStateID:   maxStateID,
		maxEventID:   maxEventID,
		optimizeHint: hint,
		lookup:       lu,
		entryState:   entry,
		parent:       parent,
		allocator:    alloc,
		observers:    observers,
		runID:        uuid.New().String(),
	}

	if entry.OnEnter != nil {
		result := entry.OnEnter(Event{ID: EventIDInit}, context)
		if result != ActionOK {
			return StatusFatal
		}
	}
	machine.data.activeState = entry
	machine.data.historyState = nil
	machine.notify(func(o Observer) { o.OnEnter(machine, entry, Event{ID: EventIDInit}) })
	return StatusOK
}

func scanStates(machine *Machine, context any) (StateID, Status) {
	var maxStateID StateID
	for i, s := range machine.States {
		if s.ID >= StateIDUpperBound {
			return 0, StatusInitStateIDOverflow
		}
		if s.SubMachine != nil {
			if status := initMachine(s.SubMachine, machine, context); !status.OK() {
				return 0, status
			}
		}
		if i == 0 || s.ID > maxStateID {
			maxStateID = s.ID
		}
	}
	return maxStateID, StatusOK
}

func scanTransitions(machine *Machine, maxStateID StateID) (EventID, Status) {
	var maxEventID EventID
	for _, t := range machine.Transitions {
		if t.From == nil || t.To == nil {
			return 0, StatusMachineError
		}
		if t.From.ID > maxStateID {
			return 0, StatusInitStateIDOverflow
		}
		if t.To.ID > maxStateID && t.To.ID != StateIDFinal {
			return 0, StatusInitStateIDOverflow
		}
		if t.Event == EventIDComplete {
			continue
		}
		if t.Event >= EventIDUpperBound {
			return 0, StatusInitEventIDOverflow
		}
		if t.Event > maxEventID {
			maxEventID = t.Event
		}
	}
	return maxEventID, StatusOK
}

// Run delivers event to machine. TERMINATE is screened first and tears
// down the entire hierarchy immediately regardless of active state;
// COMPLETE and INIT are reserved for internal use and are rejected as
// unknown events if an application attempts to inject them.
func Run(machine *Machine, event Event, context any) Status {
	if event.ID == EventIDTerminate {
		destroyHierarchy(machine, context)
		return StatusOK
	}
	if event.ID == EventIDComplete || event.ID == EventIDInit {
		return StatusUnknownEvent
	}

	status := handleEvent(machine, event, context)
	if status == StatusFatal {
		destroyHierarchy(machine, context)
	}
	return status
}

// SimpleRun wraps eventID into a payload-less Event and calls Run.
func SimpleRun(machine *Machine, eventID EventID, context any) Status {
	return Run(machine, SimpleEvent(eventID), context)
}

func handleEvent(machine *Machine, event Event, context any) Status {
	data := machine.data
	if data == nil {
		return StatusFatal
	}
	if data.activeState == nil {
		data.activeState = data.entryState
	}

	if event.ID > data.maxEventID {
		if data.activeState.SubMachine != nil {
			return handleEvent(data.activeState.SubMachine, event, context)
		}
		return StatusUnknownEvent
	}

	t := data.lookup.lookupTransition(data.activeState.ID, event.ID, data.maxEventID)
	if t == nil {
		return StatusUnknownEvent
	}
	return processTransition(machine, t, event, context)
}

func processTransition(machine *Machine, t *Transition, event Event, context any) Status {
	data := machine.data
	if data.activeState != t.From {
		return StatusMachineError
	}

	if t.Guard != nil && !t.Guard(event, context) {
		machine.notify(func(o Observer) { o.OnGuardRejected(machine, t, event) })
		return StatusOK
	}

	if t.Action != nil {
		switch t.Action(event, context, t.To) {
		case ActionError:
			machine.notify(func(o Observer) { o.OnError(machine, StatusActionError, event) })
			return StatusActionError
		case ActionFatal:
			machine.notify(func(o Observer) { o.OnError(machine, StatusFatal, event) })
			return StatusFatal
		}
	}

	machine.notify(func(o Observer) { o.OnTransition(machine, t, event) })

	if t.From == t.To {
		// Self-transition: guard and action already ran; exit/enter are
		// skipped entirely (documented source behavior, kept as-is).
		return StatusOK
	}

	if t.From.OnExit != nil {
		result := t.From.OnExit(event, context)
		if result != ActionOK {
			machine.notify(func(o Observer) { o.OnError(machine, StatusActionError, event) })
			return StatusActionError
		}
	}
	machine.notify(func(o Observer) { o.OnExit(machine, t.From, event) })

	captureHistory(machine)

	return enterState(machine, t.To, t.History != HistoryNone, t.History, event, context)
}

// captureHistory records machine's current active state as its history
// state, and recurses into the active chain below it so that every
// currently-active machine in the hierarchy remembers its own position —
// not just the level being transitioned at. This is what lets a SHALLOW
// or DEEP restore several levels later find the actual last-active leaf,
// not merely the state an inner transition happened to leave behind.
func captureHistory(m *Machine) {
	if m == nil || m.data == nil || m.data.activeState == nil {
		return
	}
	m.data.historyState = m.data.activeState
	if sub := m.data.activeState.SubMachine; sub != nil {
		captureHistory(sub)
	}
}

func enterState(machine *Machine, target *State, restoreHistory bool, history HistoryType, event Event, context any) Status {
	data := machine.data

	if target.ID == StateIDFinal {
		if data.parent == nil {
			return StatusOK
		}
		return triggerCompleteEvent(data.parent, event, context)
	}

	if target.OnEnter != nil {
		result := target.OnEnter(event, context)
		if result != ActionOK {
			machine.notify(func(o Observer) { o.OnError(machine, StatusFatal, event) })
			return StatusFatal
		}
	}
	data.activeState = target
	machine.notify(func(o Observer) { o.OnEnter(machine, target, event) })

	sub := target.SubMachine
	if sub == nil || sub.data == nil {
		return StatusOK
	}
	if !restoreHistory {
		// No history restore: the sub-machine restarts at its entry state.
		return enterState(sub, sub.data.entryState, false, HistoryNone, event, context)
	}
	return restoreSubMachineHistory(sub, history, event, context)
}

// restoreSubMachineHistory resumes sub at its recorded history state (or
// leaves it at its already-active state if none was ever recorded — see
// I5/I6). SHALLOW restores exactly this level and downshifts to NONE for
// any nested sub-machine; DEEP restores this level and keeps restoring
// DEEP all the way down.
func restoreSubMachineHistory(sub *Machine, history HistoryType, event Event, context any) Status {
	data := sub.data
	if data.historyState == nil {
		return StatusOK
	}
	cascade := history == HistoryDeep
	return enterState(sub, data.historyState, cascade, history, event, context)
}

// triggerCompleteEvent looks up and fires the COMPLETE-triggered
// transition (if any) whose From matches parent's current active state.
// Finding none is not an error (I6): the parent is left unchanged.
func triggerCompleteEvent(parent *Machine, event Event, context any) Status {
	data := parent.data
	t := data.lookup.lookupTransition(data.activeState.ID, EventIDComplete, data.maxEventID)
	if t == nil {
		return StatusOK
	}
	completeEvent := Event{ID: EventIDComplete, Payload: event.Payload}
	return processTransition(parent, t, completeEvent, context)
}

// TakeSnapshot writes the root-to-leaf chain of active state IDs into
// buffer and returns how many entries were written. If buffer has spare
// room, a StateIDUpperBound sentinel follows the last entry.
func TakeSnapshot(machine *Machine, buffer []StateID) int {
	count := 0
	m := machine
	for m != nil && m.data != nil && m.data.activeState != nil && count < len(buffer) {
		buffer[count] = m.data.activeState.ID
		count++
		m = m.data.activeState.SubMachine
	}
	if count < len(buffer) {
		buffer[count] = StateIDUpperBound
	}
	return count
}

func destroyHierarchy(machine *Machine, context any) {
	if machine == nil || machine.data == nil {
		return
	}
	for _, s := range machine.States {
		if s.SubMachine != nil {
			destroyHierarchy(s.SubMachine, context)
		}
	}
	data := machine.data
	if data.lookup != nil {
		data.lookup.release(data.allocator)
	}
	if destructor := machine.Config.destructor(); destructor != nil {
		destructor(context)
	}
	machine.data = nil
}
