// Package builders provides a fluent declaration API over pkg/core, so
// callers can assemble a *core.Machine without hand-building []*State and
// []*Transition slices and wiring From/To pointers and contiguous IDs
// themselves.
package builders

import (
	"fmt"

	"github.com/anggasct/fluo/pkg/core"
)

// MachineBuilder accumulates states and transitions for one machine level
// and produces a *core.Machine ready for core.Init. States are assigned
// contiguous IDs in the order AddState/AddSubMachineState is called; the
// first state added becomes the entry state.
type MachineBuilder struct {
	states      []*core.State
	transitions []*core.Transition
	byName      map[string]*core.State
	config      *core.Config
	err         error
}

// NewMachineBuilder creates an empty MachineBuilder.
func NewMachineBuilder() *MachineBuilder {
	return &MachineBuilder{byName: make(map[string]*core.State)}
}

// WithConfig attaches a Config to the machine this builder produces.
func (b *MachineBuilder) WithConfig(cfg *core.Config) *MachineBuilder {
	b.config = cfg
	return b
}

// AddState declares a leaf state and returns a StateBuilder for
// configuring its entry/exit callbacks.
func (b *MachineBuilder) AddState(name string) *StateBuilder {
	return b.addState(name, nil)
}

// AddSubMachineState declares a composite state whose activation delegates
// to sub.
func (b *MachineBuilder) AddSubMachineState(name string, sub *core.Machine) *StateBuilder {
	return b.addState(name, sub)
}

func (b *MachineBuilder) addState(name string, sub *core.Machine) *StateBuilder {
	if _, exists := b.byName[name]; exists {
		b.err = fmt.Errorf("builders: duplicate state name %q", name)
		return &StateBuilder{builder: b}
	}
	s := &core.State{ID: core.StateID(len(b.states)), Name: name, SubMachine: sub}
	b.states = append(b.states, s)
	b.byName[name] = s
	return &StateBuilder{builder: b, state: s}
}

func (b *MachineBuilder) resolve(name string) *core.State {
	if name == "FINAL" {
		return core.FinalState
	}
	return b.byName[name]
}

// AddTransition declares an event-triggered transition between two
// previously-added states.
func (b *MachineBuilder) AddTransition(event core.EventID, fromName, toName string) *TransitionBuilder {
	return b.addTransition(event, fromName, toName)
}

// AddCompleteTransition declares a transition fired when fromName's
// sub-machine reaches FINAL.
func (b *MachineBuilder) AddCompleteTransition(fromName, toName string) *TransitionBuilder {
	return b.addTransition(core.EventIDComplete, fromName, toName)
}

func (b *MachineBuilder) addTransition(event core.EventID, fromName, toName string) *TransitionBuilder {
	from, to := b.resolve(fromName), b.resolve(toName)
	if from == nil || to == nil {
		b.err = fmt.Errorf("builders: transition references unknown state (from=%q, to=%q)", fromName, toName)
		return &TransitionBuilder{builder: b}
	}
	t := &core.Transition{Event: event, From: from, To: to}
	b.transitions = append(b.transitions, t)
	return &TransitionBuilder{builder: b, transition: t}
}

// Build returns the assembled machine, or an error if the builder
// recorded one along the way (unknown state reference, duplicate name).
// Build does not call core.Init; the caller does that once it has a
// context value to pass.
func (b *MachineBuilder) Build() (*core.Machine, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.states) == 0 {
		return nil, fmt.Errorf("builders: machine has no states")
	}
	if len(b.transitions) == 0 {
		return nil, fmt.Errorf("builders: machine has no transitions")
	}
	return &core.Machine{States: b.states, Transitions: b.transitions, Config: b.config}, nil
}

// StateBuilder configures the state just added to a MachineBuilder.
type StateBuilder struct {
	builder *MachineBuilder
	state   *core.State
}

// OnEnter sets the state's entry callback.
func (sb *StateBuilder) OnEnter(fn core.ActionFunc) *StateBuilder {
	if sb.state != nil {
		sb.state.OnEnter = fn
	}
	return sb
}

// OnExit sets the state's exit callback.
func (sb *StateBuilder) OnExit(fn core.ActionFunc) *StateBuilder {
	if sb.state != nil {
		sb.state.OnExit = fn
	}
	return sb
}

// Done returns the parent builder to continue the fluent chain.
func (sb *StateBuilder) Done() *MachineBuilder {
	return sb.builder
}

// TransitionBuilder configures the transition just added to a
// MachineBuilder.
type TransitionBuilder struct {
	builder    *MachineBuilder
	transition *core.Transition
}

// WithGuard attaches a guard condition to the transition.
func (tb *TransitionBuilder) WithGuard(guard core.GuardFunc) *TransitionBuilder {
	if tb.transition != nil {
		tb.transition.Guard = guard
	}
	return tb
}

// WithAction attaches a transition action.
func (tb *TransitionBuilder) WithAction(action core.TransitionFunc) *TransitionBuilder {
	if tb.transition != nil {
		tb.transition.Action = action
	}
	return tb
}

// WithHistory sets the history-restore type used when the transition's
// target is a composite state.
func (tb *TransitionBuilder) WithHistory(history core.HistoryType) *TransitionBuilder {
	if tb.transition != nil {
		tb.transition.History = history
	}
	return tb
}

// Done returns the parent builder to continue the fluent chain.
func (tb *TransitionBuilder) Done() *MachineBuilder {
	return tb.builder
}
