package observers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggasct/fluo/pkg/core"
	"github.com/anggasct/fluo/pkg/observers"
)

func twoStateMachine(t *testing.T, obs ...core.Observer) *core.Machine {
	t.Helper()
	a := &core.State{ID: 0, Name: "a"}
	b := &core.State{ID: 1, Name: "b"}
	m := &core.Machine{
		States: []*core.State{a, b},
		Transitions: []*core.Transition{
			{Event: 0, From: a, To: b, Guard: func(core.Event, any) bool { return true }},
		},
		Config: &core.Config{Observers: obs},
	}
	require.True(t, core.Init(m, nil).OK())
	return m
}

func TestMetricsObserverCountsEntriesAndTransitions(t *testing.T) {
	metrics := observers.NewMetricsObserver()
	m := twoStateMachine(t, metrics)

	require.True(t, core.SimpleRun(m, 0, nil).OK())

	assert.Equal(t, 1, metrics.StateVisitCounts()["a"])
	assert.Equal(t, 1, metrics.StateVisitCounts()["b"])
	assert.Equal(t, 1, metrics.TransitionCounts()["a->b"])
	assert.Equal(t, 1, metrics.EventCounts()[0])
	assert.Equal(t, 0, metrics.GuardRejectionCount())

	metrics.Reset()
	assert.Empty(t, metrics.StateVisitCounts())
}

func TestMetricsObserverCountsGuardRejections(t *testing.T) {
	a := &core.State{ID: 0, Name: "a"}
	b := &core.State{ID: 1, Name: "b"}
	metrics := observers.NewMetricsObserver()
	m := &core.Machine{
		States: []*core.State{a, b},
		Transitions: []*core.Transition{
			{Event: 0, From: a, To: b, Guard: func(core.Event, any) bool { return false }},
		},
		Config: &core.Config{Observers: []core.Observer{metrics}},
	}
	require.True(t, core.Init(m, nil).OK())
	require.True(t, core.SimpleRun(m, 0, nil).OK())

	assert.Equal(t, 1, metrics.GuardRejectionCount())
	assert.Equal(t, 0, metrics.TransitionCounts()["a->b"])
}

func TestMetricsObserverCountsErrors(t *testing.T) {
	a := &core.State{ID: 0, Name: "a"}
	b := &core.State{ID: 1, Name: "b"}
	metrics := observers.NewMetricsObserver()
	m := &core.Machine{
		States: []*core.State{a, b},
		Transitions: []*core.Transition{
			{Event: 0, From: a, To: b, Action: func(core.Event, any, *core.State) core.ActionResult {
				return core.ActionError
			}},
		},
		Config: &core.Config{Observers: []core.Observer{metrics}},
	}
	require.True(t, core.Init(m, nil).OK())
	assert.Equal(t, core.StatusActionError, core.SimpleRun(m, 0, nil))
	assert.Equal(t, 1, metrics.ErrorCount(core.StatusActionError))
}

func TestCoverageObserverTracksUnvisitedStates(t *testing.T) {
	coverage := observers.NewCoverageObserver()
	coverage.ExpectState("a")
	coverage.ExpectState("b")
	coverage.AllowTransition("a", "b")

	m := twoStateMachine(t, coverage)
	assert.ElementsMatch(t, []string{"b"}, coverage.UnvisitedStates())

	require.True(t, core.SimpleRun(m, 0, nil).OK())
	assert.Empty(t, coverage.UnvisitedStates())
	assert.False(t, coverage.HasViolations())
}

func TestCoverageObserverFlagsDisallowedTransition(t *testing.T) {
	coverage := observers.NewCoverageObserver()
	coverage.AllowTransition("a", "nowhere")

	m := twoStateMachine(t, coverage)
	require.True(t, core.SimpleRun(m, 0, nil).OK())

	assert.True(t, coverage.HasViolations())
	assert.Len(t, coverage.Violations(), 1)

	coverage.Reset()
	assert.False(t, coverage.HasViolations())
}

func TestCoverageObserverFlagsDispatchErrors(t *testing.T) {
	a := &core.State{ID: 0, Name: "a"}
	b := &core.State{ID: 1, Name: "b"}
	coverage := observers.NewCoverageObserver()
	m := &core.Machine{
		States: []*core.State{a, b},
		Transitions: []*core.Transition{
			{Event: 0, From: a, To: b, Action: func(core.Event, any, *core.State) core.ActionResult {
				return core.ActionError
			}},
		},
		Config: &core.Config{Observers: []core.Observer{coverage}},
	}
	require.True(t, core.Init(m, nil).OK())
	core.SimpleRun(m, 0, nil)

	assert.True(t, coverage.HasViolations())
}

func TestLoggingObserverDoesNotPanic(t *testing.T) {
	logger := observers.NewDefaultLoggingObserver()
	m := twoStateMachine(t, logger)
	assert.True(t, core.SimpleRun(m, 0, nil).OK())
}

func TestNewLoggingObserverRespectsLevel(t *testing.T) {
	logger := observers.NewLoggingObserver(observers.LogError, "test")
	var rendered []observers.LogLevel
	logger.SetFormatter(func(level observers.LogLevel, format string, args ...interface{}) string {
		rendered = append(rendered, level)
		return ""
	})
	m := twoStateMachine(t, logger)
	assert.True(t, core.SimpleRun(m, 0, nil).OK())
	assert.Empty(t, rendered, "LogInfo entry/exit/transition lines must be suppressed at LogError")
}

func TestDefaultLogFormatter(t *testing.T) {
	msg := observers.DefaultLogFormatter(observers.LogError, "boom %d", 42)
	assert.Contains(t, msg, "ERROR")
	assert.Contains(t, msg, "boom 42")
}
