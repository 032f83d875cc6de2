package observers

import (
	"sync"

	"github.com/anggasct/fluo/pkg/core"
)

// MetricsObserver counts dispatch outcomes across a machine hierarchy. It
// implements core.Observer.
type MetricsObserver struct {
	mutex            sync.RWMutex
	stateVisits      map[string]int
	eventCounts      map[core.EventID]int
	transitionCounts map[string]int
	guardRejections  int
	errorCounts      map[core.Status]int
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		stateVisits:      make(map[string]int),
		eventCounts:      make(map[core.EventID]int),
		transitionCounts: make(map[string]int),
		errorCounts:      make(map[core.Status]int),
	}
}

// OnEnter records a state visit.
func (o *MetricsObserver) OnEnter(m *core.Machine, s *core.State, event core.Event) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.stateVisits[stateName(s)]++
}

// OnExit is a no-op; MetricsObserver counts entries, not dwell time.
func (o *MetricsObserver) OnExit(m *core.Machine, s *core.State, event core.Event) {}

// OnTransition records a fired transition and the event that triggered it.
func (o *MetricsObserver) OnTransition(m *core.Machine, t *core.Transition, event core.Event) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.eventCounts[event.ID]++
	o.transitionCounts[stateName(t.From)+"->"+stateName(t.To)]++
}

// OnGuardRejected counts a guard-blocked transition attempt.
func (o *MetricsObserver) OnGuardRejected(m *core.Machine, t *core.Transition, event core.Event) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.guardRejections++
}

// OnError counts a dispatch error by status.
func (o *MetricsObserver) OnError(m *core.Machine, status core.Status, event core.Event) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.errorCounts[status]++
}

// StateVisitCounts returns the number of times each state was entered.
func (o *MetricsObserver) StateVisitCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[string]int, len(o.stateVisits))
	for state, count := range o.stateVisits {
		result[state] = count
	}
	return result
}

// EventCounts returns the number of times each event fired a transition.
// Events blocked by a guard, failed by an action, or matching no
// transition are not counted.
func (o *MetricsObserver) EventCounts() map[core.EventID]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[core.EventID]int, len(o.eventCounts))
	for event, count := range o.eventCounts {
		result[event] = count
	}
	return result
}

// TransitionCounts returns the number of times each from->to pair fired.
func (o *MetricsObserver) TransitionCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[string]int, len(o.transitionCounts))
	for transition, count := range o.transitionCounts {
		result[transition] = count
	}
	return result
}

// GuardRejectionCount returns how many transition attempts were blocked by
// a guard.
func (o *MetricsObserver) GuardRejectionCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.guardRejections
}

// ErrorCount returns how many times the given status was reported.
func (o *MetricsObserver) ErrorCount(status core.Status) int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.errorCounts[status]
}

// Reset clears all counters.
func (o *MetricsObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.stateVisits = make(map[string]int)
	o.eventCounts = make(map[core.EventID]int)
	o.transitionCounts = make(map[string]int)
	o.guardRejections = 0
	o.errorCounts = make(map[core.Status]int)
}
