package observers

import (
	"fmt"
	"sync"

	"github.com/anggasct/fluo/pkg/core"
)

// CoverageObserver tracks which expected states were actually entered and
// flags transitions outside an allow-list, for use in tests that want to
// assert a machine's declared graph was fully exercised. It implements
// core.Observer.
type CoverageObserver struct {
	mutex              sync.RWMutex
	expectedStates     map[string]bool
	visitedStates      map[string]bool
	allowedTransitions map[string]map[string]bool
	violations         []string
}

// NewCoverageObserver creates a new coverage observer
func NewCoverageObserver() *CoverageObserver {
	return &CoverageObserver{
		expectedStates:     make(map[string]bool),
		visitedStates:      make(map[string]bool),
		allowedTransitions: make(map[string]map[string]bool),
	}
}

// ExpectState registers a state name that should be visited at least once.
func (o *CoverageObserver) ExpectState(name string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.expectedStates[name] = true
}

// AllowTransition registers a from->to pair as permitted; any other
// transition observed is recorded as a violation.
func (o *CoverageObserver) AllowTransition(from, to string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if _, exists := o.allowedTransitions[from]; !exists {
		o.allowedTransitions[from] = make(map[string]bool)
	}
	o.allowedTransitions[from][to] = true
}

// OnEnter marks a state as visited.
func (o *CoverageObserver) OnEnter(m *core.Machine, s *core.State, event core.Event) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.visitedStates[stateName(s)] = true
}

// OnExit is a no-op for coverage tracking.
func (o *CoverageObserver) OnExit(m *core.Machine, s *core.State, event core.Event) {}

// OnTransition checks the fired transition against the allow-list, if one
// was configured for its source state.
func (o *CoverageObserver) OnTransition(m *core.Machine, t *core.Transition, event core.Event) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	from, to := stateName(t.From), stateName(t.To)
	if allowed, exists := o.allowedTransitions[from]; exists && !allowed[to] {
		o.violations = append(o.violations, fmt.Sprintf(
			"unexpected transition from %q to %q on event %d", from, to, event.ID))
	}
}

// OnGuardRejected is a no-op for coverage tracking.
func (o *CoverageObserver) OnGuardRejected(m *core.Machine, t *core.Transition, event core.Event) {}

// OnError records an observed dispatch error as a violation.
func (o *CoverageObserver) OnError(m *core.Machine, status core.Status, event core.Event) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.violations = append(o.violations, fmt.Sprintf("error %s on event %d", status, event.ID))
}

// Violations returns every violation recorded so far.
func (o *CoverageObserver) Violations() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make([]string, len(o.violations))
	copy(result, o.violations)
	return result
}

// UnvisitedStates returns expected state names that were never entered.
func (o *CoverageObserver) UnvisitedStates() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	var unvisited []string
	for state := range o.expectedStates {
		if !o.visitedStates[state] {
			unvisited = append(unvisited, state)
		}
	}
	return unvisited
}

// HasViolations reports whether any violation was recorded.
func (o *CoverageObserver) HasViolations() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.violations) > 0
}

// Reset clears visited-state and violation tracking (not the expectations
// or allow-list).
func (o *CoverageObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.visitedStates = make(map[string]bool)
	o.violations = nil
}
