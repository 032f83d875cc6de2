// Package observers provides pluggable core.Observer implementations for
// logging and metrics. Neither the teacher nor the rest of the example
// pack reaches for a structured-logging library, so this package keeps
// the observer-callback idiom as the ambient logging mechanism rather than
// introducing one.
package observers

import (
	"fmt"
	"sync"

	"github.com/anggasct/fluo/pkg/core"
)

// LogLevel is the severity of one printed line. A LoggingObserver prints a
// line when its severity is at or above the threshold the observer was
// constructed with.
type LogLevel int

const (
	// LogError marks a dispatch error (OnError). Always printed.
	LogError LogLevel = iota
	// LogWarning is reserved for callers plugging in their own formatter;
	// no built-in callback emits at this level.
	LogWarning
	// LogInfo marks routine dispatch activity: entries, exits, and fired
	// transitions.
	LogInfo
	// LogDebug marks a guard-blocked transition attempt.
	LogDebug
)

func (l LogLevel) label() string {
	switch l {
	case LogError:
		return "ERROR"
	case LogWarning:
		return "WARN"
	case LogInfo:
		return "INFO"
	case LogDebug:
		return "DEBUG"
	default:
		return "INFO"
	}
}

// LogFormatter renders one log line for the given severity.
type LogFormatter func(level LogLevel, format string, args ...interface{}) string

// DefaultLogFormatter prefixes the rendered message with its severity label.
func DefaultLogFormatter(level LogLevel, format string, args ...interface{}) string {
	return fmt.Sprintf("[%s] %s", level.label(), fmt.Sprintf(format, args...))
}

// LoggingObserver prints one line per dispatch callback it receives,
// tagging each line with the owning machine's RunID so interleaved output
// from independent hierarchies can be told apart. It implements
// core.Observer.
type LoggingObserver struct {
	mu        sync.RWMutex
	threshold LogLevel
	component string
	formatter LogFormatter
}

// NewLoggingObserver builds an observer that prints callbacks at severity
// threshold or more severe (LogError is the most severe), tagging every
// line with component.
func NewLoggingObserver(threshold LogLevel, component string) *LoggingObserver {
	return &LoggingObserver{
		threshold: threshold,
		component: component,
		formatter: DefaultLogFormatter,
	}
}

// SetFormatter overrides how lines are rendered.
func (o *LoggingObserver) SetFormatter(formatter LogFormatter) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.formatter = formatter
}

// emit is the single place every OnX callback routes through: it applies
// the severity threshold and the component tag, then hands off to
// whichever formatter is currently configured.
func (o *LoggingObserver) emit(level LogLevel, format string, args ...interface{}) {
	o.mu.RLock()
	render := o.formatter
	component := o.component
	printable := level <= o.threshold
	o.mu.RUnlock()

	if !printable {
		return
	}
	if render == nil {
		render = DefaultLogFormatter
	}
	line := render(level, format, args...)
	if component == "" {
		fmt.Println(line)
		return
	}
	fmt.Printf("[%s] %s\n", component, line)
}

func stateName(s *core.State) string {
	if s == nil {
		return "nil"
	}
	return s.Name
}

// OnEnter prints state entry at LogInfo.
func (o *LoggingObserver) OnEnter(m *core.Machine, s *core.State, event core.Event) {
	o.emit(LogInfo, "run=%s enter=%s event=%d", m.RunID(), stateName(s), event.ID)
}

// OnExit prints state exit at LogInfo.
func (o *LoggingObserver) OnExit(m *core.Machine, s *core.State, event core.Event) {
	o.emit(LogInfo, "run=%s exit=%s event=%d", m.RunID(), stateName(s), event.ID)
}

// OnTransition prints a fired transition at LogInfo.
func (o *LoggingObserver) OnTransition(m *core.Machine, t *core.Transition, event core.Event) {
	o.emit(LogInfo, "run=%s transition=%s->%s event=%d", m.RunID(), stateName(t.From), stateName(t.To), event.ID)
}

// OnGuardRejected prints a blocked transition attempt at LogDebug.
func (o *LoggingObserver) OnGuardRejected(m *core.Machine, t *core.Transition, event core.Event) {
	o.emit(LogDebug, "run=%s guard_blocked=%s->%s event=%d", m.RunID(), stateName(t.From), stateName(t.To), event.ID)
}

// OnError prints a dispatch error at LogError.
func (o *LoggingObserver) OnError(m *core.Machine, status core.Status, event core.Event) {
	o.emit(LogError, "run=%s status=%s event=%d", m.RunID(), status, event.ID)
}
