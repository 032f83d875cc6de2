// Package utils adapts pkg/core's Status codes to idiomatic Go error
// handling, so callers can use errors.Is/errors.As instead of comparing
// Status values directly.
package utils

import (
	"fmt"
	"strings"

	"github.com/anggasct/fluo/pkg/core"
)

// StatusError wraps a core.Status with the state/event context that was
// active when it occurred, and satisfies the error interface.
type StatusError struct {
	Status  core.Status
	StateID *core.StateID
	EventID *core.EventID
	Cause   error
}

// NewStatusError wraps status. A StatusOK wrapped this way is still a
// non-nil error; callers should check status.OK() before wrapping.
func NewStatusError(status core.Status) *StatusError {
	return &StatusError{Status: status}
}

// WithState records the state that was active when the error occurred.
func (e *StatusError) WithState(id core.StateID) *StatusError {
	e.StateID = &id
	return e
}

// WithEvent records the event that was being dispatched.
func (e *StatusError) WithEvent(id core.EventID) *StatusError {
	e.EventID = &id
	return e
}

// WithCause attaches an underlying error, surfaced by Unwrap.
func (e *StatusError) WithCause(cause error) *StatusError {
	e.Cause = cause
	return e
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	var parts []string
	parts = append(parts, e.Status.String())
	if e.StateID != nil {
		parts = append(parts, fmt.Sprintf("state=%d", *e.StateID))
	}
	if e.EventID != nil {
		parts = append(parts, fmt.Sprintf("event=%d", *e.EventID))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}
	return strings.Join(parts, " ")
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *StatusError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a StatusError carrying the same Status, so
// errors.Is(err, utils.NewStatusError(core.StatusFatal)) works without
// needing to compare StateID/EventID context.
func (e *StatusError) Is(target error) bool {
	other, ok := target.(*StatusError)
	return ok && other.Status == e.Status
}

// ErrorCollector accumulates errors encountered while validating a
// declaratively-built machine graph, so callers can report every problem
// at once instead of failing on the first one.
type ErrorCollector struct {
	errors []error
}

// NewErrorCollector creates an empty ErrorCollector.
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{}
}

// Add records err, ignoring nil.
func (ec *ErrorCollector) Add(err error) {
	if err != nil {
		ec.errors = append(ec.errors, err)
	}
}

// HasErrors reports whether any error was recorded.
func (ec *ErrorCollector) HasErrors() bool {
	return len(ec.errors) > 0
}

// Errors returns every recorded error.
func (ec *ErrorCollector) Errors() []error {
	return ec.errors
}

// Error implements the error interface, summarizing every recorded error.
func (ec *ErrorCollector) Error() string {
	if len(ec.errors) == 0 {
		return "no errors"
	}
	if len(ec.errors) == 1 {
		return ec.errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors occurred:\n", len(ec.errors))
	for i, err := range ec.errors {
		fmt.Fprintf(&sb, "  %d: %v\n", i+1, err)
	}
	return sb.String()
}
