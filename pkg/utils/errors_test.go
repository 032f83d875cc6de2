package utils_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anggasct/fluo/pkg/core"
	"github.com/anggasct/fluo/pkg/utils"
)

func TestStatusErrorMessageIncludesContext(t *testing.T) {
	stateID := core.StateID(3)
	eventID := core.EventID(7)
	cause := errors.New("boom")

	err := utils.NewStatusError(core.StatusActionError).
		WithState(stateID).
		WithEvent(eventID).
		WithCause(cause)

	msg := err.Error()
	assert.Contains(t, msg, "ACTION_ERROR")
	assert.Contains(t, msg, "state=3")
	assert.Contains(t, msg, "event=7")
	assert.Contains(t, msg, "boom")
}

func TestStatusErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := utils.NewStatusError(core.StatusFatal).WithCause(cause)
	assert.True(t, errors.Is(err, cause))
}

func TestStatusErrorIsMatchesOnStatusOnly(t *testing.T) {
	a := utils.NewStatusError(core.StatusFatal).WithState(1)
	b := utils.NewStatusError(core.StatusFatal).WithState(2)
	c := utils.NewStatusError(core.StatusActionError)

	assert.True(t, errors.Is(a, b), "same Status should match regardless of context")
	assert.False(t, errors.Is(a, c))
}

func TestErrorCollector(t *testing.T) {
	ec := utils.NewErrorCollector()
	assert.False(t, ec.HasErrors())

	ec.Add(nil)
	assert.False(t, ec.HasErrors(), "nil errors must be ignored")

	ec.Add(errors.New("first"))
	assert.True(t, ec.HasErrors())
	assert.Equal(t, "first", ec.Error())

	ec.Add(errors.New("second"))
	assert.Len(t, ec.Errors(), 2)
	assert.Contains(t, ec.Error(), "2 errors occurred")
}
