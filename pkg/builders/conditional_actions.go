package builders

import (
	"fmt"

	"github.com/anggasct/fluo/pkg/core"
)

// And combines guards so the transition only fires when every one of them
// returns true. An empty list is vacuously true.
func And(guards ...core.GuardFunc) core.GuardFunc {
	return func(event core.Event, context any) bool {
		for _, g := range guards {
			if !g(event, context) {
				return false
			}
		}
		return true
	}
}

// Or combines guards so the transition fires when any one of them returns
// true. An empty list is vacuously false.
func Or(guards ...core.GuardFunc) core.GuardFunc {
	return func(event core.Event, context any) bool {
		for _, g := range guards {
			if g(event, context) {
				return true
			}
		}
		return false
	}
}

// Not negates a guard.
func Not(guard core.GuardFunc) core.GuardFunc {
	return func(event core.Event, context any) bool {
		return !guard(event, context)
	}
}

// LogAction returns a transition action that prints message and reports
// ActionOK, useful for sketching a machine before wiring real behavior.
func LogAction(message string) core.TransitionFunc {
	return func(event core.Event, context any, target *core.State) core.ActionResult {
		fmt.Println(message)
		return core.ActionOK
	}
}
