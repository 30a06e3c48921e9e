// Package assert implements the runtime's invariant checks.
//
// A failed assertion here means the task state machine has been driven into
// a state its own protocol declares impossible: an event mask that isn't one
// of the three legal values, a signal delivered twice, a Close on a
// non-terminal task. These are programmer errors, not recoverable runtime
// conditions, so they panic the process rather than return an error.
package assert

import "fmt"

// True panics with msg (formatted with args, printf-style) if cond is false.
func True(cond bool, msg string, args ...any) {
	if !cond {
		panic("task: assertion failed: " + fmt.Sprintf(msg, args...))
	}
}

// Fail unconditionally panics with msg (formatted with args, printf-style).
func Fail(msg string, args ...any) {
	panic("task: assertion failed: " + fmt.Sprintf(msg, args...))
}
