// Package continuation implements the runtime's one unavoidable low-level
// dependency: a stack-switching primitive in the spirit of callcc/resume.
//
// Go gives user code no way to swap the stack pointer of a running thread,
// so there is no direct translation of a stackful-coroutine library here.
// Instead, a Continuation is a goroutine parked on a channel, and Resume is
// a rendezvous that hands control to that goroutine and blocks the caller
// until it is handed back — the same "special channel that always has a
// goroutine blocked on it" model the Go runtime itself uses internally for
// range-over-func coroutines. Exactly one side of any given handoff is ever
// runnable at a time, which is all the contract in package task requires.
package continuation

// A Continuation is an opaque handle to a paused goroutine. The zero value
// is the empty continuation: it represents no paused goroutine, and Resuming
// it panics.
type Continuation struct {
	c chan Continuation
}

// IsEmpty reports whether c is the empty (terminal) continuation.
func (c Continuation) IsEmpty() bool {
	return c.c == nil
}

// Resume transfers control to the goroutine paused at c, and blocks the
// calling goroutine until that goroutine, in turn, calls Resume (or Exit) on
// the continuation representing this call.
//
// Resume returns the continuation representing the point from which control
// was eventually handed back — Resuming that value continues where this
// call left off.
func (c Continuation) Resume() Continuation {
	if c.IsEmpty() {
		panic("continuation: Resume called on the empty continuation")
	}

	here := Continuation{c: make(chan Continuation)}
	c.c <- here
	return <-here.c
}

// Exit transfers control to the goroutine paused at c, the same as Resume,
// but does not park the caller — the caller must not run again on this
// continuation chain afterward. It is used to unwind the last frame of a
// goroutine started with New, once its entry function has returned for
// good.
func (c Continuation) Exit() {
	if c.IsEmpty() {
		panic("continuation: Exit called on the empty continuation")
	}
	c.c <- Continuation{}
}

// New starts a new goroutine and immediately enters entry on it, passing a
// continuation representing the calling goroutine (resuming it transfers
// control back here). New blocks until entry, directly or transitively,
// resumes that continuation, and returns the continuation representing the
// new goroutine's paused point at that moment.
//
// stackHint is advisory sizing information carried through for API parity
// with the stack-size configuration of a native stack-switching primitive;
// Go goroutine stacks grow on demand and stackHint does not change that.
func New(stackHint int, entry func(parent Continuation)) Continuation {
	_ = stackHint

	caller := Continuation{c: make(chan Continuation)}

	go func() {
		entry(caller)
	}()

	return <-caller.c
}
