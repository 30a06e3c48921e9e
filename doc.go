// Package task implements a user-space cooperative task runtime.
//
// A Task is a lightweight fiber: a function running on its own dedicated
// goroutine that can voluntarily suspend — by yielding, sleeping, or
// awaiting a callback-style asynchronous completion — and later resume,
// without ever blocking the goroutine that resumes it for longer than a
// single scheduling hop.
//
// # Constructing and Running Tasks
//
// NewTask starts a task bound to an Executor, an external collaborator
// responsible for actually running work on operating-system threads. The
// package ships a usable default Executor (NewExecutor), but any type
// satisfying the Executor interface — a priority-ordered pool, a
// single-threaded event loop, an adapter over some other async runtime —
// works equally well.
//
//	e := task.NewExecutor(0)
//	t := task.NewTask(e, func() {
//		for i := 0; i < 3; i++ {
//			task.Sleep(time.Second)
//			fmt.Println("tick", i)
//		}
//	})
//	t.Join()
//	t.Close()
//
// # Bridging Callback Asynchrony
//
// Await converts a "give me a handler" style asynchronous call into a
// straight-line, synchronous-looking call inside a task body:
//
//	result := task.Await(func(h func(int)) {
//		go func() { h(computeSomething()) }()
//	})
//
// The handler may fire on any goroutine, before or after Await's caller
// yields. The task resumes exactly once, no matter when it fires.
//
// # Suspension Is Not Blocking
//
// Only Yield, Sleep, Await, and a task's own return suspend it. Everywhere
// else, a task's body runs like ordinary synchronous Go code: at most one
// goroutine is ever executing inside a given task at a time. What makes
// this possible in Go, where user code cannot swap a running goroutine's
// stack, is internal/continuation: each task owns a dedicated goroutine
// parked on a channel, and "resuming" a task is a rendezvous handoff to
// that goroutine rather than a stack switch.
//
// # Diagnostics
//
// BacktraceAll captures a stack trace of every live, safely-pausable task,
// without racing any of them — useful for debugging a stuck task the same
// way one might dump goroutine stacks in a deadlocked program.
package task
