package task

import "github.com/mihir-thakkar/task/internal/assert"

// Await bridges a callback-style asynchronous operation into a
// task-synchronous call. fn is invoked once, immediately, with a handler;
// Await returns whatever value the handler is eventually called with,
// whether that happens before fn returns, after it returns, or on a
// completely different goroutine.
//
// Called from within a task, Await suspends only that task while it waits.
// Called from a bare goroutine, Await blocks that goroutine on a channel
// instead; no task bookkeeping is touched.
//
// The handler may fire on any goroutine, before or after Await yields,
// before or after fn even returns. Exactly one resumption results: needSignal
// is set before fn runs, and the handler's haveSignal OR-in, combined with
// suspended eventually being set once the task actually parks, produces a
// ready state exactly one goroutine will successfully CAS out of.
func Await[R any](fn func(handler func(R))) R {
	if t := Current(); t != nil {
		return awaitInTask(t, fn)
	}
	return awaitOutsideTask(fn)
}

func awaitInTask[R any](t *Task, fn func(handler func(R))) R {
	assert.True(stateBits(t.st.Load())&haveSignal == 0,
		"Await called on task %q while a previous signal is still pending", t.name)

	var result R
	t.st.Or(uint32(needSignal))

	fn(func(v R) {
		result = v
		t.handleEvent(haveSignal)
	})

	t.yieldImpl()

	return result
}

func awaitOutsideTask[R any](fn func(handler func(R))) R {
	c := make(chan R, 1)
	fn(func(v R) { c <- v })
	return <-c
}

// AwaitError adapts an (R, error)-shaped completion — the common shape for
// most executor-style async APIs — into a single Await call.
func AwaitError[R any](fn func(handler func(R, error))) (R, error) {
	type pair struct {
		v   R
		err error
	}
	p := Await(func(h func(pair)) {
		fn(func(v R, err error) { h(pair{v, err}) })
	})
	return p.v, p.err
}

// AsyncWaiter is implemented by future-like types that deliver their result
// through a single callback, such as Timer's AsyncWait method restricted to
// the error-only case.
type AsyncWaiter[T any] interface {
	AsyncWait(func(T))
}

// AwaitFuture is a convenience overload of Await for any AsyncWaiter.
func AwaitFuture[T any](w AsyncWaiter[T]) T {
	return Await(w.AsyncWait)
}
