package task

import (
	"context"

	xsemaphore "golang.org/x/sync/semaphore"
)

// A Semaphore bounds task-synchronous access to a resource with weighted
// acquire/release, the same contract as the teacher's Semaphore type
// (Acquire returns something that suspends the caller until enough weight
// is free; Release returns it). Instead of the teacher's hand-rolled FIFO
// waiter list, this reuses golang.org/x/sync/semaphore.Weighted's
// context-based blocking acquire, bridged into a task-synchronous call
// through Await.
//
// A Semaphore must not be shared by more than one Executor.
type Semaphore struct {
	w *xsemaphore.Weighted
}

// NewSemaphore creates a new weighted semaphore with the given maximum
// combined weight.
func NewSemaphore(n int64) *Semaphore {
	return &Semaphore{w: xsemaphore.NewWeighted(n)}
}

// Acquire suspends the calling task (or blocks the calling goroutine,
// outside a task) until a weight of n is available, then acquires it.
//
// Acquire never fails in ordinary use since the background context passed
// to the underlying semaphore carries no deadline; it exists as an error
// return only for parity with golang.org/x/sync/semaphore's contract.
func (s *Semaphore) Acquire(n int64) error {
	return Await(func(h func(error)) {
		go func() {
			h(s.w.Acquire(context.Background(), n))
		}()
	})
}

// TryAcquire acquires a weight of n without blocking, reporting whether it
// succeeded.
func (s *Semaphore) TryAcquire(n int64) bool {
	return s.w.TryAcquire(n)
}

// Release releases the semaphore with a weight of n.
func (s *Semaphore) Release(n int64) {
	s.w.Release(n)
}
