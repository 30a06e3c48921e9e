package task

import "sync"

// A WaitGroup is a task-aware counter, the same shape as sync.WaitGroup but
// with a Wait method that suspends the calling task instead of blocking its
// goroutine outright.
//
// Grounded on the teacher's WaitGroup (a counter that resumes watchers when
// it reaches zero), rebuilt here on top of a plain callback list instead of
// a Signal/listener map: watchers here are tasks bridging through Await,
// not coroutines watching an Event, so there is no separate listener
// registration step to manage.
//
// A WaitGroup must not be shared by more than one Executor.
type WaitGroup struct {
	mu       sync.Mutex
	n        int
	watchers []func()
}

// Add adds delta, which may be negative, to the counter. If the counter
// reaches zero, every registered watcher runs. Add panics if the counter
// goes negative.
func (wg *WaitGroup) Add(delta int) {
	wg.mu.Lock()
	wg.n += delta
	n := wg.n
	var watchers []func()
	if n == 0 {
		watchers, wg.watchers = wg.watchers, nil
	}
	wg.mu.Unlock()

	if n < 0 {
		panic("task(WaitGroup): negative counter")
	}
	for _, w := range watchers {
		w()
	}
}

// Done decrements the counter by one.
func (wg *WaitGroup) Done() {
	wg.Add(-1)
}

// Wait suspends the calling task (or blocks the calling goroutine, outside
// a task) until the counter reaches zero.
func (wg *WaitGroup) Wait() {
	wg.mu.Lock()
	if wg.n == 0 {
		wg.mu.Unlock()
		return
	}
	wg.mu.Unlock()

	Await(func(h func(struct{})) {
		wg.mu.Lock()
		if wg.n == 0 {
			wg.mu.Unlock()
			h(struct{}{})
			return
		}
		wg.watchers = append(wg.watchers, func() { h(struct{}{}) })
		wg.mu.Unlock()
	})
}
