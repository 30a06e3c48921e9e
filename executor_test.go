package task

import (
	"sync"
	"testing"
	"time"
)

func TestExecutorPriorityOrdering(t *testing.T) {
	e := NewExecutor(1)
	defer e.Close()

	block := make(chan struct{})
	e.Post(func() { <-block })

	var mu sync.Mutex
	var order []int
	record := func(p int) func() {
		return func() {
			mu.Lock()
			order = append(order, p)
			mu.Unlock()
		}
	}

	e.PostPriority(1, record(1))
	e.PostPriority(5, record(5))
	e.PostPriority(3, record(3))
	e.PostPriority(5, record(5))

	close(block)

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := len(order)
		mu.Unlock()
		if n == 4 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("queued work never finished draining")
		case <-time.After(time.Millisecond):
		}
	}

	want := []int{5, 5, 3, 1}
	mu.Lock()
	defer mu.Unlock()
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestExecutorDispatchRunsInline(t *testing.T) {
	e := NewExecutor(1)
	defer e.Close()

	var ran bool
	e.Dispatch(func() { ran = true })
	if !ran {
		t.Fatal("Dispatch returned before running its function")
	}
}

func TestWorkGuardReferenceCounted(t *testing.T) {
	e := NewExecutor(1)
	defer e.Close()

	release1 := e.WorkGuard()
	release2 := e.WorkGuard()

	e.mu.Lock()
	if e.guards != 2 {
		e.mu.Unlock()
		t.Fatalf("guards = %d, want 2", e.guards)
	}
	e.mu.Unlock()

	release1()
	release1() // idempotent
	release2()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.guards != 0 {
		t.Fatalf("guards after release = %d, want 0", e.guards)
	}
}

func TestExecutorPendingWorkReflectsQueueDepth(t *testing.T) {
	e := NewExecutor(1)
	defer e.Close()

	block := make(chan struct{})
	e.Post(func() { <-block })

	// Give the single worker a moment to pick up the blocking item so the
	// queue itself, not the in-flight item, is what PendingWork counts.
	time.Sleep(5 * time.Millisecond)

	if n := e.PendingWork(); n != 0 {
		t.Fatalf("PendingWork() = %d before enqueueing extra work, want 0", n)
	}

	const extra = 5
	for i := 0; i < extra; i++ {
		e.Post(func() {})
	}

	if n := e.PendingWork(); n != extra {
		t.Fatalf("PendingWork() = %d, want %d", n, extra)
	}

	if got := e.pq.Peek(); got == nil {
		t.Fatal("Peek() on a non-empty queue returned a nil item")
	}

	close(block)
}

func TestExecutorCloseDrainsPendingWork(t *testing.T) {
	e := NewExecutor(2)

	const n = 20
	var mu sync.Mutex
	ran := 0
	for i := 0; i < n; i++ {
		e.Post(func() {
			mu.Lock()
			ran++
			mu.Unlock()
		})
	}

	e.Close()

	mu.Lock()
	defer mu.Unlock()
	if ran != n {
		t.Fatalf("ran = %d, want %d", ran, n)
	}
}
