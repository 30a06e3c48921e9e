package task_test

import (
	"testing"
	"time"

	"github.com/mihir-thakkar/task"
)

func TestHelloTask(t *testing.T) {
	e := task.NewExecutor(2)
	defer e.Close()

	var ran bool
	tk := task.NewTask(e, func() {
		ran = true
	})
	tk.Join()
	tk.Close()

	if !ran {
		t.Fatal("task body never ran")
	}
}

func TestCurrentInsideTask(t *testing.T) {
	e := task.NewExecutor(2)
	defer e.Close()

	var got *task.Task
	var want *task.Task
	tk := task.NewTask(e, func() {
		got = task.Current()
	})
	want = tk
	tk.Join()
	tk.Close()

	if got != want {
		t.Fatalf("Current() inside task = %v, want %v", got, want)
	}
}

func TestCurrentOutsideTask(t *testing.T) {
	if got := task.Current(); got != nil {
		t.Fatalf("Current() outside any task = %v, want nil", got)
	}
}

func TestTaskNameAndPriority(t *testing.T) {
	e := task.NewExecutor(1)
	defer e.Close()

	done := make(chan struct{})
	tk := task.NewTask(e, func() {
		close(done)
	}, task.WithName("greeter"), task.WithPriority(7))

	if tk.Name() != "greeter" {
		t.Fatalf("Name() = %q, want %q", tk.Name(), "greeter")
	}
	if tk.Priority() != 7 {
		t.Fatalf("Priority() = %d, want 7", tk.Priority())
	}

	tk.SetPriority(3)
	if tk.Priority() != 3 {
		t.Fatalf("Priority() after SetPriority = %d, want 3", tk.Priority())
	}

	<-done
	tk.Join()
	tk.Close()
}

// awaitChan suspends the calling task until v is received from c, without
// ever blocking the task's own dedicated goroutine: the receive happens on
// a throwaway helper goroutine, and the result is bridged back in through
// Await.
func awaitChan[T any](c <-chan T) T {
	return task.Await(func(h func(T)) {
		go func() { h(<-c) }()
	})
}

func TestPingPong(t *testing.T) {
	e := task.NewExecutor(2)
	defer e.Close()

	var trace []string
	pong := make(chan struct{})
	pingDone := make(chan struct{})

	var pongTask *task.Task
	pongTask = task.NewTask(e, func() {
		awaitChan(pong)
		trace = append(trace, "pong")
	})

	ping := task.NewTask(e, func() {
		trace = append(trace, "ping")
		close(pong)
		pongTask.Join()
		close(pingDone)
	})

	<-pingDone
	ping.Join()
	ping.Close()
	pongTask.Close()

	if len(trace) != 2 || trace[0] != "ping" || trace[1] != "pong" {
		t.Fatalf("trace = %v, want [ping pong]", trace)
	}
}

func TestCloseBeforeTerminalPanics(t *testing.T) {
	e := task.NewExecutor(1)
	defer e.Close()

	tk := task.NewTask(e, func() {
		task.Sleep(time.Hour)
	})

	defer func() {
		if recover() == nil {
			t.Fatal("expected Close on a non-terminal task to panic")
		}
		tk.Wake()
		tk.Join()
		tk.Close()
	}()

	tk.Close()
}

func TestManyTasksCompleteViaWaitGroup(t *testing.T) {
	e := task.NewExecutor(4)
	defer e.Close()

	const n = 100
	var wg task.WaitGroup
	wg.Add(n)

	tasks := make([]*task.Task, n)
	for i := 0; i < n; i++ {
		tasks[i] = task.NewTask(e, func() {
			wg.Done()
		})
	}

	done := make(chan struct{})
	waiter := task.NewTask(e, func() {
		wg.Wait()
		close(done)
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("WaitGroup.Wait never observed completion")
	}

	waiter.Join()
	waiter.Close()
	for _, tk := range tasks {
		tk.Join()
		tk.Close()
	}
}
