package task

import (
	"runtime"

	"github.com/mihir-thakkar/task/internal/assert"
)

// handleEvent signals one of exactly three events — haveSignal, suspended,
// or terminated — and reacts to whatever state that produces. It is safe to
// call from inside the task itself or from any other goroutine.
func (t *Task) handleEvent(bit stateBits) {
	assert.True(bit == haveSignal || bit == suspended || bit == terminated,
		"handleEvent called with illegal event mask %v", bit)
	for {
		old := stateBits(t.st.Load())
		newv := old | bit
		if !t.st.CompareAndSwap(uint32(old), uint32(newv)) {
			continue
		}
		switch {
		case isReady(newv):
			t.scheduleToRun(newv, false)
		case isTerminal(newv):
			t.fireCompletionHandlers()
		}
		return
	}
}

// scheduleToRun transitions a ready task out of ready state and arranges
// for run to execute, either inline (Dispatch) or queued (Post), depending
// on the calling goroutine's current nesting depth.
func (t *Task) scheduleToRun(observed stateBits, forcePost bool) {
	for {
		if !isReady(observed) {
			return
		}
		newv := observed &^ (suspended | needSignal | haveSignal)
		if t.st.CompareAndSwap(uint32(observed), uint32(newv)) {
			break
		}
		observed = stateBits(t.st.Load())
	}

	run := func() { t.run() }

	if !forcePost {
		loc := currentLocal()
		if loc.depth < MaxNestingDepth {
			loc.depth++
			t.executor.Dispatch(run)
			loc.depth--
			return
		}
	}

	t.post(run)
}

// post enqueues run on t's executor, preserving t's priority when the
// executor is the library's default priority-ordered implementation.
func (t *Task) post(run func()) {
	if pe, ok := t.executor.(*executor); ok {
		pe.PostPriority(t.Priority(), run)
		return
	}
	t.executor.Post(run)
}

// run executes one resumption of the task: it re-acquires the sleep-timer
// lock if it was held across the previous suspension, resumes the task's
// continuation, restores the lock's suspended-across-yield marker if it is
// still held on return, and finally signals suspended.
func (t *Task) run() {
	if stateBits(t.st.Load())&sleepTimerLockSuspend != 0 {
		t.reacquireSleepTimerLockOnResume()
	}

	t.resumeImpl()

	t.releaseSleepTimerLockAcrossSuspend()

	t.handleEvent(suspended)
}

func (t *Task) reacquireSleepTimerLockOnResume() {
	for {
		cur := stateBits(t.st.Load())
		if cur&sleepTimerLock != 0 {
			runtime.Gosched()
			continue
		}
		newv := (cur &^ sleepTimerLockSuspend) | sleepTimerLock
		if t.st.CompareAndSwap(uint32(cur), uint32(newv)) {
			return
		}
	}
}

func (t *Task) releaseSleepTimerLockAcrossSuspend() {
	for {
		cur := stateBits(t.st.Load())
		if cur&sleepTimerLock == 0 {
			return
		}
		newv := (cur &^ sleepTimerLock) | sleepTimerLockSuspend
		if t.st.CompareAndSwap(uint32(cur), uint32(newv)) {
			return
		}
	}
}

// resumeImpl transfers control into the task's paused continuation and
// blocks until it yields (or terminates) again.
func (t *Task) resumeImpl() {
	t.self = t.self.Resume()
}

// yieldImpl runs on the task's own dedicated goroutine. It hands control
// back to whichever goroutine most recently resumed the task, and blocks
// until it is resumed again. If the resumer set stackTrace in the interim,
// yieldImpl captures a trace of this goroutine and immediately yields once
// more, so the task still looks suspended from the scheduler's point of
// view.
func (t *Task) yieldImpl() {
	for {
		t.parent = t.parent.Resume()
		if stateBits(t.st.Load())&stackTrace == 0 {
			return
		}
		t.captureStackTrace()
	}
}

// Yield cooperatively suspends the calling task, letting other work run on
// its executor, then resumes. Outside a task, Yield falls back to
// runtime.Gosched.
//
// The suspended event that makes this task eligible to run again is signaled
// by run, once resumeImpl observes that the task has actually parked —
// never by the task itself, since a task cannot know it has parked until
// the goroutine that resumed it regains control.
func Yield() {
	t := Current()
	if t == nil {
		runtime.Gosched()
		return
	}
	t.yieldImpl()
}

func (t *Task) fireCompletionHandlers() {
	handlers := t.drainCompletionHandlers()
	for _, h := range handlers {
		h()
	}
}

func (t *Task) drainCompletionHandlers() []func() {
	spinLock(&t.st, completionHandlersLock)
	handlers := t.completionHandlers
	t.completionHandlers = nil
	spinUnlock(&t.st, completionHandlersLock)
	return handlers
}

// CallWhenDone registers h to run when t reaches terminal state. If t is
// already terminal, h runs immediately, on the calling goroutine.
func (t *Task) CallWhenDone(h func()) {
	if h == nil {
		return
	}

	spinLock(&t.st, completionHandlersLock)
	term := isTerminal(stateBits(t.st.Load()))
	if !term {
		t.completionHandlers = append(t.completionHandlers, h)
	}
	spinUnlock(&t.st, completionHandlersLock)

	if term {
		h()
	}
}

// Join blocks, task-synchronously, until t reaches terminal state. Called
// from within a task, this suspends only that task; called from a bare
// goroutine, it blocks the goroutine (see Await).
func (t *Task) Join() {
	if isTerminal(stateBits(t.st.Load())) {
		return
	}
	Await(func(h func(struct{})) {
		t.CallWhenDone(func() { h(struct{}{}) })
	})
}

func assertTerminal(t *Task) {
	assert.True(isTerminal(stateBits(t.st.Load())), "Close called on a non-terminal task (id=%d)", t.id)
}
