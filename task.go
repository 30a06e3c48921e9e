package task

import (
	"container/list"
	"runtime"
	"sync/atomic"

	"github.com/mihir-thakkar/task/internal/continuation"
	"github.com/mihir-thakkar/task/internal/gls"
)

var nextID atomic.Uint64

// A Task is a cooperative execution context: a user function running on its
// own dedicated goroutine, which can voluntarily suspend (Yield, Sleep,
// Await) and later resume, without ever exposing that goroutine directly to
// its caller.
//
// A Task must be constructed with NewTask. The zero Task is not usable.
type Task struct {
	id       uint64
	name     string
	executor Executor
	priority atomic.Int64

	st state

	// self is written once by NewTask and afterwards only by resumeImpl, on
	// whichever goroutine currently holds the right to resume this task.
	// parent is written only on this task's own dedicated goroutine, by entry
	// and then by yieldImpl. Invariant 6 (at
	// most one concurrent resumption) is what makes both of these safe
	// without an additional lock.
	self   continuation.Continuation
	parent continuation.Continuation

	body         func()
	stackHint    int
	releaseGuard func()
	stackBase    int

	// sleepTimer is guarded by the sleepTimerLock bit in st.
	sleepTimer Timer

	// completionHandlers is guarded by the completionHandlersLock bit in st.
	completionHandlers []func()

	// stackTrace is written only by this task's own goroutine during a
	// diagnostic capture, and read by tryDumpStackTrace once that capture
	// has yielded back, while the stackTrace bit is still set. debugInfo is
	// written by SetDebugInfo and read by tryDumpStackTrace.
	stackTrace []byte
	debugInfo  string

	elem *list.Element
}

// NewTask creates a Task bound to executor, running body on its own
// goroutine, and schedules its first run.
//
// NewTask blocks until the new task's prologue has run and yielded back,
// then schedules the first resumption through scheduleToRun. That normally
// goes through executor's Dispatch; with an Executor whose Dispatch runs
// inline, such as the default one, body runs until its first suspension
// point before NewTask returns.
func NewTask(executor Executor, body func(), opts ...Option) *Task {
	if executor == nil {
		panic("task: NewTask called with a nil Executor")
	}
	if body == nil {
		panic("task: NewTask called with a nil body")
	}

	o := options{
		name:      "(anonymous)",
		stackHint: DefaultStackHint,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasPrio {
		if cur := Current(); cur != nil {
			o.priority = cur.Priority() + 100
		}
	}

	t := &Task{
		id:        nextID.Add(1),
		name:      o.name,
		executor:  executor,
		body:      body,
		stackHint: o.stackHint,
	}
	t.priority.Store(int64(o.priority))
	t.st.Store(uint32(suspended))

	t.self = continuation.New(o.stackHint, t.entry)

	registerTask(t)
	t.handleEvent(suspended)

	return t
}

// entry is the body of the task's dedicated goroutine, from the moment it
// is started until the moment the task terminates.
func (t *Task) entry(parent continuation.Continuation) {
	id := gls.Current()
	defer id.Clear()
	currentLocal().task = t

	t.parent = parent
	t.releaseGuard = t.executor.WorkGuard()
	t.stackBase = stackSample()

	t.yieldImpl()

	func() {
		defer func() {
			if r := recover(); r != nil {
				logPanic(t, r)
			}
		}()
		t.body()
	}()

	t.releaseGuard()
	t.handleEvent(terminated)
	t.parent.Exit()
}

// ID returns the task's process-unique, monotonically assigned identifier.
func (t *Task) ID() uint64 { return t.id }

// Name returns the task's human-readable name.
func (t *Task) Name() string { return t.name }

// Executor returns the Executor this task was bound to at construction.
func (t *Task) Executor() Executor { return t.executor }

// Priority returns the task's current priority. Priority is advisory
// metadata: the runtime never reads it, though the default Executor uses it
// to order its ready queue.
func (t *Task) Priority() int { return int(t.priority.Load()) }

// SetPriority updates the task's priority for future scheduling decisions.
func (t *Task) SetPriority(p int) { t.priority.Store(int64(p)) }

// SetDebugInfo attaches an arbitrary string that BacktraceAll includes
// alongside this task's captured stack trace. Typically used to record
// what a task is logically doing, independent of where its Go call stack
// currently sits.
func (t *Task) SetDebugInfo(s string) { t.debugInfo = s }

// StackPos estimates how much deeper the task's goroutine stack is now than
// at the baseline captured when the task started. Go provides no portable
// way to read a goroutine's actual stack pointer, so the value is the growth
// in length, in bytes, of the goroutine's formatted runtime.Stack trace
// (sampled into a 4 KiB buffer), not a count of stack memory. Meaningful
// only when called from within the task's own body.
func (t *Task) StackPos() int {
	d := stackSample() - t.stackBase
	if d < 0 {
		return 0
	}
	return d
}

func stackSample() int {
	var buf [4096]byte
	return runtime.Stack(buf[:], false)
}

// Close releases t. t must be terminal; Close panics otherwise.
//
// Close is the idiomatic analogue of the original library's destructor: it
// asserts the task has run to completion and unlinks it from the global
// task list. A Task must not be used after Close.
func (t *Task) Close() {
	assertTerminal(t)
	unregisterTask(t)
}
