package task

import "github.com/mihir-thakkar/task/internal/gls"

// local is the per-goroutine record backing Current, CurrentPriority, and
// the Dispatch/Post nesting bound.
//
// current is set exactly once, at the entry of a task's dedicated
// goroutine, and never touched by any other goroutine: unlike the original
// C++ implementation, resuming a task in this port always hands control to
// a genuinely different goroutine (see internal/continuation), so there is
// no single call site to bracket a "current task" value around. depth, in
// contrast, is bracketed dynamically around every inline Dispatch, because
// that operation — unlike a task resumption — really does stay on one
// goroutine for its whole duration.
type local struct {
	task  *Task
	depth int
}

func currentLocal() *local {
	id := gls.Current()
	if v, ok := id.Load().(*local); ok {
		return v
	}
	v := &local{}
	id.Store(v)
	return v
}

// Current returns the Task running on the calling goroutine, or nil if the
// calling goroutine is not a task's dedicated goroutine.
func Current() *Task {
	return currentLocal().task
}

// CurrentPriority returns Current().Priority(), or 0 if there is no current
// task.
func CurrentPriority() int {
	if t := Current(); t != nil {
		return t.Priority()
	}
	return 0
}
