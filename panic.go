package task

import (
	"log/slog"
	"runtime/debug"
)

// logPanic records an unrecovered panic from a task's body. The panic is
// swallowed here: the task still terminates cleanly, its completion
// handlers still fire, and Join still succeeds. An unrecovered panic on a
// task's dedicated goroutine must not crash the process or leak the
// goroutine the way an unrecovered panic on a bare goroutine would.
func logPanic(t *Task, r any) {
	slog.Error("task body panicked",
		"id", t.id,
		"name", t.name,
		"panic", r,
		"stack", string(debug.Stack()),
	)
}
