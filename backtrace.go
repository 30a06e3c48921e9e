package task

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// captureStackTrace runs on the task's own goroutine, in response to
// StackTrace having been set by tryDumpStackTrace. It records a snapshot of
// this goroutine's stack for the requester to pick up once the task yields
// back out.
func (t *Task) captureStackTrace() {
	buf := make([]byte, 8192)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, len(buf)*2)
	}
	t.stackTrace = buf
}

// tryDumpStackTrace attempts to capture a trace of t without racing it. It
// reports false if t is currently running, ready, terminal, or a capture is
// already outstanding — in all of those cases either the attempt is unsafe
// or redundant.
func tryDumpStackTrace(t *Task) (trace string, ok bool) {
	old := stateBits(t.st.Load())
	switch {
	case isRunning(old):
		return "", false
	case isTerminal(old):
		return "", false
	case old&stackTrace != 0:
		return "", false
	case isReady(old):
		return "", false
	}

	if !t.st.CompareAndSwap(uint32(old), uint32(old|stackTrace)) {
		return "", false
	}

	t.resumeImpl()

	buf := t.stackTrace
	t.stackTrace = nil

	info := t.debugInfo
	if info != "" {
		trace = fmt.Sprintf("task %d (%s) [%s]:\n%s", t.id, t.name, info, buf)
	} else {
		trace = fmt.Sprintf("task %d (%s):\n%s", t.id, t.name, buf)
	}

	slog.Debug("task backtrace captured", "id", t.id, "name", t.name, "trace", trace)

	for {
		cur := stateBits(t.st.Load())
		newv := cur &^ stackTrace
		if !t.st.CompareAndSwap(uint32(cur), uint32(newv)) {
			continue
		}
		if isReady(newv) {
			// forcePost: the caller very likely holds globalMu (BacktraceAll)
			// and must not risk an inline Dispatch reentering here.
			t.scheduleToRun(newv, true)
		}
		break
	}

	return trace, true
}

// BacktraceAll captures and returns a diagnostic trace for every live task
// that can be safely paused, in registration order.
func BacktraceAll() string {
	var b strings.Builder

	globalMu.Lock()
	defer globalMu.Unlock()

	for e := globalList.Front(); e != nil; e = e.Next() {
		if trace, ok := tryDumpStackTrace(e.Value.(*Task)); ok {
			b.WriteString(trace)
			b.WriteByte('\n')
		}
	}

	return b.String()
}
