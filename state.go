package task

import (
	"runtime"
	"sync/atomic"
)

// state is the atomic bitset backing a Task's lifecycle and signal handshake.
type state = atomic.Uint32

// stateBits is the type of a single state transition mask, and of the state
// word itself once loaded out of the atomic.
type stateBits uint32

// The bits of a Task's state word. Every transition goes through one of the
// atomic operations below; none of these are ever combined with a plain
// non-atomic read-modify-write.
const (
	// needSignal is set when the task has entered Await and is waiting for
	// its handler to fire.
	needSignal stateBits = 1 << iota

	// haveSignal is set once the Await handler has fired. Pairs with
	// needSignal to mark readiness.
	haveSignal

	// suspended is set while the task is not executing; its continuation is
	// parked in Task.self.
	suspended

	// terminated is set once the task's body has returned. It never runs
	// again.
	terminated

	// stackTrace requests that the task capture a stack trace the next time
	// it resumes, then immediately yield back.
	stackTrace

	// sleepTimerLock is the spinlock bit serializing access to sleepTimer.
	sleepTimerLock

	// completionHandlersLock is the spinlock bit serializing access to
	// completionHandlers.
	completionHandlersLock

	// sleepTimerLockSuspend records that sleepTimerLock was held when the
	// task suspended. A task must never suspend while holding a spinlock, so
	// the lock is released across the suspension and this bit marks that it
	// must be re-acquired on resume.
	sleepTimerLockSuspend

	// numStateFlags is the number of flags defined above. Diagnostic
	// printers use it to size their bit string; it is not itself a flag.
	numStateFlags = iota
)

// isRunning reports whether s is not a suspended state.
func isRunning(s stateBits) bool {
	return s&suspended == 0
}

// isReady reports whether s is suspended but eligible to run: not
// terminated, not mid stack-trace capture, and either not waiting on a
// signal at all or waiting on one that has already arrived.
func isReady(s stateBits) bool {
	if s&(suspended|terminated) != suspended {
		return false
	}
	if s&stackTrace != 0 {
		return false
	}
	sig := s & (needSignal | haveSignal)
	return sig == 0 || sig == needSignal|haveSignal
}

// isTerminal reports whether s represents a fully terminated task.
func isTerminal(s stateBits) bool {
	return s&(suspended|terminated) == suspended|terminated
}

// spinLock acquires the given lock bit, spinning (yielding the goroutine
// between attempts) until it succeeds. It is not recursive. mask must be one
// of sleepTimerLock or completionHandlersLock.
func spinLock(st *state, mask stateBits) stateBits {
	for {
		prior := stateBits(st.Or(uint32(mask)))
		if prior&mask == 0 {
			return prior
		}
		runtime.Gosched()
	}
}

// spinUnlock releases the given lock bit. The caller must currently hold it.
func spinUnlock(st *state, mask stateBits) {
	st.And(uint32(^mask))
}

// String renders s as a fixed-width string of numStateFlags bits, most
// significant flag first, matching the layout used by diagnostic dumps.
func (s stateBits) String() string {
	buf := make([]byte, numStateFlags)
	for i := range buf {
		bit := stateBits(1) << (numStateFlags - 1 - i)
		if s&bit != 0 {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}
