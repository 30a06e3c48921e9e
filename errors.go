package task

import "errors"

// ErrTimerCanceled is delivered to a Timer's AsyncWait handler when Cancel
// fires before expiry. Sleep surfaces this directly as its return value.
var ErrTimerCanceled = errors.New("task: timer canceled")

var errNoTimerToCancel = errors.New("task: no timer to cancel")

// ErrClosed identifies use of a Task after Close. No function in this
// package returns it; operations on a closed Task are not checked.
var ErrClosed = errors.New("task: use of closed task")
