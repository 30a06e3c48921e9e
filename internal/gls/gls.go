// Package gls provides goroutine-local storage.
//
// The task runtime needs a handful of values — the currently running Task,
// the inline-dispatch nesting counter — that must be scoped to whichever
// goroutine is asking, the same way a thread-local variable would be scoped
// to an OS thread in a non-Go implementation. Go has no public API for this,
// so this package derives a goroutine identity from the header line of
// runtime.Stack and keys a map on it.
//
// This trades some speed for portability: an unsafe, linkname-based
// approach (reading runtime.g directly, as some coroutine libraries do) is
// faster but depends on runtime-internal struct layouts that change across
// Go versions and architectures.
package gls

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

var (
	mu    sync.RWMutex
	state = map[int64]any{}
)

// ID is the identity of a goroutine, valid for as long as that goroutine is
// alive.
type ID int64

// Current returns the identity of the calling goroutine.
func Current() ID {
	return ID(goroutineID())
}

// Load loads the goroutine-local value most recently stored by this
// goroutine, or nil if none has been stored.
func (id ID) Load() any {
	mu.RLock()
	v := state[int64(id)]
	mu.RUnlock()
	return v
}

// Store stores a goroutine-local value for this goroutine.
func (id ID) Store(v any) {
	mu.Lock()
	state[int64(id)] = v
	mu.Unlock()
}

// Clear removes the goroutine-local value stored for this goroutine, if any.
func (id ID) Clear() {
	mu.Lock()
	delete(state, int64(id))
	mu.Unlock()
}

// goroutineID extracts the numeric id from the "goroutine N [state]:" header
// that runtime.Stack always writes as its first line.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(b, []byte(prefix)) {
		panic("gls: unexpected runtime.Stack format: " + string(b))
	}
	b = b[len(prefix):]

	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}

	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		panic("gls: unexpected runtime.Stack format: " + err.Error())
	}
	return id
}
