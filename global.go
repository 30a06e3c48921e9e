package task

import (
	"container/list"
	"sync"
)

var (
	globalMu   sync.Mutex
	globalList list.List
)

func registerTask(t *Task) {
	globalMu.Lock()
	t.elem = globalList.PushBack(t)
	globalMu.Unlock()
}

func unregisterTask(t *Task) {
	globalMu.Lock()
	if t.elem != nil {
		globalList.Remove(t.elem)
		t.elem = nil
	}
	globalMu.Unlock()
}
