package controller

import "sync"

// deviceLocks serializes ticks per device: the current-mode read and the
// snapshot write must not interleave for the same device. Ticks for
// different devices run in parallel.
type deviceLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (l *deviceLocks) lock(deviceID string) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	dm, ok := l.m[deviceID]
	if !ok {
		dm = &sync.Mutex{}
		l.m[deviceID] = dm
	}
	l.mu.Unlock()

	dm.Lock()
	return dm.Unlock
}
