// Package dedup recognizes redelivered bus messages by fingerprint.
package dedup

import (
	"sync"
	"time"
)

// Window tracks message fingerprints for a bounded period. Memory is capped:
// when the cap is reached, expired entries are evicted first and the oldest
// live entry goes next.
type Window struct {
	mu      sync.Mutex
	ttl     time.Duration
	cap     int
	expires map[string]time.Time
	now     func() time.Time
}

func NewWindow(ttl time.Duration, cap int) *Window {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if cap <= 0 {
		cap = 10000
	}
	return &Window{
		ttl:     ttl,
		cap:     cap,
		expires: make(map[string]time.Time, cap),
		now:     time.Now,
	}
}

// Observe records fp and reports whether it was already seen inside the
// window. Blank fingerprints are never tracked and never count as seen.
func (w *Window) Observe(fp string) bool {
	if fp == "" {
		return false
	}
	now := w.now()
	w.mu.Lock()
	defer w.mu.Unlock()

	if exp, ok := w.expires[fp]; ok && now.Before(exp) {
		return true
	}
	if len(w.expires) >= w.cap {
		w.evict(now)
	}
	w.expires[fp] = now.Add(w.ttl)
	return false
}

func (w *Window) evict(now time.Time) {
	var oldest string
	var oldestExp time.Time
	for fp, exp := range w.expires {
		if !now.Before(exp) {
			delete(w.expires, fp)
			continue
		}
		if oldest == "" || exp.Before(oldestExp) {
			oldest, oldestExp = fp, exp
		}
	}
	if len(w.expires) >= w.cap && oldest != "" {
		delete(w.expires, oldest)
	}
}
