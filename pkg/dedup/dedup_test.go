package dedup

import (
	"fmt"
	"testing"
	"time"
)

func windowAt(ttl time.Duration, cap int, clock *time.Time) *Window {
	w := NewWindow(ttl, cap)
	w.now = func() time.Time { return *clock }
	return w
}

func TestRepeatedFingerprintIsSeen(t *testing.T) {
	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	w := windowAt(time.Minute, 100, &clock)

	if w.Observe("a") {
		t.Fatalf("first occurrence must not count as seen")
	}
	if !w.Observe("a") {
		t.Fatalf("redelivery must count as seen")
	}
	if w.Observe("b") {
		t.Fatalf("distinct fingerprint must not count as seen")
	}
}

func TestBlankFingerprintIsNeverTracked(t *testing.T) {
	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	w := windowAt(time.Minute, 100, &clock)
	if w.Observe("") || w.Observe("") {
		t.Fatalf("blank fingerprints are never deduplicated")
	}
}

func TestExpiredFingerprintIsForgotten(t *testing.T) {
	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	w := windowAt(time.Minute, 100, &clock)

	w.Observe("a")
	clock = clock.Add(2 * time.Minute)
	if w.Observe("a") {
		t.Fatalf("fingerprint past its ttl must not count as seen")
	}
}

func TestCapEvictsOldestLiveEntry(t *testing.T) {
	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	w := windowAt(time.Hour, 3, &clock)

	for i := 0; i < 3; i++ {
		w.Observe(fmt.Sprintf("fp-%d", i))
		clock = clock.Add(time.Second)
	}
	// A fourth entry must push out fp-0, the oldest live one.
	w.Observe("fp-3")
	if w.Observe("fp-0") {
		t.Fatalf("oldest entry should have been evicted at cap")
	}
	if !w.Observe("fp-3") {
		t.Fatalf("newest entry must survive the eviction")
	}
}
