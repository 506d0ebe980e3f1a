package timeutil

import (
	"testing"
	"time"
)

func TestRealClock(t *testing.T) {
	var clock Clock = RealClock{}
	before := time.Now()
	now := clock.Now()
	after := time.Now()
	if now.Before(before) || now.After(after) {
		t.Errorf("Now() = %v, expected between %v and %v", now, before, after)
	}

	if d := clock.Since(time.Now().Add(-time.Second)); d < time.Second {
		t.Errorf("Since() returned %v, expected >= 1s", d)
	}
}

func TestMockClock(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var clock Clock = NewMockClock(start)
	mock := clock.(*MockClock)

	if got := clock.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}

	mock.Advance(90 * time.Second)
	if got := clock.Since(start); got != 90*time.Second {
		t.Errorf("Since() = %v after Advance, want 90s", got)
	}

	later := start.Add(time.Hour)
	mock.Set(later)
	if got := clock.Now(); !got.Equal(later) {
		t.Errorf("Now() = %v after Set, want %v", got, later)
	}
}
