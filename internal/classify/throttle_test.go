package classify

import (
	"testing"
	"time"
)

func TestThrottleAdmitsFirstEvent(t *testing.T) {
	th := NewThrottle(100 * time.Millisecond)
	if !th.TryAdmit(time.Now()) {
		t.Fatal("first event must be admitted")
	}
}

func TestThrottleDropsInsideWindow(t *testing.T) {
	th := NewThrottle(100 * time.Millisecond)
	now := time.UnixMilli(0)

	if !th.TryAdmit(now) {
		t.Fatal("first event must be admitted")
	}
	for _, offset := range []time.Duration{10, 50, 99} {
		if th.TryAdmit(now.Add(offset * time.Millisecond)) {
			t.Fatalf("event at +%v must be dropped", offset*time.Millisecond)
		}
	}
	if !th.TryAdmit(now.Add(100 * time.Millisecond)) {
		t.Fatal("event at window edge must be admitted")
	}
}

func TestThrottleDroppedEventsDoNotExtendWindow(t *testing.T) {
	th := NewThrottle(100 * time.Millisecond)
	now := time.UnixMilli(0)

	th.TryAdmit(now)
	th.TryAdmit(now.Add(90 * time.Millisecond)) // dropped, not queued
	if !th.TryAdmit(now.Add(110 * time.Millisecond)) {
		t.Fatal("window must be measured from the last admission, not the last attempt")
	}
}

func TestThrottleResetReopensWindow(t *testing.T) {
	th := NewThrottle(time.Hour)
	now := time.Now()

	th.TryAdmit(now)
	th.Reset()
	if !th.TryAdmit(now.Add(time.Millisecond)) {
		t.Fatal("reset throttle must admit immediately")
	}
}

func TestZeroIntervalDisablesThrottling(t *testing.T) {
	th := NewThrottle(0)
	now := time.Now()
	for i := 0; i < 5; i++ {
		if !th.TryAdmit(now) {
			t.Fatal("zero interval must admit everything")
		}
	}
}
