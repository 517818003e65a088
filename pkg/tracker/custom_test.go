package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/formpulse/behavior-tracker/pkg/behavior"
)

func TestTrackCustomEventConversion(t *testing.T) {
	env := newEnv()
	tr := newTracker(env)

	tr.TrackCustomEvent("conversion", map[string]any{"value": 150.0}, nil)

	events := tr.GetCustomEventsByName("conversion")
	require.Len(t, events, 1)
	ev := events[0]
	require.Equal(t, "conversion", ev.Type)
	require.Equal(t, "conversion", ev.CustomEventName)
	require.Equal(t, 150.0, ev.CustomData["value"])
	require.Equal(t, "document", ev.ElementType, "nil target defaults to the document root")
	require.Equal(t, t0.UnixMilli(), ev.Timestamp)
	require.NotNil(t, ev.Value)
	require.JSONEq(t, `{"value":150}`, ev.Value.String())
}

func TestTrackCustomEventEmptyNameIgnored(t *testing.T) {
	env := newEnv()
	tr := newTracker(env)

	tr.TrackCustomEvent("", map[string]any{"value": 1}, nil)
	require.Zero(t, tr.GetCustomEventsCount())
	require.Empty(t, tr.GetEvents())
}

func TestTrackCustomEventAcceptedWhileIdleAndTracking(t *testing.T) {
	env := newEnv()
	tr := newTracker(env)

	tr.TrackCustomEvent("step-viewed", nil, nil) // idle
	tr.StartTracking(false)
	tr.TrackCustomEvent("step-viewed", nil, nil) // tracking

	require.Equal(t, 2, tr.GetCustomEventsCount())
}

func TestTrackCustomEventWithExplicitTarget(t *testing.T) {
	env := newEnv()
	tr := newTracker(env)

	tr.TrackCustomEvent("promo-applied", nil, &behavior.Element{
		ID: "promo-code", TagName: "input", Type: "text",
	})

	ev, ok := tr.GetLastCustomEvent("promo-applied")
	require.True(t, ok)
	require.Equal(t, "promo-code", ev.ElementID)
	require.Equal(t, "text", ev.ElementType)
	require.Nil(t, ev.Value, "no payload, no serialized value")
}

func TestCustomEventQueries(t *testing.T) {
	env := newEnv()
	tr := newTracker(env)

	tr.TrackCustomEvent("step-viewed", map[string]any{"step": 1.0}, nil)
	env.Advance(time.Second)
	tr.TrackCustomEvent("step-viewed", map[string]any{"step": 2.0}, nil)
	env.Advance(time.Second)
	tr.TrackCustomEvent("conversion", map[string]any{"value": 150.0}, nil)

	require.Equal(t, 3, tr.GetCustomEventsCount())
	require.Len(t, tr.GetCustomEvents(), 3)
	require.Len(t, tr.GetCustomEventsByName("step-viewed"), 2)
	require.Empty(t, tr.GetCustomEventsByName("refund"))

	require.True(t, tr.HasCustomEvent("conversion"))
	require.False(t, tr.HasCustomEvent("refund"))

	last, ok := tr.GetLastCustomEvent("step-viewed")
	require.True(t, ok)
	require.Equal(t, 2.0, last.CustomData["step"])

	// Empty name matches any custom event.
	last, ok = tr.GetLastCustomEvent("")
	require.True(t, ok)
	require.Equal(t, "conversion", last.CustomEventName)

	_, ok = tr.GetLastCustomEvent("refund")
	require.False(t, ok)
}

func TestCustomEventStats(t *testing.T) {
	env := newEnv()
	tr := newTracker(env)

	tr.TrackCustomEvent("step-viewed", nil, nil)
	env.Advance(2 * time.Second)
	tr.TrackCustomEvent("conversion", nil, nil)

	stats := tr.GetCustomEventStats()
	require.Equal(t, 2, stats.Total)
	require.Equal(t, map[string]int{"step-viewed": 1, "conversion": 1}, stats.ByName)
	require.Equal(t, t0.UnixMilli(), stats.FirstAt)
	require.Equal(t, t0.Add(2*time.Second).UnixMilli(), stats.LastAt)
}

func TestCustomEventsCountedOnceInMetrics(t *testing.T) {
	env := newEnv()
	tr := newTracker(env)
	tr.StartTracking(false)

	tr.TrackCustomEvent("conversion", nil, nil)

	m := tr.GetMetrics()
	require.Equal(t, 1, m.CustomEventCount)
	require.Zero(t, m.FieldChanges)
	require.Zero(t, m.FieldInteractions)
}

func TestClearCustomEventsKeepsInteractions(t *testing.T) {
	env := newEnv()
	tr := newTracker(env)
	tr.StartTracking(false)

	env.Dispatch(behavior.EventFocus, behavior.RawEvent{Target: field("email", "")})
	tr.TrackCustomEvent("step-viewed", nil, nil)
	tr.TrackCustomEvent("conversion", nil, nil)

	tr.ClearCustomEvents()

	require.Zero(t, tr.GetCustomEventsCount())
	events := tr.GetEvents()
	require.Len(t, events, 1)
	require.Equal(t, behavior.EventFocus, events[0].Type)

	// The trimmed log is what a reconstructed tracker sees.
	rebuilt := newTracker(env)
	require.Len(t, rebuilt.GetEvents(), 1)
}

func TestCustomEventsSurviveReconstruction(t *testing.T) {
	env := newEnv()
	tr := newTracker(env)
	tr.TrackCustomEvent("conversion", map[string]any{"value": 150.0, "plan": "pro"}, nil)

	rebuilt := newTracker(env)
	ev, ok := rebuilt.GetLastCustomEvent("conversion")
	require.True(t, ok)
	require.Equal(t, 150.0, ev.CustomData["value"])
	require.Equal(t, "pro", ev.CustomData["plan"])
}
