package tracker

import (
	"encoding/json"

	"github.com/formpulse/behavior-tracker/internal/util/logger"
	"github.com/formpulse/behavior-tracker/pkg/behavior"
)

// TrackCustomEvent appends an application-triggered event. Custom events
// bypass the form-element filter entirely; a nil target defaults to the
// document root. They are accepted whether or not interaction tracking is
// active.
func (t *Tracker) TrackCustomEvent(name string, data map[string]any, target *behavior.Element) {
	if name == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	el := target
	if el == nil {
		el = &behavior.Element{TagName: "document", Handle: "document"}
	}
	elType := el.Type
	if elType == "" {
		elType = el.TagName
	}

	ev := behavior.Event{
		Type:            name,
		ElementID:       el.ID,
		ElementType:     elType,
		Timestamp:       t.env.Now().UnixMilli(),
		PageURL:         t.env.PagePath(),
		CustomEventName: name,
		CustomData:      data,
	}
	if data != nil {
		if payload, err := json.Marshal(data); err != nil {
			logger.Warn("custom event %q payload not serializable: %v", name, err)
		} else {
			ev.Value = behavior.TextValue(string(payload))
		}
	}
	t.store.Append(ev)
}

// GetCustomEvents returns all application-triggered events in log order.
func (t *Tracker) GetCustomEvents() []behavior.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.customEventsLocked("")
}

// GetCustomEventsByName returns the custom events carrying the given name.
func (t *Tracker) GetCustomEventsByName(name string) []behavior.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.customEventsLocked(name)
}

// GetCustomEventsCount returns how many custom events the log holds.
func (t *Tracker) GetCustomEventsCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.customEventsLocked(""))
}

// GetCustomEventStats summarizes custom events: total, per-name counts and
// the first/last capture times.
func (t *Tracker) GetCustomEventStats() behavior.CustomEventStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := behavior.CustomEventStats{ByName: make(map[string]int)}
	for _, ev := range t.customEventsLocked("") {
		stats.Total++
		stats.ByName[ev.CustomEventName]++
		if stats.FirstAt == 0 || ev.Timestamp < stats.FirstAt {
			stats.FirstAt = ev.Timestamp
		}
		if ev.Timestamp > stats.LastAt {
			stats.LastAt = ev.Timestamp
		}
	}
	return stats
}

// HasCustomEvent reports whether at least one custom event with the given
// name was recorded.
func (t *Tracker) HasCustomEvent(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.customEventsLocked(name)) > 0
}

// GetLastCustomEvent returns the most recent custom event with the given
// name; an empty name matches any custom event.
func (t *Tracker) GetLastCustomEvent(name string) (behavior.Event, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	matches := t.customEventsLocked(name)
	if len(matches) == 0 {
		return behavior.Event{}, false
	}
	return matches[len(matches)-1], true
}

// ClearCustomEvents removes custom events from the log, keeping captured
// interactions, and persists the trimmed snapshot.
func (t *Tracker) ClearCustomEvents() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.store.RemoveCustomEvents()
}

func (t *Tracker) customEventsLocked(name string) []behavior.Event {
	var out []behavior.Event
	for _, ev := range t.store.Events() {
		if !ev.IsCustom() {
			continue
		}
		if name != "" && ev.CustomEventName != name {
			continue
		}
		out = append(out, ev)
	}
	return out
}
