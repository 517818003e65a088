package aggregate

import (
	"time"

	"github.com/formpulse/behavior-tracker/pkg/behavior"
)

// Reduce folds the event log into counters in a single pass. TimeSpent is
// wall-clock elapsed time since tracking start, recomputed per call. Custom
// events are counted once, by their tag, regardless of the type string they
// carry.
func Reduce(events []behavior.Event, startTime, now time.Time) behavior.Metrics {
	m := behavior.Metrics{TimeSpent: now.Sub(startTime).Milliseconds()}

	for i := range events {
		ev := &events[i]
		if ev.IsCustom() {
			m.CustomEventCount++
			continue
		}
		switch ev.Type {
		case behavior.EventFocus:
			m.FocusCount++
			m.FieldInteractions++
		case behavior.EventBlur:
			m.BlurCount++
			m.FieldInteractions++
		case behavior.EventDelete:
			m.DeleteCount++
			m.FieldChanges++
			m.FieldInteractions++
		case behavior.EventInput, behavior.EventChange, behavior.EventAutocomplete,
			behavior.EventSelectChange, behavior.EventCheckboxRadioChange:
			m.FieldChanges++
			m.FieldInteractions++
		case behavior.EventMouseOver, behavior.EventMouseOut:
			m.MouseInteractions++
		case behavior.EventCopy:
			m.CopyCount++
		case behavior.EventPaste:
			m.PasteCount++
		case behavior.EventCut:
			m.CutCount++
		}
	}
	return m
}
