package detect

import (
	"fmt"

	"github.com/formpulse/behavior-tracker/pkg/behavior"
)

// Human-readable suspicion labels. Consumers match on these strings, so they
// are part of the public contract and must stay stable.
const (
	LabelRapidFormFilling    = "Rapid form filling detected"
	LabelUnusualFocus        = "Unusual focus pattern detected"
	LabelCopyWithoutPaste    = "Copy operations without paste"
	LabelExcessiveClipboard  = "Excessive copy-paste activity"
	LabelClipboardAutomation = "Rapid copy-paste sequence suggests automation"
	LabelRapidInput          = "Possible copy-paste behavior (rapid input)"
)

// Fixed detector thresholds, independent of the caller's scoring options.
const (
	rapidFillWindowMS     = 5000
	rapidFillChanges      = 5
	focusChurnCount       = 20
	focusChurnWindowMS    = 10000
	excessiveClipboard    = 10
	consecutiveClipGapMS  = 2000
	burstWindowMS         = 5000
	burstCount            = 3
	rapidInputGapMS       = 50
	rapidInputPairsNeeded = 3
)

// Patterns scans the full event log plus its aggregate metrics and returns
// every suspicion label that applies. Labels co-occur freely.
func Patterns(events []behavior.Event, m behavior.Metrics) []string {
	var out []string

	if m.TimeSpent < rapidFillWindowMS && m.FieldChanges > rapidFillChanges {
		out = append(out, LabelRapidFormFilling)
	}
	if m.FocusCount > focusChurnCount && m.TimeSpent < focusChurnWindowMS {
		out = append(out, LabelUnusualFocus)
	}

	total := m.ClipboardTotal()
	if total > 0 {
		out = append(out, fmt.Sprintf("Copy-paste activity detected: %d clipboard events", total))
		if m.CopyCount > 0 && m.PasteCount == 0 {
			out = append(out, LabelCopyWithoutPaste)
		}
		if total > excessiveClipboard {
			out = append(out, LabelExcessiveClipboard)
		}
		if RapidClipboardSequence(events) {
			out = append(out, LabelClipboardAutomation)
		}
	} else if rapidInputBursts(events) {
		// Clipboard events unavailable on this platform; infer from input
		// spacing instead.
		out = append(out, LabelRapidInput)
	}

	return out
}

// RapidClipboardSequence reports clipboard automation: any consecutive pair
// of clipboard events under 2s apart, or three or more clipboard events
// inside the trailing 5s window. The window is measured from the log's last
// clipboard timestamp, never from call-time wall clock, so a given log
// always yields the same answer.
func RapidClipboardSequence(events []behavior.Event) bool {
	var stamps []int64
	for i := range events {
		if events[i].IsClipboard() {
			stamps = append(stamps, events[i].Timestamp)
		}
	}
	if len(stamps) == 0 {
		return false
	}

	for i := 1; i < len(stamps); i++ {
		if stamps[i]-stamps[i-1] < consecutiveClipGapMS {
			return true
		}
	}

	end := stamps[len(stamps)-1]
	recent := 0
	for _, ts := range stamps {
		if end-ts <= burstWindowMS {
			recent++
		}
	}
	return recent >= burstCount
}

// rapidInputBursts counts consecutive pairs of input events spaced under
// 50ms. More than three such pairs suggests pasted or injected text on
// platforms that expose no clipboard events.
func rapidInputBursts(events []behavior.Event) bool {
	pairs := 0
	var prev int64
	seen := false
	for i := range events {
		if events[i].Type != behavior.EventInput {
			continue
		}
		if seen && events[i].Timestamp-prev < rapidInputGapMS {
			pairs++
		}
		prev = events[i].Timestamp
		seen = true
	}
	return pairs > rapidInputPairsNeeded
}
