package score

import (
	"github.com/formpulse/behavior-tracker/pkg/behavior"
)

// Additive contribution weights. All contributions are independent; order
// of addition does not matter and the sum is clamped to [0,1].
const (
	weightTooFast          = 0.3
	weightTooSlow          = 0.2
	weightHighChangeRatio  = 0.2
	weightLowMouseActivity = 0.1
	weightClipHeavy        = 0.25
	weightClipModerate     = 0.15
	weightClipLight        = 0.05
	weightClipVolumeHigh   = 0.2
	weightClipVolumeMid    = 0.1
	weightCopyNoPaste      = 0.15
	weightRapidClipboard   = 0.2
	weightPerPattern       = 0.1

	changeRatioThreshold = 0.8
	lowMouseThreshold    = 5
	clipRatioHeavy       = 0.5
	clipRatioModerate    = 0.3
	clipRatioLight       = 0.1
	clipVolumeHigh       = 10
	clipVolumeMid        = 5
)

// Risk combines metrics, detected patterns and the rapid-clipboard signal
// into a bounded heuristic score. Zero denominators are treated as 1, so the
// function never faults on empty logs.
func Risk(m behavior.Metrics, patterns []string, rapidClipboard bool, opts behavior.TrackingOptions) float64 {
	var s float64

	if m.TimeSpent < opts.MinTimeSpent.Milliseconds() {
		s += weightTooFast
	}
	if m.TimeSpent > opts.MaxTimeSpent.Milliseconds() {
		s += weightTooSlow
	}

	interactions := m.FieldInteractions
	if interactions == 0 {
		interactions = 1
	}

	if float64(m.FieldChanges)/float64(interactions) > changeRatioThreshold {
		s += weightHighChangeRatio
	}
	if m.MouseInteractions < lowMouseThreshold {
		s += weightLowMouseActivity
	}

	clip := m.ClipboardTotal()
	switch ratio := float64(clip) / float64(interactions); {
	case ratio > clipRatioHeavy:
		s += weightClipHeavy
	case ratio > clipRatioModerate:
		s += weightClipModerate
	case ratio > clipRatioLight:
		s += weightClipLight
	}
	switch {
	case clip > clipVolumeHigh:
		s += weightClipVolumeHigh
	case clip > clipVolumeMid:
		s += weightClipVolumeMid
	}
	if m.CopyCount > 0 && m.PasteCount == 0 {
		s += weightCopyNoPaste
	}
	if rapidClipboard {
		s += weightRapidClipboard
	}

	s += weightPerPattern * float64(len(patterns))

	if s > 1 {
		s = 1
	}
	if s < 0 {
		s = 0
	}
	return s
}
