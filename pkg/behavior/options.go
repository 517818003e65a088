package behavior

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultStorageKey is the storage-port key used for session snapshots when
// the caller does not configure one. Trackers sharing a host must use
// distinct keys or they will race on the same snapshot.
const DefaultStorageKey = "web_behavior_tracker_session"

// TrackingOptions is the immutable configuration captured at tracker
// construction. Threshold combinations are accepted as-is; a caller that
// supplies min > max simply gets a score matching the supplied thresholds.
type TrackingOptions struct {
	TrackMouseMovement bool
	TrackFocusBlur     bool
	TrackInput         bool
	TrackClicks        bool
	TrackCopyPaste     bool

	RiskThreshold float64
	MinTimeSpent  time.Duration
	MaxTimeSpent  time.Duration
	ThrottleDelay time.Duration

	StorageKey string
}

// DefaultOptions returns the stock configuration: focus/blur, input, click
// and copy/paste capture on, mouse movement off.
func DefaultOptions() TrackingOptions {
	return TrackingOptions{
		TrackMouseMovement: false,
		TrackFocusBlur:     true,
		TrackInput:         true,
		TrackClicks:        true,
		TrackCopyPaste:     true,
		RiskThreshold:      0.7,
		MinTimeSpent:       5 * time.Second,
		MaxTimeSpent:       300 * time.Second,
		ThrottleDelay:      100 * time.Millisecond,
		StorageKey:         DefaultStorageKey,
	}
}

// optionsDoc is the YAML shape of a tracking options file. Pointers
// distinguish an omitted field from an explicit zero, and durations are
// written in Go duration syntax ("250ms", "2s").
type optionsDoc struct {
	TrackMouseMovement *bool    `yaml:"track_mouse_movement"`
	TrackFocusBlur     *bool    `yaml:"track_focus_blur"`
	TrackInput         *bool    `yaml:"track_input"`
	TrackClicks        *bool    `yaml:"track_clicks"`
	TrackCopyPaste     *bool    `yaml:"track_copy_paste"`
	RiskThreshold      *float64 `yaml:"risk_threshold"`
	MinTimeSpent       string   `yaml:"min_time_spent"`
	MaxTimeSpent       string   `yaml:"max_time_spent"`
	ThrottleDelay      string   `yaml:"throttle_delay"`
	StorageKey         string   `yaml:"storage_key"`
}

// LoadOptions reads tracking options from a YAML file, expanding environment
// variables in the document. Fields absent from the file keep their default
// values.
func LoadOptions(path string) (TrackingOptions, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read options file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	var doc optionsDoc
	if err := yaml.Unmarshal([]byte(expanded), &doc); err != nil {
		return opts, fmt.Errorf("parse options file: %w", err)
	}

	if doc.TrackMouseMovement != nil {
		opts.TrackMouseMovement = *doc.TrackMouseMovement
	}
	if doc.TrackFocusBlur != nil {
		opts.TrackFocusBlur = *doc.TrackFocusBlur
	}
	if doc.TrackInput != nil {
		opts.TrackInput = *doc.TrackInput
	}
	if doc.TrackClicks != nil {
		opts.TrackClicks = *doc.TrackClicks
	}
	if doc.TrackCopyPaste != nil {
		opts.TrackCopyPaste = *doc.TrackCopyPaste
	}
	if doc.RiskThreshold != nil {
		opts.RiskThreshold = *doc.RiskThreshold
	}
	if err := setDuration(&opts.MinTimeSpent, doc.MinTimeSpent, "min_time_spent"); err != nil {
		return opts, err
	}
	if err := setDuration(&opts.MaxTimeSpent, doc.MaxTimeSpent, "max_time_spent"); err != nil {
		return opts, err
	}
	if err := setDuration(&opts.ThrottleDelay, doc.ThrottleDelay, "throttle_delay"); err != nil {
		return opts, err
	}
	if doc.StorageKey != "" {
		opts.StorageKey = doc.StorageKey
	}
	return opts, nil
}

func setDuration(dst *time.Duration, raw, field string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", field, err)
	}
	*dst = d
	return nil
}
