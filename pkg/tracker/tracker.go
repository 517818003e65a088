package tracker

import (
	"sync"

	"github.com/formpulse/behavior-tracker/internal/aggregate"
	"github.com/formpulse/behavior-tracker/internal/classify"
	"github.com/formpulse/behavior-tracker/internal/detect"
	"github.com/formpulse/behavior-tracker/internal/score"
	"github.com/formpulse/behavior-tracker/internal/session"
	"github.com/formpulse/behavior-tracker/internal/util/logger"
	"github.com/formpulse/behavior-tracker/pkg/behavior"
)

// Mouse-origin streams that go through a per-stream throttle. Input and
// clipboard streams are never throttled.
var throttledStreams = map[string]bool{
	behavior.EventClick:     true,
	behavior.EventMouseMove: true,
	behavior.EventMouseOver: true,
	behavior.EventMouseOut:  true,
}

// Option customizes tracker construction.
type Option func(*Tracker)

// WithStorage routes snapshot persistence to a storage port other than the
// environment's own, e.g. a redisstore or sqlitestore adapter.
func WithStorage(s session.Storage) Option {
	return func(t *Tracker) { t.storage = s }
}

// Tracker orchestrates capture: it owns the session lifecycle, attaches and
// detaches host listeners, throttles mouse streams, and exposes the read
// APIs. Host callbacks arrive serially; the mutex additionally keeps the
// facade safe for hosts that read from other goroutines.
type Tracker struct {
	mu         sync.Mutex
	env        Environment
	opts       behavior.TrackingOptions
	storage    session.Storage
	store      *session.Store
	classifier *classify.Classifier
	throttles  map[string]*classify.Throttle
	attached   []string
	tracking   bool
}

// New builds an idle tracker. A prior session snapshot under the configured
// storage key is restored; otherwise a fresh session id is generated. The
// page-unload hook is installed immediately so teardown persists the
// snapshot even when the host never calls StopTracking.
func New(env Environment, opts behavior.TrackingOptions, extra ...Option) *Tracker {
	if opts.StorageKey == "" {
		opts.StorageKey = behavior.DefaultStorageKey
	}
	t := &Tracker{
		env:        env,
		opts:       opts,
		storage:    env,
		classifier: classify.New(),
		throttles:  make(map[string]*classify.Throttle),
	}
	for _, o := range extra {
		o(t)
	}
	t.store = session.NewStore(t.storage, opts.StorageKey, env.Now)

	env.AddListener(EventUnload, func(behavior.RawEvent) {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.store.Persist()
	})

	return t
}

// StartTracking attaches listeners per the configured toggles and records
// the tracking start time. It is a no-op while already tracking. With reset
// the current session is cleared first: new id, empty log.
func (t *Tracker) StartTracking(reset bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tracking {
		return
	}
	if reset {
		t.clearLocked()
	}
	t.store.MarkStart(t.env.Now())
	t.resetThrottlesLocked()
	t.attachLocked()
	t.tracking = true
	logger.Debug("tracking started, session %s", t.store.SessionID())
}

// StopTracking persists the final snapshot, invalidates throttles and
// detaches every interaction listener. It is a no-op while idle.
func (t *Tracker) StopTracking() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.tracking {
		return
	}
	for _, ev := range t.attached {
		t.env.RemoveListener(ev)
	}
	t.attached = nil
	t.resetThrottlesLocked()
	t.store.Persist()
	t.tracking = false
	logger.Debug("tracking stopped, session %s", t.store.SessionID())
}

// IsTracking reports whether listeners are currently attached.
func (t *Tracker) IsTracking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tracking
}

func (t *Tracker) attachLocked() {
	add := func(events ...string) {
		for _, ev := range events {
			t.env.AddListener(ev, t.handleRaw)
			t.attached = append(t.attached, ev)
		}
	}
	if t.opts.TrackFocusBlur {
		add(behavior.EventFocus, behavior.EventBlur)
	}
	if t.opts.TrackInput {
		add(behavior.EventInput, behavior.EventChange, behavior.EventSubmit,
			behavior.EventInvalid, behavior.EventReset)
	}
	if t.opts.TrackClicks {
		add(behavior.EventClick)
	}
	if t.opts.TrackCopyPaste {
		add(behavior.EventCopy, behavior.EventPaste, behavior.EventCut)
	}
	if t.opts.TrackMouseMovement {
		add(behavior.EventMouseMove, behavior.EventMouseOver, behavior.EventMouseOut)
	}
}

func (t *Tracker) resetThrottlesLocked() {
	for _, th := range t.throttles {
		th.Reset()
	}
}

// handleRaw is the single listener behind every attached stream: throttle,
// classify, append.
func (t *Tracker) handleRaw(raw behavior.RawEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.tracking {
		return
	}
	if raw.Timestamp.IsZero() {
		raw.Timestamp = t.env.Now()
	}
	if raw.PagePath == "" {
		raw.PagePath = t.env.PagePath()
	}

	if throttledStreams[raw.Type] {
		th := t.throttles[raw.Type]
		if th == nil {
			th = classify.NewThrottle(t.opts.ThrottleDelay)
			t.throttles[raw.Type] = th
		}
		if !th.TryAdmit(raw.Timestamp) {
			return
		}
	}

	ev, ok := t.classifier.Classify(raw)
	if !ok {
		return
	}
	t.store.Append(ev)
}

// GetMetrics reduces the current event log into counters. Pure with respect
// to the log; only TimeSpent moves between calls.
func (t *Tracker) GetMetrics() behavior.Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return aggregate.Reduce(t.store.Events(), t.store.StartTime(), t.env.Now())
}

// GetInsights combines metrics, detected patterns, the risk score and the
// host device snapshot.
func (t *Tracker) GetInsights() behavior.Insights {
	t.mu.Lock()
	defer t.mu.Unlock()

	events := t.store.Events()
	now := t.env.Now()
	m := aggregate.Reduce(events, t.store.StartTime(), now)
	patterns := detect.Patterns(events, m)
	risk := score.Risk(m, patterns, detect.RapidClipboardSequence(events), t.opts)

	return behavior.Insights{
		SessionID:          t.store.SessionID(),
		Metrics:            m,
		SuspiciousPatterns: patterns,
		RiskScore:          risk,
		RiskThreshold:      t.opts.RiskThreshold,
		Flagged:            risk >= t.opts.RiskThreshold,
		Device:             t.env.Device(),
		GeneratedAt:        now,
	}
}

// DetectSuspiciousPatterns returns the suspicion labels for the current log.
func (t *Tracker) DetectSuspiciousPatterns() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	events := t.store.Events()
	m := aggregate.Reduce(events, t.store.StartTime(), t.env.Now())
	return detect.Patterns(events, m)
}

// CalculateRiskScore returns the bounded [0,1] heuristic score for the
// current log.
func (t *Tracker) CalculateRiskScore() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	events := t.store.Events()
	m := aggregate.Reduce(events, t.store.StartTime(), t.env.Now())
	patterns := detect.Patterns(events, m)
	return score.Risk(m, patterns, detect.RapidClipboardSequence(events), t.opts)
}

// GetEvents returns a defensive copy of the session's event log.
func (t *Tracker) GetEvents() []behavior.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Events()
}

// GetSessionID returns the current session identifier.
func (t *Tracker) GetSessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.SessionID()
}

// ClearSession discards the log and starts a brand-new session with a fresh
// identifier. Per-element classifier history is dropped with it.
func (t *Tracker) ClearSession() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clearLocked()
}

func (t *Tracker) clearLocked() {
	t.store.Clear()
	t.classifier.Reset()
	t.resetThrottlesLocked()
}
