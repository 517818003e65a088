package tracker

import (
	"sync"
	"time"

	"github.com/formpulse/behavior-tracker/pkg/behavior"
)

// EventUnload is the host notification fired when the page is about to be
// torn down. The tracker persists its snapshot on it regardless of tracking
// state.
const EventUnload = "beforeunload"

// Environment is the injected capability port between the tracker core and
// its host: interaction delivery, tab-scoped key-value storage, a clock and
// the host metadata snapshot. Production hosts supply a concrete adapter;
// MemoryEnvironment serves tests and host-free embedding.
type Environment interface {
	Now() time.Time

	AddListener(event string, fn func(behavior.RawEvent))
	RemoveListener(event string)

	GetItem(key string) (value string, ok bool)
	SetItem(key, value string) error
	RemoveItem(key string)

	PagePath() string
	Device() behavior.DeviceInfo
}

// MemoryEnvironment is a fully in-memory Environment: scripted clock,
// synchronous listener dispatch and map-backed storage. Dispatch delivers
// one notification at a time on the caller's goroutine, matching the
// single-threaded delivery model of a real host.
type MemoryEnvironment struct {
	mu        sync.Mutex
	now       time.Time
	listeners map[string]func(behavior.RawEvent)
	storage   map[string]string
	pagePath  string
	device    behavior.DeviceInfo
}

func NewMemoryEnvironment() *MemoryEnvironment {
	return &MemoryEnvironment{
		now:       time.Now(),
		listeners: make(map[string]func(behavior.RawEvent)),
		storage:   make(map[string]string),
		pagePath:  "/",
	}
}

func (e *MemoryEnvironment) Now() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

// SetNow pins the clock to t.
func (e *MemoryEnvironment) SetNow(t time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = t
}

// Advance moves the clock forward by d and returns the new time.
func (e *MemoryEnvironment) Advance(d time.Duration) time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = e.now.Add(d)
	return e.now
}

func (e *MemoryEnvironment) AddListener(event string, fn func(behavior.RawEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = fn
}

func (e *MemoryEnvironment) RemoveListener(event string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.listeners, event)
}

// ListenerCount reports how many event streams currently have a listener.
func (e *MemoryEnvironment) ListenerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Dispatch delivers a raw event to the registered listener, if any, filling
// in the clock timestamp and current page path when the caller left them
// empty.
func (e *MemoryEnvironment) Dispatch(event string, raw behavior.RawEvent) {
	e.mu.Lock()
	fn := e.listeners[event]
	if raw.Type == "" {
		raw.Type = event
	}
	if raw.Timestamp.IsZero() {
		raw.Timestamp = e.now
	}
	if raw.PagePath == "" {
		raw.PagePath = e.pagePath
	}
	e.mu.Unlock()

	if fn != nil {
		fn(raw)
	}
}

func (e *MemoryEnvironment) GetItem(key string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.storage[key]
	return v, ok
}

func (e *MemoryEnvironment) SetItem(key, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.storage[key] = value
	return nil
}

func (e *MemoryEnvironment) RemoveItem(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.storage, key)
}

func (e *MemoryEnvironment) PagePath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pagePath
}

// SetPagePath simulates an in-tab navigation.
func (e *MemoryEnvironment) SetPagePath(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pagePath = path
}

func (e *MemoryEnvironment) Device() behavior.DeviceInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.device
}

func (e *MemoryEnvironment) SetDevice(d behavior.DeviceInfo) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.device = d
}
