package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/formpulse/behavior-tracker/internal/util/logger"
	"github.com/formpulse/behavior-tracker/pkg/behavior"
)

// Storage is the tab-scoped key-value port the store persists through. The
// in-memory log stays authoritative when writes fail; persistence is
// best-effort.
type Storage interface {
	GetItem(key string) (value string, ok bool)
	SetItem(key, value string) error
	RemoveItem(key string)
}

type snapshot struct {
	SessionID string           `json:"sessionId"`
	Events    []behavior.Event `json:"events"`
}

// Store is the ordered, append-only event log for one session. Every append
// synchronously persists the full snapshot under the configured key.
type Store struct {
	storage   Storage
	key       string
	clock     func() time.Time
	sessionID string
	events    []behavior.Event
	startTime time.Time
}

// NewStore restores a prior snapshot under key when one exists, otherwise
// starts a fresh session with a newly generated id.
func NewStore(storage Storage, key string, clock func() time.Time) *Store {
	s := &Store{storage: storage, key: key, clock: clock}
	s.load()
	return s
}

func (s *Store) load() {
	s.startTime = s.clock()
	if raw, ok := s.storage.GetItem(s.key); ok {
		var snap snapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			logger.Warn("session snapshot unreadable, starting fresh: %v", err)
		} else if snap.SessionID != "" {
			s.sessionID = snap.SessionID
			s.events = snap.Events
			return
		}
	}
	s.sessionID = newSessionID(s.clock())
}

func newSessionID(now time.Time) string {
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

// Append adds one event to the log and persists the full snapshot.
func (s *Store) Append(ev behavior.Event) {
	s.events = append(s.events, ev)
	s.Persist()
}

// Persist writes the current snapshot. Failures are logged and swallowed;
// the caller keeps operating against the in-memory log.
func (s *Store) Persist() {
	data, err := json.Marshal(snapshot{SessionID: s.sessionID, Events: s.events})
	if err != nil {
		logger.Warn("session snapshot marshal failed: %v", err)
		return
	}
	if err := s.storage.SetItem(s.key, string(data)); err != nil {
		logger.Warn("session snapshot write failed: %v", err)
	}
}

// Clear starts a brand-new session: empty log, fresh id, new elapsed-time
// origin, persisted snapshot removed.
func (s *Store) Clear() {
	s.events = nil
	s.startTime = s.clock()
	s.sessionID = newSessionID(s.startTime)
	s.storage.RemoveItem(s.key)
}

// RemoveCustomEvents drops application-triggered events from the log while
// keeping captured interactions, then persists.
func (s *Store) RemoveCustomEvents() {
	kept := make([]behavior.Event, 0, len(s.events))
	for _, ev := range s.events {
		if !ev.IsCustom() {
			kept = append(kept, ev)
		}
	}
	s.events = kept
	s.Persist()
}

// Events returns a defensive copy of the log.
func (s *Store) Events() []behavior.Event {
	out := make([]behavior.Event, len(s.events))
	copy(out, s.events)
	return out
}

// MarkStart resets the elapsed-time origin, recorded when tracking starts.
func (s *Store) MarkStart(now time.Time) {
	s.startTime = now
}

func (s *Store) StartTime() time.Time {
	return s.startTime
}

func (s *Store) SessionID() string {
	return s.sessionID
}

func (s *Store) Len() int {
	return len(s.events)
}
