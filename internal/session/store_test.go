package session

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/formpulse/behavior-tracker/pkg/behavior"
)

type memStorage struct {
	items   map[string]string
	failSet error
}

func newMemStorage() *memStorage {
	return &memStorage{items: make(map[string]string)}
}

func (m *memStorage) GetItem(key string) (string, bool) {
	v, ok := m.items[key]
	return v, ok
}

func (m *memStorage) SetItem(key, value string) error {
	if m.failSet != nil {
		return m.failSet
	}
	m.items[key] = value
	return nil
}

func (m *memStorage) RemoveItem(key string) {
	delete(m.items, key)
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

const testKey = "web_behavior_tracker_session"

func TestNewStoreGeneratesSessionID(t *testing.T) {
	s := NewStore(newMemStorage(), testKey, fixedClock(time.UnixMilli(1_700_000_000_000)))
	require.True(t, strings.HasPrefix(s.SessionID(), "session_1700000000000_"))
	require.Zero(t, s.Len())
}

func TestAppendPersistsFullSnapshot(t *testing.T) {
	storage := newMemStorage()
	s := NewStore(storage, testKey, fixedClock(time.Now()))

	s.Append(behavior.Event{Type: behavior.EventFocus, ElementID: "email", Timestamp: 1})
	s.Append(behavior.Event{Type: behavior.EventInput, ElementID: "email", Timestamp: 2})

	raw, ok := storage.GetItem(testKey)
	require.True(t, ok)

	var snap struct {
		SessionID string           `json:"sessionId"`
		Events    []behavior.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))
	require.Equal(t, s.SessionID(), snap.SessionID)
	require.Len(t, snap.Events, 2)
	require.Equal(t, behavior.EventInput, snap.Events[1].Type)
}

func TestRestoreRoundTrip(t *testing.T) {
	storage := newMemStorage()
	first := NewStore(storage, testKey, fixedClock(time.Now()))
	first.Append(behavior.Event{
		Type:      behavior.EventAutocomplete,
		ElementID: "email",
		Timestamp: 42,
		Value:     behavior.TextValue("alice@example.com"),
		PageURL:   "/signup",
	})
	first.Append(behavior.Event{
		Type:          behavior.EventPaste,
		ElementID:     "address",
		Timestamp:     43,
		ClipboardData: &behavior.ClipboardData{Types: []string{"text/plain"}, Data: "221B Baker St"},
	})

	second := NewStore(storage, testKey, fixedClock(time.Now()))
	require.Equal(t, first.SessionID(), second.SessionID())
	require.Equal(t, first.Events(), second.Events())
}

func TestCorruptSnapshotStartsFresh(t *testing.T) {
	storage := newMemStorage()
	storage.items[testKey] = "{not json"

	s := NewStore(storage, testKey, fixedClock(time.Now()))
	require.Zero(t, s.Len())
	require.NotEmpty(t, s.SessionID())
}

func TestClearStartsNewSession(t *testing.T) {
	storage := newMemStorage()
	s := NewStore(storage, testKey, fixedClock(time.Now()))
	s.Append(behavior.Event{Type: behavior.EventClick, Timestamp: 1})
	oldID := s.SessionID()

	s.Clear()

	require.Zero(t, s.Len())
	require.NotEqual(t, oldID, s.SessionID())
	_, ok := storage.GetItem(testKey)
	require.False(t, ok, "persisted snapshot must be deleted on clear")
}

func TestEventsReturnsDefensiveCopy(t *testing.T) {
	s := NewStore(newMemStorage(), testKey, fixedClock(time.Now()))
	s.Append(behavior.Event{Type: behavior.EventFocus, ElementID: "a", Timestamp: 1})

	events := s.Events()
	events[0].ElementID = "mutated"

	require.Equal(t, "a", s.Events()[0].ElementID)
}

func TestRemoveCustomEventsKeepsInteractions(t *testing.T) {
	s := NewStore(newMemStorage(), testKey, fixedClock(time.Now()))
	s.Append(behavior.Event{Type: behavior.EventFocus, Timestamp: 1})
	s.Append(behavior.Event{Type: "conversion", CustomEventName: "conversion", Timestamp: 2})
	s.Append(behavior.Event{Type: behavior.EventBlur, Timestamp: 3})

	s.RemoveCustomEvents()

	events := s.Events()
	require.Len(t, events, 2)
	require.Equal(t, behavior.EventFocus, events[0].Type)
	require.Equal(t, behavior.EventBlur, events[1].Type)
}

func TestPersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	storage := newMemStorage()
	storage.failSet = errors.New("quota exceeded")
	s := NewStore(storage, testKey, fixedClock(time.Now()))

	s.Append(behavior.Event{Type: behavior.EventFocus, Timestamp: 1})

	require.Equal(t, 1, s.Len(), "in-memory log must survive persistence failure")
	_, ok := storage.GetItem(testKey)
	require.False(t, ok)
}

func TestMarkStartMovesOrigin(t *testing.T) {
	start := time.UnixMilli(1000)
	s := NewStore(newMemStorage(), testKey, fixedClock(start))
	require.Equal(t, start, s.StartTime())

	later := start.Add(time.Minute)
	s.MarkStart(later)
	require.Equal(t, later, s.StartTime())
}
