// Package events provides the append-only journal of committed engine
// events. Presentation consumers and the persistence layer subscribe to this
// log instead of reading engine state ambiently.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a journal event.
type EventType string

const (
	EventSceneEntered   EventType = "SCENE_ENTERED"
	EventStatsChanged   EventType = "STATS_CHANGED"
	EventFlagSet        EventType = "FLAG_SET"
	EventMetaUpdated    EventType = "META_UPDATED"
	EventSessionReset   EventType = "SESSION_RESET"
	EventSessionLoaded  EventType = "SESSION_LOADED"
	EventSignalPulse    EventType = "SIGNAL_PULSE"
	EventContentWarning EventType = "CONTENT_WARNING"
)

// Event is an immutable record of a committed state change.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Payload   any       `json:"payload"`
}

// Persister defines how an event is durably stored.
type Persister interface {
	Append(event Event) error
}

// Journal is the in-memory append-only log of engine events, optionally
// backed by a Persister.
type Journal struct {
	mu        sync.RWMutex
	events    []Event
	persister Persister
}

// NewJournal creates a journal with an optional persister (nil disables
// write-through).
func NewJournal(persister Persister) *Journal {
	return &Journal{
		events:    make([]Event, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
// Persistence is write-through but fire-and-forget: the engine does not
// await durability before proceeding.
func (j *Journal) Append(event Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, event)

	if j.persister != nil {
		go func(e Event) {
			_ = j.persister.Append(e)
		}(event)
	}
}

// Replay returns the full event history.
func (j *Journal) Replay() []Event {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.events
}

// Len returns the number of events appended so far.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.events)
}

// ByType returns all events of one type, in append order.
func (j *Journal) ByType(t EventType) []Event {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var result []Event
	for _, e := range j.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// NewEventID creates a unique event identifier.
func NewEventID() string {
	return uuid.NewString()
}
