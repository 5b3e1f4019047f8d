package events

import (
	"testing"
	"time"
)

func TestJournalAppendPreservesOrder(t *testing.T) {
	j := NewJournal(nil)

	j.Append(Event{ID: "1", Type: EventSceneEntered})
	j.Append(Event{ID: "2", Type: EventStatsChanged})
	j.Append(Event{ID: "3", Type: EventSceneEntered})

	replay := j.Replay()
	if len(replay) != 3 {
		t.Fatalf("expected 3 events, got %d", len(replay))
	}
	for i, want := range []string{"1", "2", "3"} {
		if replay[i].ID != want {
			t.Errorf("event %d: got id %s, want %s", i, replay[i].ID, want)
		}
	}
}

func TestJournalByType(t *testing.T) {
	j := NewJournal(nil)
	j.Append(Event{ID: "1", Type: EventSceneEntered})
	j.Append(Event{ID: "2", Type: EventSignalPulse})
	j.Append(Event{ID: "3", Type: EventSceneEntered})

	entered := j.ByType(EventSceneEntered)
	if len(entered) != 2 || entered[0].ID != "1" || entered[1].ID != "3" {
		t.Errorf("ByType returned wrong events: %v", entered)
	}
	if got := j.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}

// channelPersister signals each write-through so tests can wait for the
// fire-and-forget goroutine.
type channelPersister struct {
	ch chan Event
}

func (p *channelPersister) Append(e Event) error {
	p.ch <- e
	return nil
}

func TestJournalWritesThroughToPersister(t *testing.T) {
	p := &channelPersister{ch: make(chan Event, 1)}
	j := NewJournal(p)

	j.Append(Event{ID: "persisted", Type: EventMetaUpdated})

	select {
	case got := <-p.ch:
		if got.ID != "persisted" {
			t.Errorf("persisted wrong event: %s", got.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("persister never received the event")
	}
}

func TestNewEventIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewEventID()
		if id == "" || seen[id] {
			t.Fatalf("duplicate or empty event id %q", id)
		}
		seen[id] = true
	}
}
