package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fractured-if/engine/internal/engine"
	"github.com/fractured-if/engine/internal/events"
	"github.com/fractured-if/engine/internal/platform/logger"
)

// Store binds the repositories to one session. It satisfies engine.Persister
// for saves; the Load methods hydrate a fresh session at startup. A missing
// or malformed stored blob is reported as absent, never as an error: the
// engine starts fresh rather than refusing to run.
type Store struct {
	sessionID string
	sessions  SessionRepository
	meta      MetaRepository
	logger    *logger.Logger
}

func NewStore(sessionID string, sessions SessionRepository, meta MetaRepository, log *logger.Logger) *Store {
	return &Store{
		sessionID: sessionID,
		sessions:  sessions,
		meta:      meta,
		logger:    log,
	}
}

// SaveSession overwrites the persisted session blob with the snapshot.
func (s *Store) SaveSession(state engine.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	return s.sessions.Upsert(context.Background(), SessionRecord{
		SessionID: s.sessionID,
		StateJSON: string(data),
	})
}

// SaveMeta overwrites the persisted meta-memory blob.
func (s *Store) SaveMeta(meta map[string]any) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal meta memory: %w", err)
	}
	return s.meta.Upsert(context.Background(), MetaRecord{
		SessionID: s.sessionID,
		MetaJSON:  string(data),
	})
}

// LoadSession retrieves the persisted session snapshot. The second return is
// false when no usable snapshot exists.
func (s *Store) LoadSession(ctx context.Context) (engine.State, bool) {
	rec, err := s.sessions.Get(ctx, s.sessionID)
	if err != nil {
		s.logger.Warn("session load failed: " + err.Error())
		return engine.State{}, false
	}
	if rec == nil {
		return engine.State{}, false
	}

	var state engine.State
	if err := json.Unmarshal([]byte(rec.StateJSON), &state); err != nil {
		s.logger.Warn("stored session blob is malformed, starting fresh: " + err.Error())
		return engine.State{}, false
	}
	if state.CurrentSceneID == "" {
		s.logger.Warn("stored session blob has no scene, starting fresh")
		return engine.State{}, false
	}
	return state, true
}

// LoadMeta retrieves the persisted meta-memory. Absent or malformed blobs
// yield an empty map.
func (s *Store) LoadMeta(ctx context.Context) map[string]any {
	rec, err := s.meta.Get(ctx, s.sessionID)
	if err != nil {
		s.logger.Warn("meta load failed: " + err.Error())
		return map[string]any{}
	}
	if rec == nil {
		return map[string]any{}
	}

	var meta map[string]any
	if err := json.Unmarshal([]byte(rec.MetaJSON), &meta); err != nil {
		s.logger.Warn("stored meta blob is malformed, discarding: " + err.Error())
		return map[string]any{}
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta
}

// JournalPersister adapts a JournalRepository to the events.Persister
// interface used by the in-memory journal for write-through.
type JournalPersister struct {
	repo JournalRepository
}

func NewJournalPersister(repo JournalRepository) *JournalPersister {
	return &JournalPersister{repo: repo}
}

func (p *JournalPersister) Append(event events.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return p.repo.Append(ctx, JournalRecord{
		ID:        event.ID,
		SessionID: event.SessionID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		Payload:   string(payload),
	})
}
