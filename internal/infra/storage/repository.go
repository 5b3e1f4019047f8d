// Package storage provides the persistence layer for the narrative engine.
// The engine depends on interfaces only; the SQLite implementations live
// here so the domain stays pure.
package storage

import (
	"context"
	"time"
)

// SessionRecord is a persisted session blob. The state is stored as opaque
// JSON and overwritten whole on every save.
type SessionRecord struct {
	SessionID   string    `json:"session_id" db:"session_id"`
	StateJSON   string    `json:"state_json" db:"state_json"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// MetaRecord is the persisted meta-memory blob. It is stored separately from
// the session so that a reset wipes the session without touching it.
type MetaRecord struct {
	SessionID   string    `json:"session_id" db:"session_id"`
	MetaJSON    string    `json:"meta_json" db:"meta_json"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// JournalRecord mirrors an engine event for persistence.
type JournalRecord struct {
	ID        string    `json:"id" db:"id"`
	SessionID string    `json:"session_id" db:"session_id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	EventType string    `json:"event_type" db:"event_type"`
	Payload   string    `json:"payload" db:"payload"`
}

// SessionRepository persists session blobs.
type SessionRepository interface {
	// Upsert overwrites the session blob, last writer wins.
	Upsert(ctx context.Context, record SessionRecord) error

	// Get retrieves a session blob. Returns nil when absent.
	Get(ctx context.Context, sessionID string) (*SessionRecord, error)

	// Delete removes a session blob.
	Delete(ctx context.Context, sessionID string) error
}

// MetaRepository persists meta-memory blobs.
type MetaRepository interface {
	// Upsert overwrites the meta blob, last writer wins.
	Upsert(ctx context.Context, record MetaRecord) error

	// Get retrieves a meta blob. Returns nil when absent.
	Get(ctx context.Context, sessionID string) (*MetaRecord, error)
}

// JournalRepository persists engine events as an append-only ledger.
type JournalRepository interface {
	// Append adds a new event record to the ledger.
	Append(ctx context.Context, record JournalRecord) error

	// GetBySessionID retrieves all events for a session, oldest first.
	GetBySessionID(ctx context.Context, sessionID string) ([]JournalRecord, error)

	// GetByEventType retrieves all events of one type for a session.
	GetByEventType(ctx context.Context, sessionID, eventType string) ([]JournalRecord, error)
}
