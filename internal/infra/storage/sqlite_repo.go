package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteSessionRepository implements SessionRepository for SQLite.
type SQLiteSessionRepository struct {
	db *sql.DB
}

func NewSQLiteSessionRepository(db *sql.DB) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{db: db}
}

func (r *SQLiteSessionRepository) Upsert(ctx context.Context, record SessionRecord) error {
	query := `
		INSERT INTO sessions (session_id, state_json, last_updated)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			state_json=excluded.state_json,
			last_updated=excluded.last_updated
	`
	_, err := r.db.ExecContext(ctx, query, record.SessionID, record.StateJSON, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepository) Get(ctx context.Context, sessionID string) (*SessionRecord, error) {
	query := `SELECT session_id, state_json, last_updated FROM sessions WHERE session_id = ?`
	var rec SessionRecord
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&rec.SessionID, &rec.StateJSON, &rec.LastUpdated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &rec, nil
}

func (r *SQLiteSessionRepository) Delete(ctx context.Context, sessionID string) error {
	query := `DELETE FROM sessions WHERE session_id = ?`
	_, err := r.db.ExecContext(ctx, query, sessionID)
	return err
}

// ---------------------------------------------------------
// SQLiteMetaRepository
// ---------------------------------------------------------

type SQLiteMetaRepository struct {
	db *sql.DB
}

func NewSQLiteMetaRepository(db *sql.DB) *SQLiteMetaRepository {
	return &SQLiteMetaRepository{db: db}
}

func (r *SQLiteMetaRepository) Upsert(ctx context.Context, record MetaRecord) error {
	query := `
		INSERT INTO meta_memory (session_id, meta_json, last_updated)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			meta_json=excluded.meta_json,
			last_updated=excluded.last_updated
	`
	_, err := r.db.ExecContext(ctx, query, record.SessionID, record.MetaJSON, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert meta: %w", err)
	}
	return nil
}

func (r *SQLiteMetaRepository) Get(ctx context.Context, sessionID string) (*MetaRecord, error) {
	query := `SELECT session_id, meta_json, last_updated FROM meta_memory WHERE session_id = ?`
	var rec MetaRecord
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&rec.SessionID, &rec.MetaJSON, &rec.LastUpdated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meta: %w", err)
	}
	return &rec, nil
}

// ---------------------------------------------------------
// SQLiteJournalRepository
// ---------------------------------------------------------

type SQLiteJournalRepository struct {
	db *sql.DB
}

func NewSQLiteJournalRepository(db *sql.DB) *SQLiteJournalRepository {
	return &SQLiteJournalRepository{db: db}
}

func (r *SQLiteJournalRepository) Append(ctx context.Context, record JournalRecord) error {
	query := `
		INSERT INTO journal (id, session_id, timestamp, event_type, payload)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.SessionID, record.Timestamp, record.EventType, record.Payload,
	)
	if err != nil {
		return fmt.Errorf("failed to append journal record: %w", err)
	}
	return nil
}

func (r *SQLiteJournalRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]JournalRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []JournalRecord
	for rows.Next() {
		var rec JournalRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Timestamp, &rec.EventType, &rec.Payload); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *SQLiteJournalRepository) GetBySessionID(ctx context.Context, sessionID string) ([]JournalRecord, error) {
	query := `SELECT id, session_id, timestamp, event_type, payload FROM journal WHERE session_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID)
}

func (r *SQLiteJournalRepository) GetByEventType(ctx context.Context, sessionID, eventType string) ([]JournalRecord, error) {
	query := `SELECT id, session_id, timestamp, event_type, payload FROM journal WHERE session_id = ? AND event_type = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID, eventType)
}
