package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Event is one journaled action.
type Event struct {
	ID        int64           `json:"id"`
	SessionID string          `json:"sessionId"`
	Kind      string          `json:"kind"`
	Gesture   string          `json:"gesture,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// EventRepository provides access to journaled events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts e and sets its ID. A zero CreatedAt is set to now.
func (r *EventRepository) Record(e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	payload := e.Payload
	if payload == nil {
		payload = json.RawMessage("{}")
	}

	result, err := r.db.Exec(
		`INSERT INTO events (session_id, kind, gesture, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.SessionID, e.Kind, e.Gesture, string(payload), e.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// Recent returns the newest events first, at most limit of them.
func (r *EventRepository) Recent(limit int) ([]*Event, error) {
	return r.query(
		`SELECT id, session_id, kind, gesture, payload, created_at FROM events
		 ORDER BY id DESC LIMIT ?`,
		limit,
	)
}

// BySession returns a session's events in the order they were recorded.
func (r *EventRepository) BySession(sessionID string) ([]*Event, error) {
	return r.query(
		`SELECT id, session_id, kind, gesture, payload, created_at FROM events
		 WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
}

// CountByKind counts a session's events per kind.
func (r *EventRepository) CountByKind(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT kind, COUNT(*) FROM events WHERE session_id = ? GROUP BY kind`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

func (r *EventRepository) query(q string, args ...any) ([]*Event, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var payload string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.Gesture, &payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Payload = json.RawMessage(payload)
		events = append(events, e)
	}
	return events, rows.Err()
}
