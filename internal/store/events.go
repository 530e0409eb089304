package store

import (
	"database/sql"
	"errors"
	"time"
)

// Event is one accepted discrete input command, logged for tuning and
// debugging. Continuous per-frame commands are not logged.
type Event struct {
	ID        string
	Source    string
	Kind      string
	Detail    string // JSON payload with command parameters
	CreatedAt time.Time
}

// EventRepository provides access to the interaction event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Insert appends an event to the log.
func (r *EventRepository) Insert(e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.Detail == "" {
		e.Detail = "{}"
	}

	_, err := r.db.Exec(
		`INSERT INTO interaction_events (id, source, kind, detail, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Source, e.Kind, e.Detail, e.CreatedAt,
	)
	return err
}

// GetByID retrieves a single event.
func (r *EventRepository) GetByID(id string) (*Event, error) {
	e := &Event{}
	err := r.db.QueryRow(
		`SELECT id, source, kind, detail, created_at
		 FROM interaction_events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Source, &e.Kind, &e.Detail, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// List retrieves the most recent events, newest first, capped at limit.
func (r *EventRepository) List(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(
		`SELECT id, source, kind, detail, created_at
		 FROM interaction_events ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Source, &e.Kind, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// DeleteOlderThan prunes events created before the cutoff. Returns the
// number of rows removed.
func (r *EventRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM interaction_events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
