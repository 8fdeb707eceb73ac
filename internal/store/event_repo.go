package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/peagarden/peaengine/internal/domain"
)

// EventRepo handles persistence for LifecycleEvent records.
type EventRepo struct{}

// Append inserts a lifecycle event.
func (r *EventRepo) Append(ctx context.Context, db *sql.DB, event domain.LifecycleEvent) error {
	const q = `INSERT INTO pea_events (visit_id, seq_no, event_type, mood, payload_json, created_at)
VALUES (?, ?, ?, ?, ?, ?)`
	payload := event.PayloadJSON
	if payload == "" {
		payload = "{}"
	}
	_, err := db.ExecContext(ctx, q,
		event.VisitID,
		event.SeqNo,
		string(event.EventType),
		string(event.Mood),
		payload,
		event.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return domain.ErrDuplicateEvent
		}
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// ListByVisit returns events for a visit with sequence numbers greater than
// sinceSeq, ordered by sequence number ascending.
func (r *EventRepo) ListByVisit(ctx context.Context, db *sql.DB, visitID string, sinceSeq int64) ([]domain.LifecycleEvent, error) {
	const q = `SELECT id, visit_id, seq_no, event_type, mood, payload_json, created_at
FROM pea_events
WHERE visit_id = ? AND seq_no > ?
ORDER BY seq_no ASC`

	rows, err := db.QueryContext(ctx, q, visitID, sinceSeq)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListSince returns events across all visits with row IDs greater than sinceID,
// oldest first, capped at limit rows.
func (r *EventRepo) ListSince(ctx context.Context, db *sql.DB, sinceID int64, limit int) ([]domain.LifecycleEvent, error) {
	const q = `SELECT id, visit_id, seq_no, event_type, mood, payload_json, created_at
FROM pea_events
WHERE id > ?
ORDER BY id ASC
LIMIT ?`

	rows, err := db.QueryContext(ctx, q, sinceID, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]domain.LifecycleEvent, error) {
	var events []domain.LifecycleEvent
	for rows.Next() {
		var e domain.LifecycleEvent
		var typ, mood string
		if err := rows.Scan(&e.ID, &e.VisitID, &e.SeqNo, &typ, &mood, &e.PayloadJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.EventType = domain.EventType(typ)
		e.Mood = domain.Mood(mood)
		events = append(events, e)
	}
	return events, rows.Err()
}
