package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/peagarden/peaengine/internal/domain"
)

// VisitRepo handles persistence for Visit records.
type VisitRepo struct{}

// Create inserts a visit row at resume time.
func (r *VisitRepo) Create(ctx context.Context, db *sql.DB, v domain.Visit) error {
	const q = `INSERT INTO visits (visit_id, started_at, absence_minutes, penalty_applied, ended_at)
VALUES (?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, q,
		v.VisitID,
		v.StartedAt,
		v.AbsenceMinutes,
		boolToInt(v.PenaltyApplied),
		v.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("create visit: %w", err)
	}
	return nil
}

// End stamps the end time of a visit.
func (r *VisitRepo) End(ctx context.Context, db *sql.DB, visitID string, endedAt int64) error {
	const q = `UPDATE visits SET ended_at = ? WHERE visit_id = ?`
	res, err := db.ExecContext(ctx, q, endedAt, visitID)
	if err != nil {
		return fmt.Errorf("end visit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrVisitNotFound
	}
	return nil
}

// GetByID retrieves a visit by its ID.
func (r *VisitRepo) GetByID(ctx context.Context, db *sql.DB, visitID string) (*domain.Visit, error) {
	const q = `SELECT visit_id, started_at, absence_minutes, penalty_applied, ended_at
FROM visits WHERE visit_id = ?`

	var v domain.Visit
	var penalty int
	err := db.QueryRowContext(ctx, q, visitID).Scan(&v.VisitID, &v.StartedAt, &v.AbsenceMinutes, &penalty, &v.EndedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrVisitNotFound
		}
		return nil, fmt.Errorf("get visit: %w", err)
	}
	v.PenaltyApplied = penalty != 0
	return &v, nil
}

// ListRecent returns up to limit visits, newest first.
func (r *VisitRepo) ListRecent(ctx context.Context, db *sql.DB, limit int) ([]domain.Visit, error) {
	const q = `SELECT visit_id, started_at, absence_minutes, penalty_applied, ended_at
FROM visits
ORDER BY started_at DESC
LIMIT ?`

	rows, err := db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	defer rows.Close()

	var visits []domain.Visit
	for rows.Next() {
		var v domain.Visit
		var penalty int
		if err := rows.Scan(&v.VisitID, &v.StartedAt, &v.AbsenceMinutes, &penalty, &v.EndedAt); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.PenaltyApplied = penalty != 0
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
