package store

import (
	"context"
	"database/sql"

	"github.com/peagarden/peaengine/internal/domain"
)

// Journal records visits and lifecycle events to SQLite.
type Journal struct {
	DB        *sql.DB
	VisitRepo *VisitRepo
	EventRepo *EventRepo
}

// NewJournal creates a Journal over an open database.
func NewJournal(db *sql.DB) *Journal {
	return &Journal{
		DB:        db,
		VisitRepo: &VisitRepo{},
		EventRepo: &EventRepo{},
	}
}

// StartVisit records the beginning of a session.
func (j *Journal) StartVisit(ctx context.Context, v domain.Visit) error {
	return j.VisitRepo.Create(ctx, j.DB, v)
}

// EndVisit stamps the end of a session.
func (j *Journal) EndVisit(ctx context.Context, visitID string, endedAt int64) error {
	return j.VisitRepo.End(ctx, j.DB, visitID, endedAt)
}

// Record appends one lifecycle event.
func (j *Journal) Record(ctx context.Context, ev domain.LifecycleEvent) error {
	return j.EventRepo.Append(ctx, j.DB, ev)
}

// ListEvents returns events newer than sinceID, oldest first.
func (j *Journal) ListEvents(ctx context.Context, sinceID int64, limit int) ([]domain.LifecycleEvent, error) {
	if limit <= 0 {
		limit = 200
	}
	return j.EventRepo.ListSince(ctx, j.DB, sinceID, limit)
}

// ListVisits returns the most recent visits, newest first.
func (j *Journal) ListVisits(ctx context.Context, limit int) ([]domain.Visit, error) {
	if limit <= 0 {
		limit = 20
	}
	return j.VisitRepo.ListRecent(ctx, j.DB, limit)
}

// ListVisitEvents returns one visit's events after sinceSeq.
func (j *Journal) ListVisitEvents(ctx context.Context, visitID string, sinceSeq int64) ([]domain.LifecycleEvent, error) {
	return j.EventRepo.ListByVisit(ctx, j.DB, visitID, sinceSeq)
}

// GetVisit returns one visit or ErrVisitNotFound.
func (j *Journal) GetVisit(ctx context.Context, visitID string) (*domain.Visit, error) {
	return j.VisitRepo.GetByID(ctx, j.DB, visitID)
}
