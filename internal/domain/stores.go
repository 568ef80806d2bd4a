package domain

import (
	"context"
	"time"
)

// RecordStore is the daily check-in history collaborator.
type RecordStore interface {
	Upsert(ctx context.Context, r *DailyRecord) error
	GetByDate(ctx context.Context, userID string, date time.Time) (*DailyRecord, error)
	// ListRecent returns up to the last `days` days of records for a user,
	// ordered oldest-first.
	ListRecent(ctx context.Context, userID string, days int) ([]DailyRecord, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
	ScrubNotes(ctx context.Context, userID string) (int64, error)
}

// InterventionLog records which interventions a user completed or planned.
type InterventionLog struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"` // completed | planned
	CreatedAt time.Time `json:"created_at"`
}

type InterventionLogStore interface {
	Log(ctx context.Context, l *InterventionLog) error
	ListByUser(ctx context.Context, userID string, limit int) ([]InterventionLog, error)
}
