package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lumohealth/lumo/internal/domain"
)

type InterventionLogStore struct {
	db *pgxpool.Pool
}

func NewInterventionLogStore(db *pgxpool.Pool) *InterventionLogStore {
	return &InterventionLogStore{db: db}
}

func (s *InterventionLogStore) Log(ctx context.Context, l *domain.InterventionLog) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO intervention_logs (user_id, title, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		l.UserID, l.Title, l.Status,
	).Scan(&l.ID, &l.CreatedAt)
}

func (s *InterventionLogStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.InterventionLog, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, title, status, created_at
		 FROM intervention_logs
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.InterventionLog
	for rows.Next() {
		var l domain.InterventionLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Title, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
