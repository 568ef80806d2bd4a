package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lumohealth/lumo/internal/domain"
)

type RecordStore struct {
	db *pgxpool.Pool
}

func NewRecordStore(db *pgxpool.Pool) *RecordStore {
	return &RecordStore{db: db}
}

// Upsert inserts a check-in or replaces the existing one for the same
// (user, date). A day has at most one record; an update supersedes it
// rather than appending.
func (s *RecordStore) Upsert(ctx context.Context, r *domain.DailyRecord) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO daily_records (
		    user_id, entry_date, mood_score, stress_level, energy_level,
		    sleep_hours, work_hours, exercise_minutes, meditation_minutes,
		    caffeine_intake, alcohol_intake, notes, symptoms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (user_id, entry_date) DO UPDATE SET
		    mood_score = EXCLUDED.mood_score,
		    stress_level = EXCLUDED.stress_level,
		    energy_level = EXCLUDED.energy_level,
		    sleep_hours = EXCLUDED.sleep_hours,
		    work_hours = EXCLUDED.work_hours,
		    exercise_minutes = EXCLUDED.exercise_minutes,
		    meditation_minutes = EXCLUDED.meditation_minutes,
		    caffeine_intake = EXCLUDED.caffeine_intake,
		    alcohol_intake = EXCLUDED.alcohol_intake,
		    notes = EXCLUDED.notes,
		    symptoms = EXCLUDED.symptoms,
		    updated_at = now()
		 RETURNING created_at, updated_at`,
		r.UserID, r.Date, r.MoodScore, r.StressLevel, r.EnergyLevel,
		r.SleepHours, r.WorkHours, r.ExerciseMinutes, r.MeditationMinutes,
		r.CaffeineIntake, r.AlcoholIntake, r.Notes, r.Symptoms,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
}

func (s *RecordStore) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.DailyRecord, error) {
	row := s.db.QueryRow(ctx,
		`SELECT user_id, entry_date, mood_score, stress_level, energy_level,
		        sleep_hours, work_hours, exercise_minutes, meditation_minutes,
		        caffeine_intake, alcohol_intake, notes, symptoms,
		        created_at, updated_at
		 FROM daily_records
		 WHERE user_id = $1 AND entry_date = $2`,
		userID, date,
	)
	r, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// ListRecent returns up to the last `days` days of records for a user,
// oldest first.
func (s *RecordStore) ListRecent(ctx context.Context, userID string, days int) ([]domain.DailyRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT user_id, entry_date, mood_score, stress_level, energy_level,
		        sleep_hours, work_hours, exercise_minutes, meditation_minutes,
		        caffeine_intake, alcohol_intake, notes, symptoms,
		        created_at, updated_at
		 FROM daily_records
		 WHERE user_id = $1 AND entry_date >= current_date - $2::int
		 ORDER BY entry_date ASC`,
		userID, days,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.DailyRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

func (s *RecordStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM daily_records WHERE entry_date < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *RecordStore) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM daily_records WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ScrubNotes blanks free-text notes while keeping the numeric history.
func (s *RecordStore) ScrubNotes(ctx context.Context, userID string) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE daily_records SET notes = '', updated_at = now()
		 WHERE user_id = $1 AND notes <> ''`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanRecord(row pgx.Row) (*domain.DailyRecord, error) {
	var r domain.DailyRecord
	err := row.Scan(
		&r.UserID, &r.Date, &r.MoodScore, &r.StressLevel, &r.EnergyLevel,
		&r.SleepHours, &r.WorkHours, &r.ExerciseMinutes, &r.MeditationMinutes,
		&r.CaffeineIntake, &r.AlcoholIntake, &r.Notes, &r.Symptoms,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
