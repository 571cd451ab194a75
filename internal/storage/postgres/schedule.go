package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"news_digest/internal/domain"
)

type ScheduleStore struct {
	db *sqlx.DB
}

func NewScheduleStore(db *sqlx.DB) *ScheduleStore {
	return &ScheduleStore{db: db}
}

// Set enables automatic delivery at the given HH:MM time, preserving
// last_sent for an existing row.
func (s *ScheduleStore) Set(ctx context.Context, userID int64, scheduleTime string) error {
	query := `
		INSERT INTO digest_schedules (user_id, enabled, schedule_time)
		VALUES ($1, TRUE, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			enabled = TRUE,
			schedule_time = EXCLUDED.schedule_time`

	_, err := s.db.ExecContext(ctx, query, userID, scheduleTime)
	return err
}

func (s *ScheduleStore) Disable(ctx context.Context, userID int64) error {
	query := `UPDATE digest_schedules SET enabled = FALSE WHERE user_id = $1`

	_, err := s.db.ExecContext(ctx, query, userID)
	return err
}

// Get returns the user's schedule, or nil if none was ever set.
func (s *ScheduleStore) Get(ctx context.Context, userID int64) (*domain.DigestSchedule, error) {
	query := `
		SELECT user_id, enabled, schedule_time, last_sent
		FROM digest_schedules
		WHERE user_id = $1`

	var schedule domain.DigestSchedule
	err := s.db.GetContext(ctx, &schedule, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// UsersDue returns the users eligible for an automatic send at the given
// HH:MM: enabled, matching schedule_time, and not yet sent today.
func (s *ScheduleStore) UsersDue(ctx context.Context, currentTime string) ([]int64, error) {
	query := `
		SELECT user_id FROM digest_schedules
		WHERE enabled = TRUE
		AND schedule_time = $1
		AND (last_sent IS NULL OR DATE(last_sent) < CURRENT_DATE)`

	var users []int64
	err := s.db.SelectContext(ctx, &users, query, currentTime)
	return users, err
}

func (s *ScheduleStore) MarkSent(ctx context.Context, userID int64) error {
	query := `UPDATE digest_schedules SET last_sent = NOW() WHERE user_id = $1`

	_, err := s.db.ExecContext(ctx, query, userID)
	return err
}
