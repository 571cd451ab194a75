package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"news_digest/internal/domain"
)

type InterestStore struct {
	db *sqlx.DB
}

func NewInterestStore(db *sqlx.DB) *InterestStore {
	return &InterestStore{db: db}
}

func (s *InterestStore) Interests(ctx context.Context, userID int64) ([]domain.Category, error) {
	query := `SELECT category FROM user_interests WHERE user_id = $1 ORDER BY added_at`

	var raw []string
	if err := s.db.SelectContext(ctx, &raw, query, userID); err != nil {
		return nil, err
	}

	categories := make([]domain.Category, len(raw))
	for i, c := range raw {
		categories[i] = domain.Category(c)
	}
	return categories, nil
}

func (s *InterestStore) Add(ctx context.Context, userID int64, category domain.Category) error {
	query := `
		INSERT INTO user_interests (user_id, category)
		VALUES ($1, $2)
		ON CONFLICT (user_id, category) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query, userID, category)
	return err
}

func (s *InterestStore) Remove(ctx context.Context, userID int64, category domain.Category) error {
	query := `DELETE FROM user_interests WHERE user_id = $1 AND category = $2`

	_, err := s.db.ExecContext(ctx, query, userID, category)
	return err
}
