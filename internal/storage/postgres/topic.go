package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"content_ingester/internal/domain"
)

type TopicStore struct {
	db *sqlx.DB
}

func NewTopicStore(db *sqlx.DB) *TopicStore {
	return &TopicStore{db: db}
}

func (s *TopicStore) ListActive(ctx context.Context) ([]domain.Topic, error) {
	query := `SELECT id, name, active FROM topics WHERE active ORDER BY id`

	var topics []domain.Topic
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &topics, query)
	return topics, err
}

func (s *TopicStore) GetByID(ctx context.Context, id int64) (*domain.Topic, error) {
	var topic domain.Topic
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &topic,
		`SELECT id, name, active FROM topics WHERE id = $1`, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("topic %d: %w", id, domain.ErrTopicNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (s *TopicStore) Create(ctx context.Context, name string, active bool) (int64, error) {
	var id int64
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx,
		`INSERT INTO topics (name, active) VALUES ($1, $2) RETURNING id`,
		name, active,
	).Scan(&id)
	return id, err
}
