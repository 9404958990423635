package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"content_ingester/internal/domain"
)

const authorColumns = `id, platform, author_external_id, username, display_name,
	profile_image_url, follower_count, post_count, profile_url, created_at`

type AuthorStore struct {
	db *sqlx.DB
}

func NewAuthorStore(db *sqlx.DB) *AuthorStore {
	return &AuthorStore{db: db}
}

func (s *AuthorStore) Get(ctx context.Context, platform domain.Platform, externalID string) (*domain.AuthorRecord, error) {
	query := `SELECT ` + authorColumns + `
		FROM authors
		WHERE platform = $1 AND author_external_id = $2`

	var author domain.AuthorRecord
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &author, query, platform, externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// CreateIfAbsent inserts author unless a row for the same platform and
// external id exists, then returns whichever row is stored.
func (s *AuthorStore) CreateIfAbsent(ctx context.Context, author *domain.AuthorRecord) (*domain.AuthorRecord, error) {
	query := `
		INSERT INTO authors (
			platform, author_external_id, username, display_name,
			profile_image_url, follower_count, post_count, profile_url
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (platform, author_external_id) DO NOTHING
		RETURNING ` + authorColumns

	exec := GetExecutor(ctx, s.db)

	var stored domain.AuthorRecord
	err := sqlx.GetContext(ctx, exec, &stored, query,
		author.Platform,
		author.AuthorExternalID,
		author.Username,
		author.DisplayName,
		author.ProfileImageURL,
		author.FollowerCount,
		author.PostCount,
		author.ProfileURL,
	)

	if errors.Is(err, sql.ErrNoRows) {
		existing, getErr := s.Get(ctx, author.Platform, author.AuthorExternalID)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, errors.New("author vanished after conflicting insert")
		}
		return existing, nil
	}
	if err != nil {
		return nil, err
	}

	return &stored, nil
}
