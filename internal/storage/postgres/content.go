package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"content_ingester/internal/domain"
)

const contentColumns = `platform, external_id, author_external_id, author_profile_image_url,
	author_display_name, text_body, title, image_url, video_url, like_count,
	comment_count, view_count, published_at, canonical_url, topic_refs`

type ContentStore struct {
	db *sqlx.DB
}

func NewContentStore(db *sqlx.DB) *ContentStore {
	return &ContentStore{db: db}
}

// ExistingExternalIDs reports which of ids are already stored for platform.
func (s *ContentStore) ExistingExternalIDs(ctx context.Context, platform domain.Platform, ids []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT external_id FROM content_records WHERE platform = $1 AND external_id = ANY($2)`

	var found []string
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &found, query, platform, pq.Array(ids)); err != nil {
		return nil, err
	}

	for _, id := range found {
		result[id] = true
	}
	return result, nil
}

// InsertBatch writes records in a single statement. Rows that already exist
// are left untouched; the number of rows actually inserted is returned.
func (s *ContentStore) InsertBatch(ctx context.Context, records []domain.ContentRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	const perRow = 15

	var sb strings.Builder
	sb.WriteString("INSERT INTO content_records (")
	sb.WriteString(contentColumns)
	sb.WriteString(") VALUES ")
	valueArgs := make([]interface{}, 0, len(records)*perRow)

	for i, r := range records {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 1; j <= perRow; j++ {
			if j > 1 {
				sb.WriteString(", ")
			}
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(i*perRow + j))
		}
		sb.WriteString(")")

		topicRefs := r.TopicRefs
		if topicRefs == nil {
			topicRefs = []int64{}
		}

		valueArgs = append(valueArgs,
			r.Platform,
			r.ExternalID,
			r.AuthorExternalID,
			r.AuthorProfileImageURL,
			r.AuthorDisplayName,
			r.TextBody,
			r.Title,
			r.ImageURL,
			r.VideoURL,
			r.LikeCount,
			r.CommentCount,
			r.ViewCount,
			r.PublishedAt,
			r.CanonicalURL,
			pq.Int64Array(topicRefs),
		)
	}
	sb.WriteString(" ON CONFLICT (platform, external_id) DO NOTHING")

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, sb.String(), valueArgs...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AddTopicRef appends topicID to the topic_refs of the given records unless
// already present, returning how many rows changed.
func (s *ContentStore) AddTopicRef(ctx context.Context, platform domain.Platform, externalIDs []string, topicID int64) (int64, error) {
	if len(externalIDs) == 0 {
		return 0, nil
	}

	query := `
		UPDATE content_records
		SET topic_refs = array_append(topic_refs, $3)
		WHERE platform = $1
		  AND external_id = ANY($2)
		  AND NOT ($3 = ANY(topic_refs))`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, platform, pq.Array(externalIDs), topicID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type contentRow struct {
	domain.ContentRecord
	TopicRefs pq.Int64Array `db:"topic_refs"`
}

// GetByExternalID returns nil, nil when the record does not exist.
func (s *ContentStore) GetByExternalID(ctx context.Context, platform domain.Platform, externalID string) (*domain.ContentRecord, error) {
	query := `SELECT id, ` + contentColumns + `, created_at
		FROM content_records
		WHERE platform = $1 AND external_id = $2`

	var row contentRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, platform, externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	record := row.ContentRecord
	record.TopicRefs = []int64(row.TopicRefs)
	return &record, nil
}

// ListByTopic returns records referencing topicID, newest first.
func (s *ContentStore) ListByTopic(ctx context.Context, topicID int64, limit int) ([]domain.ContentRecord, error) {
	query := `SELECT id, ` + contentColumns + `, created_at
		FROM content_records
		WHERE topic_refs @> ARRAY[$1]::BIGINT[]
		ORDER BY published_at DESC
		LIMIT $2`

	var rows []contentRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, topicID, limit); err != nil {
		return nil, err
	}

	records := make([]domain.ContentRecord, len(rows))
	for i, row := range rows {
		records[i] = row.ContentRecord
		records[i].TopicRefs = []int64(row.TopicRefs)
	}
	return records, nil
}
