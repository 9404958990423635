package domain

import "time"

// Platform identifies the upstream content platform a record came from.
type Platform string

const (
	PlatformImageFeed Platform = "image-feed"
	PlatformVideo     Platform = "video"
	PlatformMicroblog Platform = "microblog"
	PlatformNews      Platform = "news"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformImageFeed, PlatformVideo, PlatformMicroblog, PlatformNews:
		return true
	}
	return false
}

// ContentRecord is a normalized unit of ingested content.
// (Platform, ExternalID) is unique.
type ContentRecord struct {
	ID                    int64     `db:"id" json:"id"`
	Platform              Platform  `db:"platform" json:"platform"`
	ExternalID            string    `db:"external_id" json:"external_id"`
	AuthorExternalID      string    `db:"author_external_id" json:"author_external_id"`
	AuthorProfileImageURL string    `db:"author_profile_image_url" json:"author_profile_image_url,omitempty"`
	AuthorDisplayName     string    `db:"author_display_name" json:"author_display_name,omitempty"`
	TextBody              string    `db:"text_body" json:"text_body,omitempty"`
	Title                 *string   `db:"title" json:"title,omitempty"`
	ImageURL              string    `db:"image_url" json:"image_url,omitempty"`
	VideoURL              string    `db:"video_url" json:"video_url,omitempty"`
	LikeCount             int64     `db:"like_count" json:"like_count"`
	CommentCount          int64     `db:"comment_count" json:"comment_count"`
	ViewCount             int64     `db:"view_count" json:"view_count"`
	PublishedAt           time.Time `db:"published_at" json:"published_at"`
	CanonicalURL          string    `db:"canonical_url" json:"canonical_url"`
	TopicRefs             []int64   `db:"-" json:"topic_refs"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}

// AddTopic appends topicID to TopicRefs unless it is already present.
func (c *ContentRecord) AddTopic(topicID int64) {
	for _, id := range c.TopicRefs {
		if id == topicID {
			return
		}
	}
	c.TopicRefs = append(c.TopicRefs, topicID)
}

// Page is one page of candidates returned by a platform adapter.
// NextCursor is empty when the upstream signalled the end of pagination.
type Page struct {
	Candidates []ContentRecord
	NextCursor string
	HadItems   bool
}

// FetchCursor is the in-memory pagination state of a single ingest run.
type FetchCursor struct {
	Token        string
	TotalFetched int
}

// Advance moves the cursor to the next token and reports whether it changed.
func (c *FetchCursor) Advance(next string, fetched int) bool {
	c.TotalFetched += fetched
	changed := next != c.Token
	c.Token = next
	return changed
}
