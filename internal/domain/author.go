package domain

import "time"

// AuthorRecord is the local identity of a platform-native author.
type AuthorRecord struct {
	ID               int64     `db:"id" json:"id"`
	Platform         Platform  `db:"platform" json:"platform"`
	AuthorExternalID string    `db:"author_external_id" json:"author_external_id"`
	Username         string    `db:"username" json:"username"`
	DisplayName      string    `db:"display_name" json:"display_name"`
	ProfileImageURL  string    `db:"profile_image_url" json:"profile_image_url"`
	FollowerCount    int64     `db:"follower_count" json:"follower_count"`
	PostCount        int64     `db:"post_count" json:"post_count"`
	ProfileURL       string    `db:"profile_url" json:"profile_url"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// AuthorProfile is what a platform profile API reports about an author.
type AuthorProfile struct {
	ExternalID      string
	Username        string
	DisplayName     string
	ProfileImageURL string
	FollowerCount   int64
	PostCount       int64
	ProfileURL      string
}

// ToRecord builds the AuthorRecord persisted for a freshly fetched profile.
func (p AuthorProfile) ToRecord(platform Platform) *AuthorRecord {
	return &AuthorRecord{
		Platform:         platform,
		AuthorExternalID: p.ExternalID,
		Username:         p.Username,
		DisplayName:      p.DisplayName,
		ProfileImageURL:  p.ProfileImageURL,
		FollowerCount:    p.FollowerCount,
		PostCount:        p.PostCount,
		ProfileURL:       p.ProfileURL,
	}
}
