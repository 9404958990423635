package instagram

// MediaResponse represents one page of hashtag media.
type MediaResponse struct {
	Data   []Media `json:"data"`
	Paging Paging  `json:"paging"`
}

type Media struct {
	ID            string `json:"id"`
	Shortcode     string `json:"shortcode"`
	Caption       string `json:"caption"`
	MediaType     string `json:"media_type"`
	MediaURL      string `json:"media_url"`
	VideoURL      string `json:"video_url"`
	ThumbnailURL  string `json:"thumbnail_url"`
	Permalink     string `json:"permalink"`
	Timestamp     string `json:"timestamp"`
	TakenAt       int64  `json:"taken_at"`
	LikeCount     *int64 `json:"like_count"`
	CommentsCount *int64 `json:"comments_count"`
	PlayCount     *int64 `json:"play_count"`
	Owner         Owner  `json:"owner"`
}

type Owner struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	ProfilePicURL string `json:"profile_pic_url"`
}

type Paging struct {
	NextCursor string `json:"next_cursor"`
	HasMore    *bool  `json:"has_more"`
}

// UserResponse represents GET /users/{id}.
type UserResponse struct {
	Data UserProfile `json:"data"`
}

type UserProfile struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	ProfilePicURL string `json:"profile_pic_url"`
	FollowerCount int64  `json:"follower_count"`
	MediaCount    int64  `json:"media_count"`
}
