package twitter

// SearchResponse represents the recent search response structure.
type SearchResponse struct {
	Data     []Tweet  `json:"data"`
	Includes Includes `json:"includes"`
	Meta     Meta     `json:"meta"`
}

type Tweet struct {
	ID            string       `json:"id"`
	Text          string       `json:"text"`
	AuthorID      string       `json:"author_id"`
	CreatedAt     string       `json:"created_at"`
	PublicMetrics TweetMetrics `json:"public_metrics"`
	Attachments   *Attachments `json:"attachments"`
}

type TweetMetrics struct {
	LikeCount       int64 `json:"like_count"`
	ReplyCount      int64 `json:"reply_count"`
	RetweetCount    int64 `json:"retweet_count"`
	QuoteCount      int64 `json:"quote_count"`
	ImpressionCount int64 `json:"impression_count"`
}

type Attachments struct {
	MediaKeys []string `json:"media_keys"`
}

type Includes struct {
	Users []User  `json:"users"`
	Media []Media `json:"media"`
}

type User struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Username        string      `json:"username"`
	ProfileImageURL string      `json:"profile_image_url"`
	PublicMetrics   UserMetrics `json:"public_metrics"`
}

type UserMetrics struct {
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	TweetCount     int64 `json:"tweet_count"`
}

type Media struct {
	MediaKey        string    `json:"media_key"`
	Type            string    `json:"type"`
	URL             string    `json:"url"`
	PreviewImageURL string    `json:"preview_image_url"`
	Variants        []Variant `json:"variants"`
}

type Variant struct {
	BitRate     int    `json:"bit_rate"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
}

type Meta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
}

// UserResponse represents GET /users/{id}.
type UserResponse struct {
	Data   User       `json:"data"`
	Errors []APIError `json:"errors"`
}

type APIError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}
