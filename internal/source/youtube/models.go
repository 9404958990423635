package youtube

// SearchResponse represents the search.list response structure.
type SearchResponse struct {
	NextPageToken string       `json:"nextPageToken"`
	Items         []SearchItem `json:"items"`
}

type SearchItem struct {
	ID      SearchID `json:"id"`
	Snippet Snippet  `json:"snippet"`
}

type SearchID struct {
	Kind    string `json:"kind"`
	VideoID string `json:"videoId"`
}

type Snippet struct {
	PublishedAt  string     `json:"publishedAt"`
	ChannelID    string     `json:"channelId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ChannelTitle string     `json:"channelTitle"`
	CustomURL    string     `json:"customUrl"`
	Thumbnails   Thumbnails `json:"thumbnails"`
}

type Thumbnails struct {
	Default *Thumbnail `json:"default"`
	Medium  *Thumbnail `json:"medium"`
	High    *Thumbnail `json:"high"`
}

type Thumbnail struct {
	URL string `json:"url"`
}

// Best returns the largest available thumbnail URL.
func (t Thumbnails) Best() string {
	for _, th := range []*Thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.URL != "" {
			return th.URL
		}
	}
	return ""
}

// VideosResponse represents videos.list with part=statistics.
type VideosResponse struct {
	Items []VideoItem `json:"items"`
}

type VideoItem struct {
	ID         string          `json:"id"`
	Statistics VideoStatistics `json:"statistics"`
}

// VideoStatistics counters are encoded as strings by the API.
type VideoStatistics struct {
	ViewCount    string `json:"viewCount"`
	LikeCount    string `json:"likeCount"`
	CommentCount string `json:"commentCount"`
}

// ChannelsResponse represents channels.list with part=snippet,statistics.
type ChannelsResponse struct {
	Items []ChannelItem `json:"items"`
}

type ChannelItem struct {
	ID         string            `json:"id"`
	Snippet    Snippet           `json:"snippet"`
	Statistics ChannelStatistics `json:"statistics"`
}

type ChannelStatistics struct {
	SubscriberCount string `json:"subscriberCount"`
	VideoCount      string `json:"videoCount"`
}
