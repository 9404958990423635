package newsapi

// EverythingResponse represents the /everything response structure.
type EverythingResponse struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

type Article struct {
	Source      ArticleSource `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	URLToImage  string        `json:"urlToImage"`
	PublishedAt string        `json:"publishedAt"`
	Content     string        `json:"content"`
}

type ArticleSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SourcesResponse represents /top-headlines/sources.
type SourcesResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Sources []SourceInfo `json:"sources"`
}

type SourceInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}
