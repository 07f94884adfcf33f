package news

import "errors"

// ErrUnavailable marks a failed or unconfigured search provider.
var ErrUnavailable = errors.New("news provider unavailable")

// Item is one headline.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// Result is what GetNews returns: the items plus whether they came from cache or the fallback list.
type Result struct {
	News     []Item `json:"news"`
	Cached   bool   `json:"cached"`
	Degraded bool   `json:"degraded"`
}
