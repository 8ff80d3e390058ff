package core

// SearchResult is a single web search hit tagged with the sub-query that
// produced it.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Query   string `json:"query,omitempty"`
}
