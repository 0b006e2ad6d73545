package models

// Result is a single normalized web search hit. Providers map their native
// payloads onto this shape; order reflects the provider's ranking.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}
