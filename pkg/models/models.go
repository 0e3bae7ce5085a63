package models

import "time"

// Quote is a single quotation scraped from a page
type Quote struct {
	Text   string   `json:"text"`
	Author string   `json:"author"`
	Tags   []string `json:"tags"`
}

// Field names of Quote in declaration order, used as the default output schema
const (
	FieldText   = "text"
	FieldAuthor = "author"
	FieldTags   = "tags"
)

// QuoteFields returns the output schema in declaration order
func QuoteFields() []string {
	return []string{FieldText, FieldAuthor, FieldTags}
}

// Page is the result of extracting one fetched document
type Page struct {
	Number  int     `json:"number"`
	URL     string  `json:"url"`
	Quotes  []Quote `json:"quotes"`
	HasNext bool    `json:"has_next"`
}

// RunSummary describes a completed export
type RunSummary struct {
	RunID     string        `json:"run_id"`
	Pages     int           `json:"pages"`
	Quotes    int           `json:"quotes"`
	Output    string        `json:"output"`
	Duration  time.Duration `json:"duration"`
	Truncated bool          `json:"truncated,omitempty"`
}
