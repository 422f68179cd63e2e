package dto

import "encoding/json"

// SearchRequest is a search for one query in one category.
type SearchRequest struct {
	Query    string `query:"query"`
	Category string `query:"category"`
	Source   string `query:"source"`
	Count    int    `query:"count"`
	SortBy   string `query:"sort_by"`
	Country  string `query:"country"`
	Channel  string `query:"channel"`
	Model    string `query:"model"`
}

// ContentItem is an item returned by a source search, before classification.
type ContentItem struct {
	ID           string
	Title        string
	Description  string
	URL          string
	Source       string
	Channel      string
	PublishedAt  string
	Thumbnail    string
	ViewCount    string
	LikeCount    string
	CommentCount string
}

// SentimentRecord is the normalized result emitted for both news and video.
type SentimentRecord struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	URL          string  `json:"url"`
	Source       string  `json:"source"`
	PublishedAt  string  `json:"publishedAt"`
	Sentiment    string  `json:"sentiment"`
	Explanation  *string `json:"explanation"`
	Model        string  `json:"model,omitempty"`
	Channel      string  `json:"channel,omitempty"`
	Thumbnail    string  `json:"thumbnail,omitempty"`
	ViewCount    string  `json:"viewCount,omitempty"`
	LikeCount    string  `json:"likeCount,omitempty"`
	CommentCount string  `json:"commentCount,omitempty"`
}

// StreamEvent is one element of a result stream: either a record or a
// terminal error message.
type StreamEvent struct {
	Record *SentimentRecord
	Error  string
}

// IsError reports whether the event carries an error message.
func (e StreamEvent) IsError() bool {
	return e.Record == nil
}

// MarshalJSON renders records as-is and errors as {"error": "..."}.
func (e StreamEvent) MarshalJSON() ([]byte, error) {
	if e.Record == nil {
		return json.Marshal(ErrorResponse{Error: e.Error})
	}
	return json.Marshal(e.Record)
}

// ExplanationResponse is returned by the explanation endpoint.
type ExplanationResponse struct {
	Sentiment   string `json:"sentiment"`
	Explanation string `json:"explanation"`
	Model       string `json:"model"`
}
