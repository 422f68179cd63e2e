package dto

import "time"

// SentimentStatistic is one persisted classification.
type SentimentStatistic struct {
	ID        uint      `json:"id"`
	Query     string    `json:"query"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Sentiment string    `json:"sentiment"`
	Source    string    `json:"source"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// Combination is a distinct (query, source, model) seen in sentiment_results.
type Combination struct {
	Query  string `json:"query"`
	Source string `json:"source"`
	Model  string `json:"model"`
}

// FeedbackCount is a raw aggregation row of feedback per model and type.
type FeedbackCount struct {
	ModelUsed    string
	FeedbackType string
	Count        int64
}

// ModelPerformance summarizes user feedback for one model.
type ModelPerformance struct {
	Model          string  `json:"model"`
	ThumbsUp       int64   `json:"thumbs_up"`
	ThumbsDown     int64   `json:"thumbs_down"`
	Total          int64   `json:"total"`
	UpPercentage   float64 `json:"up_percentage"`
	DownPercentage float64 `json:"down_percentage"`
}
