package dto

import (
	"encoding/json"
	"time"
)

// CreateFeedbackRequest is the payload of POST /feedback.
type CreateFeedbackRequest struct {
	ItemID             string          `json:"item_id"`
	ItemTitle          string          `json:"item_title"`
	SourceType         string          `json:"source_type"`
	PredictedSentiment string          `json:"predicted_sentiment"`
	FeedbackType       string          `json:"feedback_type"`
	FeedbackText       string          `json:"feedback_text"`
	ModelUsed          string          `json:"model_used"`
	Metadata           json.RawMessage `json:"metadata,omitempty" swaggertype:"object"`
}

// FeedbackResponse is a stored feedback entry.
type FeedbackResponse struct {
	ID                 uint            `json:"id"`
	ItemID             string          `json:"item_id"`
	ItemTitle          string          `json:"item_title"`
	SourceType         string          `json:"source_type"`
	PredictedSentiment string          `json:"predicted_sentiment"`
	FeedbackType       string          `json:"feedback_type"`
	FeedbackText       string          `json:"feedback_text,omitempty"`
	UserID             string          `json:"user_id"`
	ModelUsed          string          `json:"model_used"`
	Metadata           json.RawMessage `json:"metadata,omitempty" swaggertype:"object"`
	Timestamp          time.Time       `json:"timestamp"`
}
