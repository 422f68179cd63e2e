package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Feedback is a user's thumbs up or down on a single classification.
type Feedback struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	ItemID             string         `gorm:"not null" json:"item_id"`
	ItemTitle          string         `gorm:"not null;uniqueIndex:uq_feedback_user_item_model" json:"item_title"`
	SourceType         string         `gorm:"not null" json:"source_type"`
	PredictedSentiment string         `gorm:"not null" json:"predicted_sentiment"`
	FeedbackType       string         `gorm:"not null" json:"feedback_type"`
	FeedbackText       string         `json:"feedback_text,omitempty"`
	UserID             string         `gorm:"not null;uniqueIndex:uq_feedback_user_item_model" json:"user_id"`
	ModelUsed          string         `gorm:"not null;uniqueIndex:uq_feedback_user_item_model" json:"model_used"`
	Metadata           datatypes.JSON `json:"metadata,omitempty"`
	Timestamp          time.Time      `gorm:"autoCreateTime" json:"timestamp"`
}

func (Feedback) TableName() string {
	return "feedback"
}
