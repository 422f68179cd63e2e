package entity

import "time"

// SentimentResult is one classified headline or video title. A row is written
// at most once per normalized (title, source, model).
type SentimentResult struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Query     string    `gorm:"not null" json:"query"`
	Category  string    `gorm:"not null" json:"category"`
	Title     string    `gorm:"not null" json:"title"`
	Sentiment string    `gorm:"not null" json:"sentiment"`
	Source    string    `gorm:"not null" json:"source"`
	Model     string    `gorm:"not null" json:"model"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the SentimentResult model.
func (SentimentResult) TableName() string {
	return "sentiment_results"
}
