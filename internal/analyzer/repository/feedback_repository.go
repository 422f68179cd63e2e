package repository

import (
	"context"

	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/entity"

	"gorm.io/gorm"
)

// FeedbackRepository defines the interface for interacting with feedback data.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	Exists(ctx context.Context, userID, itemTitle, modelUsed string) (bool, error)
	FindAll(ctx context.Context) ([]entity.Feedback, error)
	CountByModelAndType(ctx context.Context) ([]dto.FeedbackCount, error)
}

// NewFeedbackRepository creates a new instance of FeedbackRepository.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{
		db: db,
	}
}

type feedbackRepository struct {
	db *gorm.DB
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	return translateError(r.db.WithContext(ctx).Create(feedback).Error)
}

func (r *feedbackRepository) Exists(ctx context.Context, userID, itemTitle, modelUsed string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Feedback{}).
		Where("user_id = ? AND item_title = ? AND model_used = ?", userID, itemTitle, modelUsed).
		Count(&count).Error
	return count > 0, err
}

func (r *feedbackRepository) FindAll(ctx context.Context) ([]entity.Feedback, error) {
	var feedback []entity.Feedback
	err := r.db.WithContext(ctx).Order("timestamp DESC, id DESC").Find(&feedback).Error
	return feedback, err
}

func (r *feedbackRepository) CountByModelAndType(ctx context.Context) ([]dto.FeedbackCount, error) {
	var counts []dto.FeedbackCount
	err := r.db.WithContext(ctx).
		Model(&entity.Feedback{}).
		Select("model_used, feedback_type, COUNT(*) AS count").
		Group("model_used, feedback_type").
		Order("model_used ASC").
		Scan(&counts).Error
	return counts, err
}
