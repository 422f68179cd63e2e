package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/analyzer/repository"
	"golang-sentiment-scryper/internal/entity"
	"golang-sentiment-scryper/pkg/common"
	"golang-sentiment-scryper/pkg/logger"

	"gorm.io/datatypes"
)

// FeedbackService records and lists user feedback on classifications.
type FeedbackService interface {
	Submit(ctx context.Context, userID string, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error)
	List(ctx context.Context) ([]dto.FeedbackResponse, error)
}

type feedbackService struct {
	repo   repository.FeedbackRepository
	logger *logger.Logger
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(repo repository.FeedbackRepository, log *logger.Logger) FeedbackService {
	return &feedbackService{repo: repo, logger: log}
}

// Submit stores one feedback entry. A user may rate an item title once per
// model; a second attempt returns dto.ErrAlreadyExists.
func (s *feedbackService) Submit(ctx context.Context, userID string, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error) {
	if err := validateFeedback(userID, req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, userID, req.ItemTitle, req.ModelUsed)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing feedback: %w", err)
	}
	if exists {
		return nil, dto.ErrAlreadyExists
	}

	feedback := &entity.Feedback{
		ItemID:             req.ItemID,
		ItemTitle:          req.ItemTitle,
		SourceType:         req.SourceType,
		PredictedSentiment: req.PredictedSentiment,
		FeedbackType:       req.FeedbackType,
		FeedbackText:       req.FeedbackText,
		UserID:             userID,
		ModelUsed:          req.ModelUsed,
	}
	if len(req.Metadata) > 0 {
		feedback.Metadata = datatypes.JSON(req.Metadata)
	}

	if err := s.repo.Create(ctx, feedback); err != nil {
		if errors.Is(err, dto.ErrAlreadyExists) {
			return nil, err
		}
		s.logger.Error("Failed to save feedback", logger.StringField("user_id", userID), logger.ErrorField(err))
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	s.logger.Info("Feedback recorded",
		logger.StringField("user_id", userID),
		logger.StringField("model", req.ModelUsed),
		logger.StringField("feedback_type", req.FeedbackType),
	)

	resp := toFeedbackResponse(*feedback)
	return &resp, nil
}

func (s *feedbackService) List(ctx context.Context) ([]dto.FeedbackResponse, error) {
	feedback, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.FeedbackResponse, 0, len(feedback))
	for _, f := range feedback {
		resp = append(resp, toFeedbackResponse(f))
	}
	return resp, nil
}

func validateFeedback(userID string, req *dto.CreateFeedbackRequest) error {
	switch {
	case strings.TrimSpace(userID) == "":
		return fmt.Errorf("%w: missing user", dto.ErrInvalidInput)
	case strings.TrimSpace(req.ItemID) == "", strings.TrimSpace(req.ItemTitle) == "":
		return fmt.Errorf("%w: item_id and item_title are required", dto.ErrInvalidInput)
	case req.FeedbackType != common.FeedbackThumbsUp && req.FeedbackType != common.FeedbackThumbsDown:
		return fmt.Errorf("%w: feedback_type must be %s or %s", dto.ErrInvalidInput, common.FeedbackThumbsUp, common.FeedbackThumbsDown)
	case strings.TrimSpace(req.ModelUsed) == "":
		return fmt.Errorf("%w: model_used is required", dto.ErrInvalidInput)
	}
	if len(req.Metadata) > 0 && !json.Valid(req.Metadata) {
		return fmt.Errorf("%w: metadata must be valid JSON", dto.ErrInvalidInput)
	}
	return nil
}

func toFeedbackResponse(f entity.Feedback) dto.FeedbackResponse {
	resp := dto.FeedbackResponse{
		ID:                 f.ID,
		ItemID:             f.ItemID,
		ItemTitle:          f.ItemTitle,
		SourceType:         f.SourceType,
		PredictedSentiment: f.PredictedSentiment,
		FeedbackType:       f.FeedbackType,
		FeedbackText:       f.FeedbackText,
		UserID:             f.UserID,
		ModelUsed:          f.ModelUsed,
		Timestamp:          f.Timestamp,
	}
	if len(f.Metadata) > 0 {
		resp.Metadata = json.RawMessage(f.Metadata)
	}
	return resp
}
