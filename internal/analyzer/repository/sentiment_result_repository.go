package repository

import (
	"context"
	"errors"
	"strings"

	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/entity"

	"gorm.io/gorm"
)

// SentimentResultRepository defines the interface for interacting with persisted classifications.
type SentimentResultRepository interface {
	Create(ctx context.Context, result *entity.SentimentResult) error
	FindFingerprintFields(ctx context.Context) ([]entity.SentimentResult, error)
	FindAll(ctx context.Context) ([]entity.SentimentResult, error)
	FindCombinations(ctx context.Context) ([]dto.Combination, error)
}

// NewSentimentResultRepository creates a new instance of SentimentResultRepository.
func NewSentimentResultRepository(db *gorm.DB) SentimentResultRepository {
	return &sentimentResultRepository{
		db: db,
	}
}

type sentimentResultRepository struct {
	db *gorm.DB
}

// Create inserts one row in its own transaction.
func (r *sentimentResultRepository) Create(ctx context.Context, result *entity.SentimentResult) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(result).Error
	})
	return translateError(err)
}

// FindFingerprintFields loads only the columns the duplicate index needs.
func (r *sentimentResultRepository) FindFingerprintFields(ctx context.Context) ([]entity.SentimentResult, error) {
	var results []entity.SentimentResult
	err := r.db.WithContext(ctx).
		Model(&entity.SentimentResult{}).
		Select("title", "source", "model").
		Find(&results).Error
	return results, err
}

func (r *sentimentResultRepository) FindAll(ctx context.Context) ([]entity.SentimentResult, error) {
	var results []entity.SentimentResult
	err := r.db.WithContext(ctx).Order("id ASC").Find(&results).Error
	return results, err
}

func (r *sentimentResultRepository) FindCombinations(ctx context.Context) ([]dto.Combination, error) {
	var combinations []dto.Combination
	err := r.db.WithContext(ctx).
		Model(&entity.SentimentResult{}).
		Distinct("query", "source", "model").
		Order("query ASC, source ASC, model ASC").
		Scan(&combinations).Error
	return combinations, err
}

// translateError maps unique violations to dto.ErrAlreadyExists. Dialects
// without error translation are matched on their message.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return dto.ErrAlreadyExists
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint") {
		return dto.ErrAlreadyExists
	}
	return err
}
