package service

import (
	"context"
	"sort"

	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/analyzer/repository"
	"golang-sentiment-scryper/pkg/common"
	"golang-sentiment-scryper/pkg/logger"
)

// StatisticsService reports aggregates over stored results and feedback.
type StatisticsService interface {
	SentimentResults(ctx context.Context) ([]dto.SentimentStatistic, error)
	Combinations(ctx context.Context) ([]dto.Combination, error)
	ModelPerformance(ctx context.Context) ([]dto.ModelPerformance, error)
}

type statisticsService struct {
	results  repository.SentimentResultRepository
	feedback repository.FeedbackRepository
	logger   *logger.Logger
}

// NewStatisticsService creates a new StatisticsService.
func NewStatisticsService(results repository.SentimentResultRepository, feedback repository.FeedbackRepository, log *logger.Logger) StatisticsService {
	return &statisticsService{results: results, feedback: feedback, logger: log}
}

func (s *statisticsService) SentimentResults(ctx context.Context) ([]dto.SentimentStatistic, error) {
	rows, err := s.results.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load sentiment results", logger.ErrorField(err))
		return nil, err
	}

	stats := make([]dto.SentimentStatistic, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, dto.SentimentStatistic{
			ID:        r.ID,
			Query:     r.Query,
			Category:  r.Category,
			Title:     r.Title,
			Sentiment: r.Sentiment,
			Source:    r.Source,
			Model:     r.Model,
			CreatedAt: r.CreatedAt,
		})
	}
	return stats, nil
}

func (s *statisticsService) Combinations(ctx context.Context) ([]dto.Combination, error) {
	combinations, err := s.results.FindCombinations(ctx)
	if err != nil {
		s.logger.Error("Failed to load valid combinations", logger.ErrorField(err))
		return nil, err
	}
	if combinations == nil {
		combinations = []dto.Combination{}
	}
	return combinations, nil
}

// ModelPerformance returns thumbs up and down counts per model, sorted by model.
func (s *statisticsService) ModelPerformance(ctx context.Context) ([]dto.ModelPerformance, error) {
	counts, err := s.feedback.CountByModelAndType(ctx)
	if err != nil {
		s.logger.Error("Failed to aggregate feedback", logger.ErrorField(err))
		return nil, err
	}

	byModel := make(map[string]*dto.ModelPerformance)
	for _, c := range counts {
		perf, ok := byModel[c.ModelUsed]
		if !ok {
			perf = &dto.ModelPerformance{Model: c.ModelUsed}
			byModel[c.ModelUsed] = perf
		}
		switch c.FeedbackType {
		case common.FeedbackThumbsUp:
			perf.ThumbsUp += c.Count
		case common.FeedbackThumbsDown:
			perf.ThumbsDown += c.Count
		}
	}

	result := make([]dto.ModelPerformance, 0, len(byModel))
	for _, perf := range byModel {
		perf.Total = perf.ThumbsUp + perf.ThumbsDown
		if perf.Total > 0 {
			perf.UpPercentage = float64(perf.ThumbsUp) / float64(perf.Total) * 100
			perf.DownPercentage = float64(perf.ThumbsDown) / float64(perf.Total) * 100
		}
		result = append(result, *perf)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Model < result[j].Model })
	return result, nil
}
