package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/analyzer/metrics"
	"golang-sentiment-scryper/internal/analyzer/repository"
	"golang-sentiment-scryper/internal/entity"
	"golang-sentiment-scryper/pkg/common"
	"golang-sentiment-scryper/pkg/logger"
)

// ClassificationService labels text with a chat model and persists results.
type ClassificationService interface {
	// Classify returns positive, negative, neutral, unknown or error.
	Classify(ctx context.Context, text, model string) string
	// ClassifyWithExplanation returns the label and a one sentence justification.
	ClassifyWithExplanation(ctx context.Context, text, model string) (string, string)
	// Save inserts one result row.
	Save(ctx context.Context, query, category, title, sentiment, source, model string) error
}

type classificationService struct {
	chat      repository.ChatRepository
	memo      repository.ClassificationCacheRepository
	results   repository.SentimentResultRepository
	publisher repository.ResultEventPublisher
	logger    *logger.Logger
}

// NewClassificationService creates a new ClassificationService.
func NewClassificationService(
	chat repository.ChatRepository,
	memo repository.ClassificationCacheRepository,
	results repository.SentimentResultRepository,
	publisher repository.ResultEventPublisher,
	log *logger.Logger,
) ClassificationService {
	return &classificationService{
		chat:      chat,
		memo:      memo,
		results:   results,
		publisher: publisher,
		logger:    log,
	}
}

func (s *classificationService) Classify(ctx context.Context, text, model string) string {
	key := model + ":" + strings.TrimSpace(text)
	if cached, ok := s.memo.Get(ctx, key); ok {
		metrics.CacheLookups.WithLabelValues("classification", "hit").Inc()
		s.logger.Debug("Cache hit for sentiment", logger.StringField("key", key))
		return cached.Label
	}
	metrics.CacheLookups.WithLabelValues("classification", "miss").Inc()

	system, user := repository.BuildSentimentRequest(text)
	start := time.Now()
	content, err := s.chat.Chat(ctx, dto.ChatRequest{Model: model, System: system, User: user, Text: text})
	metrics.ClassifierRequestDuration.WithLabelValues(model, "sentiment").Observe(time.Since(start).Seconds())

	label := common.SentimentError
	if err != nil {
		// The caller went away; the label says nothing about the text.
		if ctx.Err() != nil {
			s.logger.Warn("Sentiment request cancelled", logger.StringField("model", model), logger.ErrorField(err))
			return label
		}
		s.logger.Error("Sentiment request failed", logger.StringField("model", model), logger.ErrorField(err))
	} else {
		label = ParseSentimentLabel(content)
	}

	metrics.Classifications.WithLabelValues(model, label).Inc()
	s.memo.Set(ctx, key, repository.Classification{Label: label})
	return label
}

func (s *classificationService) ClassifyWithExplanation(ctx context.Context, text, model string) (string, string) {
	key := model + ":" + strings.TrimSpace(text) + "_with_explanation"
	if cached, ok := s.memo.Get(ctx, key); ok {
		s.logger.Debug("Cache hit for explanation", logger.StringField("key", key))
		return cached.Label, cached.Explanation
	}

	label := s.Classify(ctx, text, model)

	system, user := repository.BuildExplanationRequest(text, label)
	start := time.Now()
	content, err := s.chat.Chat(ctx, dto.ChatRequest{Model: model, System: system, User: user, Text: text, Label: label})
	metrics.ClassifierRequestDuration.WithLabelValues(model, "explanation").Observe(time.Since(start).Seconds())
	if err != nil {
		var statusErr *repository.StatusError
		if errors.As(err, &statusErr) {
			return label, "Unable to generate explanation: " + statusErr.Body
		}
		return label, "Explanation error: " + err.Error()
	}

	explanation := strings.TrimSpace(content)
	s.memo.Set(ctx, key, repository.Classification{Label: label, Explanation: explanation})
	return label, explanation
}

func (s *classificationService) Save(ctx context.Context, query, category, title, sentiment, source, model string) error {
	result := &entity.SentimentResult{
		Query:     query,
		Category:  category,
		Title:     title,
		Sentiment: sentiment,
		Source:    source,
		Model:     model,
	}
	if err := s.results.Create(ctx, result); err != nil {
		metrics.PersistedResults.WithLabelValues(category, "failed").Inc()
		s.logger.Error("Error saving sentiment result", logger.StringField("title", title), logger.ErrorField(err))
		return err
	}
	metrics.PersistedResults.WithLabelValues(category, "saved").Inc()

	event := repository.ResultEvent{
		Query:     query,
		Category:  category,
		Title:     title,
		Sentiment: sentiment,
		Source:    source,
		Model:     model,
		SavedAt:   result.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish result event", logger.ErrorField(err))
	}
	return nil
}

// ParseSentimentLabel takes the first token of a model reply, strips trailing
// punctuation and maps anything outside the label vocabulary to unknown.
func ParseSentimentLabel(content string) string {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return common.SentimentUnknown
	}
	token := strings.TrimRight(strings.ToLower(fields[0]), ".,!?;:")
	switch token {
	case common.SentimentPositive, common.SentimentNegative, common.SentimentNeutral:
		return token
	default:
		return common.SentimentUnknown
	}
}
