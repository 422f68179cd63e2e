package service

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/analyzer/metrics"
	"golang-sentiment-scryper/pkg/common"
	"golang-sentiment-scryper/pkg/logger"
	"golang-sentiment-scryper/pkg/utils"
)

// DefaultResultCount is used when a search does not ask for a count.
const DefaultResultCount = 10

// SentimentAnalyzer streams classified results for one content category.
type SentimentAnalyzer interface {
	// Stream yields at most req.Count records, or a single error event. The
	// sequence is lazy and stops as soon as the consumer stops pulling.
	Stream(ctx context.Context, req dto.SearchRequest) iter.Seq[dto.StreamEvent]
	// Explain returns the label and explanation for a previously seen item.
	Explain(ctx context.Context, contentID, text, model string) (string, string)
	// PurgeExpired drops stale result cache entries.
	PurgeExpired() int
}

// SourceAdapter is the per-provider part of a SentimentAnalyzer.
type SourceAdapter interface {
	Category() string
	// Fetch returns candidate items in provider order. ContentItem.Source is
	// the name used for persistence and duplicate detection.
	Fetch(ctx context.Context, req dto.SearchRequest) ([]dto.ContentItem, error)
	Enrich(ctx context.Context, items []dto.ContentItem) []dto.ContentItem
	Record(item dto.ContentItem, sentiment string) dto.SentimentRecord
	NoResultsMessage(query string) string
}

// sourceError is a fetch failure whose message is shown to the user as is.
type sourceError struct {
	message string
	err     error
}

func (e *sourceError) Error() string { return e.message }

func (e *sourceError) Unwrap() error { return e.err }

type sentimentStreamer struct {
	adapter      SourceAdapter
	classifier   ClassificationService
	index        *DuplicateIndex
	cache        ResultCache
	defaultModel string
	logger       *logger.Logger
}

func newSentimentStreamer(adapter SourceAdapter, classifier ClassificationService, index *DuplicateIndex, cache ResultCache, defaultModel string, log *logger.Logger) *sentimentStreamer {
	if defaultModel == "" {
		defaultModel = common.DefaultModel
	}
	return &sentimentStreamer{
		adapter:      adapter,
		classifier:   classifier,
		index:        index,
		cache:        cache,
		defaultModel: defaultModel,
		logger:       log,
	}
}

func (s *sentimentStreamer) Stream(ctx context.Context, req dto.SearchRequest) iter.Seq[dto.StreamEvent] {
	if req.Model == "" {
		req.Model = s.defaultModel
	}
	if req.Count <= 0 {
		req.Count = DefaultResultCount
	}
	category := s.adapter.Category()

	return func(yield func(dto.StreamEvent) bool) {
		items, err := s.adapter.Fetch(ctx, req)
		if err != nil {
			metrics.SourceRequests.WithLabelValues(category, "failed").Inc()
			yield(errorEvent(s.fetchErrorMessage(err)))
			return
		}
		metrics.SourceRequests.WithLabelValues(category, "ok").Inc()

		items = s.adapter.Enrich(ctx, items)
		terms := utils.PrepareQueryTerms(req.Query)

		var included, filtered, duplicates int
		defer func() {
			s.logger.Info("Summary",
				logger.StringField("category", category),
				logger.StringField("query", req.Query),
				logger.IntField("requested", req.Count),
				logger.IntField("returned", len(items)),
				logger.IntField("filtered", filtered),
				logger.IntField("included", included),
				logger.IntField("duplicates", duplicates),
			)
		}()

		for _, item := range items {
			if included >= req.Count || ctx.Err() != nil {
				break
			}

			if !utils.TitleMatchesQuery(utils.NormalizeText(item.Title), terms) {
				filtered++
				metrics.ItemsProcessed.WithLabelValues(category, "filtered").Inc()
				continue
			}

			record, hit := s.cache.Get(item.ID, req.Model)
			if hit {
				metrics.CacheLookups.WithLabelValues(category, "hit").Inc()
			} else {
				metrics.CacheLookups.WithLabelValues(category, "miss").Inc()
				sentiment := s.classify(ctx, item.Title, req.Model)
				if ctx.Err() != nil {
					return
				}
				record = s.adapter.Record(item, sentiment)
				record.Model = req.Model
				s.cache.Put(item.ID, record, req.Model)
			}

			if s.persist(ctx, req, category, item, record.Sentiment) {
				duplicates++
				metrics.ItemsProcessed.WithLabelValues(category, "duplicate").Inc()
			}

			included++
			metrics.ItemsProcessed.WithLabelValues(category, "included").Inc()
			if !yield(dto.StreamEvent{Record: &record}) {
				return
			}
		}

		if included == 0 && ctx.Err() == nil {
			yield(errorEvent(s.adapter.NoResultsMessage(req.Query)))
		}
	}
}

func (s *sentimentStreamer) Explain(ctx context.Context, contentID, text, model string) (string, string) {
	if model == "" {
		model = s.defaultModel
	}
	if sentiment, explanation, ok := s.cache.Explanation(contentID, model); ok {
		return sentiment, explanation
	}

	sentiment, explanation := s.classifier.ClassifyWithExplanation(ctx, text, model)
	s.cache.UpdateExplanation(contentID, model, sentiment, explanation)
	return sentiment, explanation
}

func (s *sentimentStreamer) PurgeExpired() int {
	return s.cache.PurgeExpired()
}

// classify never fails; a panicking backend degrades to unknown.
func (s *sentimentStreamer) classify(ctx context.Context, title, model string) (label string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Sentiment analysis error", logger.Field("panic", r), logger.StringField("title", title))
			label = common.SentimentUnknown
		}
	}()
	return s.classifier.Classify(ctx, title, model)
}

// persist writes the result unless its fingerprint is already known and
// reports whether it was a duplicate. A failed write releases the fingerprint
// so a later request can retry it.
func (s *sentimentStreamer) persist(ctx context.Context, req dto.SearchRequest, category string, item dto.ContentItem, sentiment string) (duplicate bool) {
	if !s.index.Claim(item.Title, item.Source, req.Model) {
		s.logger.Debug("Found duplicate, not saving to database",
			logger.StringField("title", item.Title),
			logger.StringField("source", item.Source),
		)
		return true
	}

	err := s.classifier.Save(ctx, req.Query, category, item.Title, sentiment, item.Source, req.Model)
	switch {
	case err == nil:
		return false
	case errors.Is(err, dto.ErrAlreadyExists):
		return true
	default:
		s.index.Release(item.Title, item.Source, req.Model)
		return false
	}
}

func (s *sentimentStreamer) fetchErrorMessage(err error) string {
	var srcErr *sourceError
	if errors.As(err, &srcErr) {
		s.logger.Error("Source request failed", logger.StringField("category", s.adapter.Category()), logger.ErrorField(srcErr.Unwrap()))
		return srcErr.message
	}
	s.logger.Error("Unexpected error while fetching items", logger.ErrorField(err))
	return fmt.Sprintf("An unexpected error occurred: %s", err.Error())
}

func errorEvent(message string) dto.StreamEvent {
	return dto.StreamEvent{Error: message}
}
