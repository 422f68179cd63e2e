package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"

	"golang-sentiment-scryper/internal/analyzer/config"
	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/analyzer/repository"
	"golang-sentiment-scryper/pkg/common"
	"golang-sentiment-scryper/pkg/logger"
)

// NewNewsAnalyzer creates the SentimentAnalyzer for online news.
func NewNewsAnalyzer(cfg *config.Config, repo repository.NewsRepository, classifier ClassificationService, index *DuplicateIndex, log *logger.Logger) SentimentAnalyzer {
	adapter := &newsAdapter{repo: repo}
	return newSentimentStreamer(adapter, classifier, index, NewNewsResultCache(), cfg.Classifier.DefaultModel, log)
}

type newsAdapter struct {
	repo repository.NewsRepository
}

func (a *newsAdapter) Category() string {
	return common.CategoryOnlineNews
}

func (a *newsAdapter) Fetch(ctx context.Context, req dto.SearchRequest) ([]dto.ContentItem, error) {
	resp, err := a.repo.Search(ctx, repository.NewsSearchParams{
		Query:   req.Query,
		Sources: req.Source,
		SortBy:  req.SortBy,
	})
	if err != nil {
		return nil, &sourceError{message: newsErrorMessage(err), err: err}
	}
	if resp.Status == "error" {
		return nil, &sourceError{message: "NewsAPI error: " + resp.Message, err: errors.New(resp.Code)}
	}

	items := make([]dto.ContentItem, 0, len(resp.Articles))
	for _, article := range resp.Articles {
		source := article.Source.Name
		if source == "" {
			source = common.UnknownSource
		}
		items = append(items, dto.ContentItem{
			ID:          NewsID(article.URL),
			Title:       article.Title,
			Description: article.Description,
			URL:         article.URL,
			Source:      source,
			PublishedAt: article.PublishedAt,
		})
	}
	return items, nil
}

func (a *newsAdapter) Enrich(_ context.Context, items []dto.ContentItem) []dto.ContentItem {
	return items
}

func (a *newsAdapter) Record(item dto.ContentItem, sentiment string) dto.SentimentRecord {
	return dto.SentimentRecord{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		URL:         item.URL,
		Source:      item.Source,
		PublishedAt: item.PublishedAt,
		Sentiment:   sentiment,
	}
}

func (a *newsAdapter) NoResultsMessage(query string) string {
	return fmt.Sprintf("No articles found with your query '%s'. Please try different keywords.", query)
}

// NewsID is the decimal FNV-64a hash of an article URL.
func NewsID(url string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(url))
	return strconv.FormatUint(h.Sum64(), 10)
}

func newsErrorMessage(err error) string {
	if errors.Is(err, dto.ErrQuotaExceeded) {
		return "API quota exceeded: NewsAPI request limit reached (429)."
	}
	var statusErr *repository.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("NewsAPI request failed: %d - %s", statusErr.StatusCode, statusErr.Body)
	}
	return "NewsAPI error: " + err.Error()
}
