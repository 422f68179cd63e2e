package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-sentiment-scryper/internal/analyzer/config"
	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/analyzer/repository"
	"golang-sentiment-scryper/pkg/common"
	"golang-sentiment-scryper/pkg/logger"
)

const videoOverFetchFactor = 3

// NewVideoAnalyzer creates the SentimentAnalyzer for online videos. A nil now
// uses time.Now.
func NewVideoAnalyzer(cfg *config.Config, repo repository.VideoRepository, classifier ClassificationService, index *DuplicateIndex, log *logger.Logger, now func() time.Time) SentimentAnalyzer {
	if now == nil {
		now = time.Now
	}
	adapter := &videoAdapter{
		repo:       repo,
		region:     cfg.YouTube.Region,
		maxDaysOld: cfg.YouTube.MaxDaysOld,
		now:        now,
		logger:     log,
	}
	cache := NewVideoResultCache(cfg.Cache.VideoTTL, now)
	return newSentimentStreamer(adapter, classifier, index, cache, cfg.Classifier.DefaultModel, log)
}

type videoAdapter struct {
	repo       repository.VideoRepository
	region     string
	maxDaysOld int
	now        func() time.Time
	logger     *logger.Logger
}

func (a *videoAdapter) Category() string {
	return common.CategoryOnlineVideos
}

func (a *videoAdapter) Fetch(ctx context.Context, req dto.SearchRequest) ([]dto.ContentItem, error) {
	params := repository.VideoSearchParams{
		Query:      req.Query,
		RegionCode: a.region,
		ChannelID:  req.Channel,
		MaxResults: min(req.Count*videoOverFetchFactor, repository.MaxVideoIDsPerRequest),
	}
	if req.Country != "" {
		params.RegionCode = req.Country
	}
	if a.maxDaysOld > 0 {
		params.PublishedAfter = a.now().AddDate(0, 0, -a.maxDaysOld)
	}

	results, err := a.repo.Search(ctx, params)
	if err != nil {
		return nil, &sourceError{message: videoErrorMessage(err), err: err}
	}
	if len(results) == 0 {
		return nil, &sourceError{message: fmt.Sprintf("No recent videos found for '%s'. Try different keywords or news sources.", req.Query)}
	}

	items := make([]dto.ContentItem, 0, len(results))
	for _, result := range results {
		if result.ID.VideoID == "" || result.Snippet == nil {
			continue
		}
		snippet := result.Snippet
		items = append(items, dto.ContentItem{
			ID:          result.ID.VideoID,
			Title:       snippet.Title,
			Description: snippet.Description,
			URL:         "https://youtube.com/watch?v=" + result.ID.VideoID,
			Source:      snippet.ChannelTitle,
			Channel:     snippet.ChannelTitle,
			PublishedAt: snippet.PublishedAt,
			Thumbnail:   snippet.Thumbnails["high"].URL,
		})
	}
	if len(items) == 0 {
		a.logger.Error("No valid video items in API response", logger.IntField("returned", len(results)))
		return nil, &sourceError{message: fmt.Sprintf("Found videos for '%s' but couldn't process them. Please try again.", req.Query)}
	}
	return items, nil
}

// Enrich fills view, like and comment counts. Counts are "N/A" when the
// statistics call fails or omits a video, and "0" when a count is hidden.
func (a *videoAdapter) Enrich(ctx context.Context, items []dto.ContentItem) []dto.ContentItem {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	stats, err := a.repo.Statistics(ctx, ids)
	if err != nil {
		a.logger.Error("Failed to get video details", logger.ErrorField(err))
		stats = nil
	}

	for i := range items {
		st, ok := stats[items[i].ID]
		if !ok {
			items[i].ViewCount = common.NotAvailable
			items[i].LikeCount = common.NotAvailable
			items[i].CommentCount = common.NotAvailable
			continue
		}
		items[i].ViewCount = countOrZero(st.ViewCount)
		items[i].LikeCount = countOrZero(st.LikeCount)
		items[i].CommentCount = countOrZero(st.CommentCount)
	}
	return items
}

func (a *videoAdapter) Record(item dto.ContentItem, sentiment string) dto.SentimentRecord {
	return dto.SentimentRecord{
		ID:           item.ID,
		Title:        item.Title,
		Description:  item.Description,
		URL:          item.URL,
		Source:       common.VideoSourceName,
		PublishedAt:  item.PublishedAt,
		Sentiment:    sentiment,
		Channel:      item.Channel,
		Thumbnail:    item.Thumbnail,
		ViewCount:    item.ViewCount,
		LikeCount:    item.LikeCount,
		CommentCount: item.CommentCount,
	}
}

func (a *videoAdapter) NoResultsMessage(query string) string {
	return fmt.Sprintf("Found videos for '%s' but none matched all filters. Try different search terms.", query)
}

func countOrZero(count string) string {
	if count == "" {
		return "0"
	}
	return count
}

func videoErrorMessage(err error) string {
	if errors.Is(err, dto.ErrQuotaExceeded) {
		return "API quota exceeded: YouTube request limit reached (429)."
	}
	var statusErr *repository.StatusError
	if errors.As(err, &statusErr) {
		message := statusErr.Body
		if message == "" {
			message = "Please try again later"
		}
		return "YouTube API error: " + message
	}
	return "Network error: Please check your connection and try again."
}
