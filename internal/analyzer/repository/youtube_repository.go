package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang-sentiment-scryper/internal/analyzer/config"
	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/pkg/logger"

	"golang.org/x/time/rate"
)

// MaxVideoIDsPerRequest is the YouTube Data API ceiling for maxResults and for
// ids per /videos call.
const MaxVideoIDsPerRequest = 50

// VideoSearchParams are the parameters of a video search.
type VideoSearchParams struct {
	Query          string
	RegionCode     string
	ChannelID      string
	MaxResults     int
	PublishedAfter time.Time
}

// VideoRepository searches a video platform and reads video statistics.
type VideoRepository interface {
	Search(ctx context.Context, params VideoSearchParams) ([]dto.YouTubeSearchItem, error)
	Statistics(ctx context.Context, videoIDs []string) (map[string]dto.YouTubeStatistics, error)
}

type youTubeRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewYouTubeRepository creates a VideoRepository for the YouTube Data API v3.
func NewYouTubeRepository(cfg *config.Config, log *logger.Logger) VideoRepository {
	return &youTubeRepository{
		client: &http.Client{
			Timeout: cfg.YouTube.Timeout,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: newRequestLimiter(cfg.YouTube.MaxRequestPerMinute),
	}
}

func (r *youTubeRepository) Search(ctx context.Context, params VideoSearchParams) ([]dto.YouTubeSearchItem, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("q", params.Query)
	q.Set("type", "video")
	q.Set("maxResults", strconv.Itoa(params.MaxResults))
	q.Set("order", "date")
	q.Set("relevanceLanguage", "en")
	if params.RegionCode != "" {
		q.Set("regionCode", params.RegionCode)
	}
	if params.ChannelID != "" {
		q.Set("channelId", params.ChannelID)
	}
	if !params.PublishedAfter.IsZero() {
		q.Set("publishedAfter", params.PublishedAfter.UTC().Format(time.RFC3339))
	}

	r.logger.Info("Sending request to YouTube API",
		logger.StringField("query", params.Query),
		logger.IntField("max_results", params.MaxResults),
		logger.StringField("channel_id", params.ChannelID),
	)

	var searchResp dto.YouTubeSearchResponse
	if err := r.get(ctx, "/search", q, &searchResp); err != nil {
		return nil, err
	}
	return searchResp.Items, nil
}

// Statistics reads view, like and comment counts for at most
// MaxVideoIDsPerRequest ids. Videos the API does not return are absent from
// the map.
func (r *youTubeRepository) Statistics(ctx context.Context, videoIDs []string) (map[string]dto.YouTubeStatistics, error) {
	ids := make([]string, 0, len(videoIDs))
	for _, id := range videoIDs {
		if strings.TrimSpace(id) != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return map[string]dto.YouTubeStatistics{}, nil
	}
	if len(ids) > MaxVideoIDsPerRequest {
		ids = ids[:MaxVideoIDsPerRequest]
	}

	q := url.Values{}
	q.Set("part", "statistics")
	q.Set("id", strings.Join(ids, ","))

	var videosResp dto.YouTubeVideosResponse
	if err := r.get(ctx, "/videos", q, &videosResp); err != nil {
		return nil, err
	}

	stats := make(map[string]dto.YouTubeStatistics, len(videosResp.Items))
	for _, item := range videosResp.Items {
		stats[item.ID] = item.Statistics
	}

	r.logger.Debug("Retrieved video statistics", logger.IntField("retrieved", len(stats)), logger.IntField("requested", len(ids)))
	return stats, nil
}

func (r *youTubeRepository) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for request limit: %w", err)
	}

	q.Set("key", r.cfg.YouTube.APIKey)
	apiURL := strings.TrimRight(r.cfg.YouTube.BaseURL, "/") + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create new http request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to YouTube API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		statusErr := &StatusError{Provider: "YouTube", StatusCode: resp.StatusCode, Body: youTubeErrorMessage(body)}
		r.logger.Error("Received non-OK response from YouTube API",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("path", path),
			logger.StringField("message", statusErr.Body),
		)
		if resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %w", dto.ErrQuotaExceeded, statusErr)
		}
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// youTubeErrorMessage extracts error.message from an error envelope. An
// empty result means the body carried no message.
func youTubeErrorMessage(body []byte) string {
	var envelope struct {
		Error *dto.YouTubeError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil {
		return ""
	}
	return envelope.Error.Message
}
