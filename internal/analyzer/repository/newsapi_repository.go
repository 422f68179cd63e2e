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

	"golang-sentiment-scryper/internal/analyzer/config"
	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// NewsSearchParams are the caller controlled parameters of a news search.
type NewsSearchParams struct {
	Query   string
	Sources string
	SortBy  string
}

// NewsRepository searches a news provider.
type NewsRepository interface {
	Search(ctx context.Context, params NewsSearchParams) (*dto.NewsAPIResponse, error)
}

type newsAPIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewNewsAPIRepository creates a NewsRepository for NewsAPI's /everything endpoint.
func NewNewsAPIRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	return &newsAPIRepository{
		client: &http.Client{
			Timeout: cfg.NewsAPI.Timeout,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: newRequestLimiter(cfg.NewsAPI.MaxRequestPerMinute),
	}
}

// Search returns dto.ErrQuotaExceeded wrapped for HTTP 429 and a *StatusError
// for any other non-OK answer.
func (r *newsAPIRepository) Search(ctx context.Context, params NewsSearchParams) (*dto.NewsAPIResponse, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	q := url.Values{}
	q.Set("q", params.Query)
	q.Set("pageSize", strconv.Itoa(r.cfg.NewsAPI.PageSize))
	q.Set("language", r.cfg.NewsAPI.Language)
	if params.SortBy != "" {
		q.Set("sortBy", params.SortBy)
	}
	if params.Sources != "" {
		q.Set("sources", params.Sources)
	}

	apiURL := strings.TrimRight(r.cfg.NewsAPI.BaseURL, "/") + "/everything?" + q.Encode()
	r.logger.Info("Sending request to NewsAPI",
		logger.StringField("query", params.Query),
		logger.StringField("sources", params.Sources),
		logger.StringField("sort_by", params.SortBy),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("X-Api-Key", r.cfg.NewsAPI.APIKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to NewsAPI: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		statusErr := &StatusError{Provider: "NewsAPI", StatusCode: resp.StatusCode, Body: string(body)}
		r.logger.Error("Received non-OK response from NewsAPI", logger.IntField("status_code", resp.StatusCode))
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: %w", dto.ErrQuotaExceeded, statusErr)
		}
		return nil, statusErr
	}

	var newsResp dto.NewsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&newsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	for i := range newsResp.Articles {
		newsResp.Articles[i].Description = cleanHTML(newsResp.Articles[i].Description)
	}

	return &newsResp, nil
}

// cleanHTML strips markup some publishers leave in article descriptions.
func cleanHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
