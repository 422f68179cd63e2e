package http

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/analyzer/metrics"
	"golang-sentiment-scryper/internal/analyzer/service"
	"golang-sentiment-scryper/pkg/common"
	"golang-sentiment-scryper/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	defaultSortBy  = "popularity"
	defaultCountry = "us"
)

// SearchHandler streams search results and serves explanations.
type SearchHandler struct {
	news   service.SentimentAnalyzer
	video  service.SentimentAnalyzer
	logger *logger.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(news, video service.SentimentAnalyzer, logger *logger.Logger) *SearchHandler {
	return &SearchHandler{news: news, video: video, logger: logger}
}

// RegisterRoutes registers the search and explanation routes to the Echo group.
func (h *SearchHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
	g.GET("/explanations/:id", h.GetExplanation)
}

// Search godoc
// @Summary Stream sentiment results
// @Description Streams classified news or video results as server-sent events. Each event is a result record or a single {"error": "..."} object.
// @Tags search
// @Produce text/event-stream
// @Param query query string true "Search query"
// @Param category query string false "online_news or online_videos" default(online_news)
// @Param source query string false "NewsAPI source ids"
// @Param count query int false "Number of results" default(10)
// @Param sort_by query string false "NewsAPI sort order" default(popularity)
// @Param country query string false "Region code for videos" default(us)
// @Param channel query string false "YouTube channel id"
// @Param model query string false "Classifier model"
// @Success 200 {object} dto.SentimentRecord
// @Failure 400 {object} dto.ErrorResponse
// @Router /search [get]
func (h *SearchHandler) Search(c echo.Context) error {
	var req dto.SearchRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid query parameters"})
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required parameter: query"})
	}
	if req.Category == "" {
		req.Category = common.CategoryKeyOnlineNews
	}
	if req.SortBy == "" {
		req.SortBy = defaultSortBy
	}
	if req.Country == "" {
		req.Country = defaultCountry
	}

	analyzer, ok := h.analyzerFor(req.Category)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("Unsupported category: %s", req.Category)})
	}

	metrics.ActiveStreams.Inc()
	defer metrics.ActiveStreams.Dec()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ctx := c.Request().Context()
	for event := range analyzer.Stream(ctx, req) {
		if event.Record != nil && event.Record.ID == "" {
			event.Record.ID = syntheticID(event.Record.URL)
		}
		data, err := json.Marshal(event)
		if err != nil {
			h.logger.Error("Failed to encode stream event", logger.ErrorField(err))
			continue
		}
		if _, err := fmt.Fprintf(res, "data: %s\n\n", data); err != nil {
			h.logger.Warn("Client went away during stream", logger.ErrorField(err))
			break
		}
		res.Flush()
	}
	return nil
}

// GetExplanation godoc
// @Summary Explain a sentiment
// @Description Returns the label and a one sentence explanation for a previously streamed item
// @Tags search
// @Produce json
// @Param id path string true "Item id"
// @Param text query string true "Item title"
// @Param model query string true "Classifier model"
// @Param source_type query string false "news or video" default(news)
// @Success 200 {object} dto.ExplanationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /explanations/{id} [get]
func (h *SearchHandler) GetExplanation(c echo.Context) error {
	id := c.Param("id")
	text := c.QueryParam("text")
	model := c.QueryParam("model")
	if id == "" || strings.TrimSpace(text) == "" || model == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required parameters"})
	}

	var analyzer service.SentimentAnalyzer
	switch c.QueryParam("source_type") {
	case "", "news":
		analyzer = h.news
	case "video":
		analyzer = h.video
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid source_type"})
	}

	sentiment, explanation := analyzer.Explain(c.Request().Context(), id, text, model)
	return c.JSON(http.StatusOK, dto.ExplanationResponse{
		Sentiment:   sentiment,
		Explanation: explanation,
		Model:       model,
	})
}

func (h *SearchHandler) analyzerFor(category string) (service.SentimentAnalyzer, bool) {
	switch category {
	case common.CategoryKeyOnlineNews:
		return h.news, true
	case common.CategoryKeyOnlineVideos:
		return h.video, true
	default:
		return nil, false
	}
}

func syntheticID(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}
