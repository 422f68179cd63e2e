package http

import (
	"net/http"

	"golang-sentiment-scryper/internal/analyzer/service"
	"golang-sentiment-scryper/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StatisticsHandler serves aggregate views over results and feedback.
type StatisticsHandler struct {
	statisticsService service.StatisticsService
	logger            *logger.Logger
}

// NewStatisticsHandler creates a new StatisticsHandler.
func NewStatisticsHandler(statisticsService service.StatisticsService, logger *logger.Logger) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, logger: logger}
}

// RegisterRoutes registers the statistics routes to the Echo group.
func (h *StatisticsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/sentiment", h.GetSentimentStatistics)
	g.GET("/combinations", h.GetValidCombinations)
	g.GET("/models", h.GetModelPerformance)
}

// GetSentimentStatistics godoc
// @Summary List stored sentiment results
// @Tags statistics
// @Produce json
// @Success 200 {array} dto.SentimentStatistic
// @Failure 500 {object} dto.ErrorResponse
// @Router /statistics/sentiment [get]
func (h *StatisticsHandler) GetSentimentStatistics(c echo.Context) error {
	stats, err := h.statisticsService.SentimentResults(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get sentiment statistics"})
	}
	return c.JSON(http.StatusOK, stats)
}

// GetValidCombinations godoc
// @Summary List distinct query, source and model combinations
// @Tags statistics
// @Produce json
// @Success 200 {array} dto.Combination
// @Failure 500 {object} dto.ErrorResponse
// @Router /statistics/combinations [get]
func (h *StatisticsHandler) GetValidCombinations(c echo.Context) error {
	combinations, err := h.statisticsService.Combinations(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get combinations"})
	}
	return c.JSON(http.StatusOK, combinations)
}

// GetModelPerformance godoc
// @Summary Feedback per model
// @Description Thumbs up and down counts with percentages for every model that received feedback
// @Tags statistics
// @Produce json
// @Success 200 {array} dto.ModelPerformance
// @Failure 500 {object} dto.ErrorResponse
// @Router /statistics/models [get]
func (h *StatisticsHandler) GetModelPerformance(c echo.Context) error {
	perf, err := h.statisticsService.ModelPerformance(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get model performance", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get model performance"})
	}
	return c.JSON(http.StatusOK, perf)
}
