package http

import (
	"errors"
	"net/http"

	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/analyzer/service"
	"golang-sentiment-scryper/pkg/common"
	"golang-sentiment-scryper/pkg/logger"

	"github.com/labstack/echo/v4"
)

// FeedbackHandler handles HTTP requests for feedback.
type FeedbackHandler struct {
	feedbackService service.FeedbackService
	logger          *logger.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService service.FeedbackService, logger *logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService, logger: logger}
}

// RegisterRoutes registers the feedback routes to the Echo group.
func (h *FeedbackHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateFeedback)
	g.GET("", h.GetAllFeedback)
}

// CreateFeedback godoc
// @Summary Submit feedback
// @Description Records a thumbs up or down for one classification. The user is taken from the X-User-ID header.
// @Tags feedback
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user id"
// @Param feedback body dto.CreateFeedbackRequest true "Feedback to record"
// @Success 201 {object} dto.FeedbackResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /feedback [post]
func (h *FeedbackHandler) CreateFeedback(c echo.Context) error {
	userID := c.Request().Header.Get(common.UserIDHeader)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}

	var req dto.CreateFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.feedbackService.Submit(c.Request().Context(), userID, &req)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, resp)
	case errors.Is(err, dto.ErrAlreadyExists):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "You have already provided feedback for this item"})
	case errors.Is(err, dto.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		h.logger.Error("Failed to submit feedback", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to submit feedback"})
	}
}

// GetAllFeedback godoc
// @Summary List feedback
// @Tags feedback
// @Produce json
// @Success 200 {array} dto.FeedbackResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /feedback [get]
func (h *FeedbackHandler) GetAllFeedback(c echo.Context) error {
	feedback, err := h.feedbackService.List(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get feedback", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get feedback"})
	}
	return c.JSON(http.StatusOK, feedback)
}
