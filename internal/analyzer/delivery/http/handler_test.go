package http

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	events   []dto.StreamEvent
	lastReq  dto.SearchRequest
	explains []string
}

func (f *fakeAnalyzer) Stream(_ context.Context, req dto.SearchRequest) iter.Seq[dto.StreamEvent] {
	f.lastReq = req
	return func(yield func(dto.StreamEvent) bool) {
		for _, ev := range f.events {
			if !yield(ev) {
				return
			}
		}
	}
}

func (f *fakeAnalyzer) Explain(_ context.Context, id, text, model string) (string, string) {
	f.explains = append(f.explains, id+"|"+text+"|"+model)
	return "positive", "The title is upbeat."
}

func (f *fakeAnalyzer) PurgeExpired() int { return 0 }

type fakeFeedbackService struct {
	err    error
	userID string
	list   []dto.FeedbackResponse
}

func (f *fakeFeedbackService) Submit(_ context.Context, userID string, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error) {
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.FeedbackResponse{ID: 1, ItemID: req.ItemID, UserID: userID, FeedbackType: req.FeedbackType}, nil
}

func (f *fakeFeedbackService) List(context.Context) ([]dto.FeedbackResponse, error) {
	return f.list, f.err
}

type fakeStatisticsService struct {
	err error
}

func (f *fakeStatisticsService) SentimentResults(context.Context) ([]dto.SentimentStatistic, error) {
	return []dto.SentimentStatistic{{ID: 1, Title: "t", Sentiment: "neutral"}}, f.err
}

func (f *fakeStatisticsService) Combinations(context.Context) ([]dto.Combination, error) {
	return []dto.Combination{{Query: "q", Source: "s", Model: "m"}}, f.err
}

func (f *fakeStatisticsService) ModelPerformance(context.Context) ([]dto.ModelPerformance, error) {
	return []dto.ModelPerformance{{Model: "m", ThumbsUp: 1, Total: 1, UpPercentage: 100}}, f.err
}

func testLogger() *logger.Logger {
	return logger.NewNop()
}

func sseEvents(t *testing.T, body string) []map[string]any {
	t.Helper()
	var events []map[string]any
	for _, chunk := range strings.Split(body, "\n\n") {
		if chunk == "" {
			continue
		}
		require.True(t, strings.HasPrefix(chunk, "data: "), chunk)
		var ev map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(chunk, "data: ")), &ev))
		events = append(events, ev)
	}
	return events
}

func newSearchServer(news, video *fakeAnalyzer) *echo.Echo {
	e := echo.New()
	NewSearchHandler(news, video, testLogger()).RegisterRoutes(e.Group(""))
	return e
}

func TestSearchStreamsEvents(t *testing.T) {
	news := &fakeAnalyzer{events: []dto.StreamEvent{
		{Record: &dto.SentimentRecord{ID: "1", Title: "Election results", Sentiment: "positive"}},
		{Record: &dto.SentimentRecord{Title: "No id", URL: "https://example.com/a", Sentiment: "neutral"}},
	}}
	e := newSearchServer(news, &fakeAnalyzer{})

	req := httptest.NewRequest(http.MethodGet, "/search?query=election&count=2", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))
	events := sseEvents(t, rec.Body.String())
	require.Len(t, events, 2)
	assert.Equal(t, "Election results", events[0]["title"])
	assert.Equal(t, syntheticID("https://example.com/a"), events[1]["id"])
	assert.Len(t, events[1]["id"], 32)

	assert.Equal(t, "election", news.lastReq.Query)
	assert.Equal(t, 2, news.lastReq.Count)
	assert.Equal(t, "popularity", news.lastReq.SortBy)
	assert.Equal(t, "us", news.lastReq.Country)
}

func TestSearchRoutesVideoCategory(t *testing.T) {
	video := &fakeAnalyzer{events: []dto.StreamEvent{{Error: "No recent videos found for 'x'. Try different keywords or news sources."}}}
	e := newSearchServer(&fakeAnalyzer{}, video)

	req := httptest.NewRequest(http.MethodGet, "/search?query=x&category=online_videos&country=gb", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	events := sseEvents(t, rec.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, map[string]any{"error": "No recent videos found for 'x'. Try different keywords or news sources."}, events[0])
	assert.Equal(t, "gb", video.lastReq.Country)
}

func TestSearchRejectsBadRequests(t *testing.T) {
	e := newSearchServer(&fakeAnalyzer{}, &fakeAnalyzer{})

	for _, target := range []string{
		"/search",
		"/search?query=%20",
		"/search?query=x&category=podcasts",
		"/search?query=x&count=abc",
	} {
		t.Run(target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestGetExplanation(t *testing.T) {
	news := &fakeAnalyzer{}
	video := &fakeAnalyzer{}
	e := newSearchServer(news, video)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explanations/abc?text=Good+news&model=m1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ExplanationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, dto.ExplanationResponse{Sentiment: "positive", Explanation: "The title is upbeat.", Model: "m1"}, resp)
	assert.Equal(t, []string{"abc|Good news|m1"}, news.explains)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explanations/v1?text=Clip&model=m2&source_type=video", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"v1|Clip|m2"}, video.explains)
}

func TestGetExplanationMissingParameters(t *testing.T) {
	e := newSearchServer(&fakeAnalyzer{}, &fakeAnalyzer{})

	for _, target := range []string{"/explanations/abc?model=m1", "/explanations/abc?text=hi"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Missing required parameters"}`, rec.Body.String())
	}
}

func newFeedbackServer(svc *fakeFeedbackService) *echo.Echo {
	e := echo.New()
	NewFeedbackHandler(svc, testLogger()).RegisterRoutes(e.Group("/feedback"))
	return e
}

func postFeedback(e *echo.Echo, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateFeedback(t *testing.T) {
	svc := &fakeFeedbackService{}
	e := newFeedbackServer(svc)

	rec := postFeedback(e, "user-1", `{"item_id":"a1","item_title":"t","feedback_type":"thumbs_up","model_used":"m"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user-1", svc.userID)
	assert.Contains(t, rec.Body.String(), `"feedback_type":"thumbs_up"`)
}

func TestCreateFeedbackErrors(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		err     error
		code    int
		message string
	}{
		{name: "unauthenticated", code: http.StatusUnauthorized, message: "Unauthorized"},
		{name: "duplicate", userID: "u", err: fmt.Errorf("create: %w", dto.ErrAlreadyExists), code: http.StatusBadRequest, message: "You have already provided feedback for this item"},
		{name: "invalid", userID: "u", err: fmt.Errorf("%w: feedback_type", dto.ErrInvalidInput), code: http.StatusBadRequest, message: "invalid input: feedback_type"},
		{name: "storage", userID: "u", err: fmt.Errorf("connection refused"), code: http.StatusInternalServerError, message: "Failed to submit feedback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newFeedbackServer(&fakeFeedbackService{err: tt.err})
			rec := postFeedback(e, tt.userID, `{"item_id":"a1"}`)
			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.message), rec.Body.String())
		})
	}
}

func TestGetAllFeedback(t *testing.T) {
	e := newFeedbackServer(&fakeFeedbackService{list: []dto.FeedbackResponse{{ID: 7, ItemID: "a"}}})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feedback", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.FeedbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, uint(7), got[0].ID)
}

func TestStatisticsRoutes(t *testing.T) {
	e := echo.New()
	NewStatisticsHandler(&fakeStatisticsService{}, testLogger()).RegisterRoutes(e.Group("/statistics"))

	for _, path := range []string{"/statistics/sentiment", "/statistics/combinations", "/statistics/models"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "["), path)
	}

	failing := echo.New()
	NewStatisticsHandler(&fakeStatisticsService{err: fmt.Errorf("db down")}, testLogger()).RegisterRoutes(failing.Group("/statistics"))
	rec := httptest.NewRecorder()
	failing.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/statistics/models", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
