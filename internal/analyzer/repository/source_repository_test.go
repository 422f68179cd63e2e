package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang-sentiment-scryper/internal/analyzer/config"
	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sourceConfig(newsURL, youTubeURL string) *config.Config {
	return &config.Config{
		NewsAPI: config.NewsAPI{BaseURL: newsURL, APIKey: "news-key", PageSize: 100, Language: "en", Timeout: 5 * time.Second},
		YouTube: config.YouTube{BaseURL: youTubeURL, APIKey: "yt-key", Timeout: 5 * time.Second},
	}
}

func TestNewsAPIRepository_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "news-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "bbc-news", r.URL.Query().Get("sources"))
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":1,"articles":[
			{"source":{"id":null,"name":"BBC News"},"title":"Election results in",
			 "description":"<p>Votes are <b>counted</b> &amp; confirmed</p>","url":"https://bbc.example/1",
			 "publishedAt":"2024-11-05T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	repo := NewNewsAPIRepository(sourceConfig(srv.URL, ""), logger.NewNop())
	resp, err := repo.Search(context.Background(), NewsSearchParams{Query: "election", Sources: "bbc-news", SortBy: "publishedAt"})

	require.NoError(t, err)
	require.Len(t, resp.Articles, 1)
	assert.Equal(t, "BBC News", resp.Articles[0].Source.Name)
	assert.Equal(t, "Votes are counted & confirmed", resp.Articles[0].Description)
}

func TestNewsAPIRepository_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantQuota bool
	}{
		{"rate limited", http.StatusTooManyRequests, true},
		{"server error", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("nope"))
			}))
			defer srv.Close()

			repo := NewNewsAPIRepository(sourceConfig(srv.URL, ""), logger.NewNop())
			_, err := repo.Search(context.Background(), NewsSearchParams{Query: "q"})

			require.Error(t, err)
			assert.Equal(t, tt.wantQuota, errors.Is(err, dto.ErrQuotaExceeded))
			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, "nope", statusErr.Body)
		})
	}
}

func TestCleanHTML(t *testing.T) {
	assert.Equal(t, "plain text", cleanHTML("plain text"))
	assert.Equal(t, "bold move", cleanHTML("<b>bold</b> move"))
	assert.Equal(t, "", cleanHTML(""))
}

func TestYouTubeRepository_StatisticsLimitsIDs(t *testing.T) {
	var gotIDs atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "statistics", r.URL.Query().Get("part"))
		assert.Equal(t, "yt-key", r.URL.Query().Get("key"))
		gotIDs.Store(r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(`{"items":[{"id":"v0","statistics":{"viewCount":"7"}}]}`))
	}))
	defer srv.Close()

	ids := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		ids = append(ids, fmt.Sprintf("v%d", i))
	}

	repo := NewYouTubeRepository(sourceConfig("", srv.URL), logger.NewNop())
	stats, err := repo.Statistics(context.Background(), ids)

	require.NoError(t, err)
	assert.Len(t, strings.Split(gotIDs.Load().(string), ","), MaxVideoIDsPerRequest)
	assert.Equal(t, "7", stats["v0"].ViewCount)
}

func TestYouTubeRepository_StatisticsWithoutIDs(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	repo := NewYouTubeRepository(sourceConfig("", srv.URL), logger.NewNop())
	stats, err := repo.Statistics(context.Background(), []string{"", " "})

	require.NoError(t, err)
	assert.Empty(t, stats)
	assert.EqualValues(t, 0, hits.Load())
}

func TestYouTubeRepository_SearchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"Invalid regionCode"}}`))
	}))
	defer srv.Close()

	repo := NewYouTubeRepository(sourceConfig("", srv.URL), logger.NewNop())
	_, err := repo.Search(context.Background(), VideoSearchParams{Query: "q", MaxResults: 10})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "Invalid regionCode", statusErr.Body)
	assert.False(t, errors.Is(err, dto.ErrQuotaExceeded))
}
