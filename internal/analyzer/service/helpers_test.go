package service

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"testing"
	"time"

	"golang-sentiment-scryper/internal/analyzer/config"
	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/analyzer/repository"
	"golang-sentiment-scryper/internal/entity"
	"golang-sentiment-scryper/pkg/logger"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testModel = "gemma3:1b"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entity.SentimentResult{}, &entity.Feedback{}))
	return db
}

func testConfig(newsURL, youTubeURL string) *config.Config {
	return &config.Config{
		NewsAPI: config.NewsAPI{
			BaseURL:  newsURL,
			APIKey:   "news-key",
			PageSize: 100,
			Language: "en",
			Timeout:  5 * time.Second,
		},
		YouTube: config.YouTube{
			BaseURL:    youTubeURL,
			APIKey:     "yt-key",
			Region:     "us",
			MaxDaysOld: 30,
			Timeout:    5 * time.Second,
		},
		Classifier: config.Classifier{
			DefaultModel: testModel,
			Timeout:      5 * time.Second,
		},
		Cache: config.Cache{
			VideoTTL: time.Hour,
		},
	}
}

// fakeChat answers classification requests with label and explanation
// requests with explanation. A set cancel is called once during the next
// request, as if the client disconnected while waiting for the backend.
type fakeChat struct {
	mu          sync.Mutex
	label       string
	labels      map[string]string
	explanation string
	err         error
	panicMsg    string
	cancel      context.CancelFunc
	requests    []dto.ChatRequest
}

func (f *fakeChat) Chat(ctx context.Context, req dto.ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return "", f.err
	}
	if req.Label != "" {
		return f.explanation, nil
	}
	if label, ok := f.labels[req.Text]; ok {
		return label, nil
	}
	return f.label, nil
}

func (f *fakeChat) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []repository.ResultEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event repository.ResultEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type fixture struct {
	db         *gorm.DB
	chat       *fakeChat
	publisher  *recordingPublisher
	results    repository.SentimentResultRepository
	index      *DuplicateIndex
	classifier ClassificationService
}

func newFixture(t *testing.T, chat *fakeChat) *fixture {
	t.Helper()

	db := newTestDB(t)
	log := logger.NewNop()
	results := repository.NewSentimentResultRepository(db)
	publisher := &recordingPublisher{}
	index := NewDuplicateIndex(results, log)
	require.NoError(t, index.Load(context.Background()))

	return &fixture{
		db:         db,
		chat:       chat,
		publisher:  publisher,
		results:    results,
		index:      index,
		classifier: NewClassificationService(chat, repository.NewMemoryClassificationCache(), results, publisher, log),
	}
}

func (f *fixture) rowCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&entity.SentimentResult{}).Count(&count).Error)
	return count
}

func collect(seq iter.Seq[dto.StreamEvent]) []dto.StreamEvent {
	var events []dto.StreamEvent
	for ev := range seq {
		events = append(events, ev)
	}
	return events
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func nopLogger() *logger.Logger {
	return logger.NewNop()
}
