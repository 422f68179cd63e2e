package repository

import (
	"context"
	"testing"

	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/entity"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

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

func TestFeedbackRepository_UniqueViolationIsAlreadyExists(t *testing.T) {
	repo := NewFeedbackRepository(newTestDB(t))
	ctx := context.Background()

	fb := func() *entity.Feedback {
		return &entity.Feedback{
			ItemID:             "1",
			ItemTitle:          "Election results in",
			SourceType:         "news",
			PredictedSentiment: "positive",
			FeedbackType:       "thumbs_up",
			UserID:             "user-1",
			ModelUsed:          "gemma3:1b",
		}
	}

	require.NoError(t, repo.Create(ctx, fb()))
	err := repo.Create(ctx, fb())
	assert.ErrorIs(t, err, dto.ErrAlreadyExists)

	exists, err := repo.Exists(ctx, "user-1", "Election results in", "gemma3:1b")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "user-2", "Election results in", "gemma3:1b")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFeedbackRepository_CountByModelAndType(t *testing.T) {
	repo := NewFeedbackRepository(newTestDB(t))
	ctx := context.Background()

	for i, kind := range []string{"thumbs_up", "thumbs_up", "thumbs_down"} {
		require.NoError(t, repo.Create(ctx, &entity.Feedback{
			ItemID:       "1",
			ItemTitle:    "t",
			FeedbackType: kind,
			UserID:       string(rune('a' + i)),
			ModelUsed:    "m",
		}))
	}

	counts, err := repo.CountByModelAndType(ctx)
	require.NoError(t, err)
	got := map[string]int64{}
	for _, c := range counts {
		assert.Equal(t, "m", c.ModelUsed)
		got[c.FeedbackType] = c.Count
	}
	assert.Equal(t, map[string]int64{"thumbs_up": 2, "thumbs_down": 1}, got)
}

func TestSentimentResultRepository(t *testing.T) {
	repo := NewSentimentResultRepository(newTestDB(t))
	ctx := context.Background()

	rows := []entity.SentimentResult{
		{Query: "election", Category: "online news", Title: "A", Sentiment: "positive", Source: "BBC", Model: "m1"},
		{Query: "election", Category: "online news", Title: "B", Sentiment: "neutral", Source: "BBC", Model: "m1"},
		{Query: "markets", Category: "online videos", Title: "C", Sentiment: "negative", Source: "Chan", Model: "m2"},
	}
	for i := range rows {
		require.NoError(t, repo.Create(ctx, &rows[i]))
		assert.NotZero(t, rows[i].ID)
	}

	fields, err := repo.FindFingerprintFields(ctx)
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, "A", fields[0].Title)
	assert.Empty(t, fields[0].Query, "only fingerprint columns are loaded")

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	combos, err := repo.FindCombinations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dto.Combination{
		{Query: "election", Source: "BBC", Model: "m1"},
		{Query: "markets", Source: "Chan", Model: "m2"},
	}, combos)
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(gorm.ErrDuplicatedKey), dto.ErrAlreadyExists)
	assert.ErrorIs(t, translateError(assert.AnError), assert.AnError)
}
