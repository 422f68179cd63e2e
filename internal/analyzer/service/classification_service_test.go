package service

import (
	"context"
	"errors"
	"testing"

	"golang-sentiment-scryper/internal/analyzer/repository"
	"golang-sentiment-scryper/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSentimentLabel(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"sentence after label", "Positive. This is great news.", "positive"},
		{"uppercase with bang", "NEGATIVE!", "negative"},
		{"surrounding whitespace", "  neutral\n", "neutral"},
		{"trailing semicolon", "neutral;", "neutral"},
		{"out of vocabulary", "banana", "unknown"},
		{"hyphenated", "positive-ish", "unknown"},
		{"empty", "", "unknown"},
		{"whitespace only", "   ", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSentimentLabel(tt.content))
		})
	}
}

func TestClassify_MemoizesByModelAndTrimmedText(t *testing.T) {
	chat := &fakeChat{label: "Positive."}
	f := newFixture(t, chat)
	ctx := context.Background()

	assert.Equal(t, "positive", f.classifier.Classify(ctx, "Election results in", testModel))
	assert.Equal(t, "positive", f.classifier.Classify(ctx, "  Election results in  ", testModel))
	assert.Equal(t, 1, chat.calls())

	assert.Equal(t, "positive", f.classifier.Classify(ctx, "Election results in", "llama3"))
	assert.Equal(t, 2, chat.calls())
}

func TestClassify_RequestShape(t *testing.T) {
	chat := &fakeChat{label: "neutral"}
	f := newFixture(t, chat)

	f.classifier.Classify(context.Background(), "Weather today", testModel)

	require.Len(t, chat.requests, 1)
	req := chat.requests[0]
	assert.Equal(t, testModel, req.Model)
	assert.Equal(t, "Perform sentiment analysis. Respond ONLY with 'positive', 'negative', or 'neutral'.", req.System)
	assert.Equal(t, "Analyze sentiment: 'Weather today'\nRespond with one word: positive, negative, or neutral.", req.User)
	assert.Equal(t, "Weather today", req.Text)
}

func TestClassify_BackendFailureYieldsErrorLabel(t *testing.T) {
	chat := &fakeChat{err: &repository.StatusError{Provider: "Ollama", StatusCode: 500, Body: "boom"}}
	f := newFixture(t, chat)
	ctx := context.Background()

	assert.Equal(t, "error", f.classifier.Classify(ctx, "Anything", testModel))
	assert.Equal(t, "error", f.classifier.Classify(ctx, "Anything", testModel))
	assert.Equal(t, 1, chat.calls(), "error labels are memoized")
}

func TestClassify_CancelledRequestIsNotMemoized(t *testing.T) {
	chat := &fakeChat{label: "positive"}
	f := newFixture(t, chat)

	ctx, cancel := context.WithCancel(context.Background())
	chat.cancel = cancel
	assert.Equal(t, "error", f.classifier.Classify(ctx, "Election results in", testModel))

	assert.Equal(t, "positive", f.classifier.Classify(context.Background(), "Election results in", testModel))
	assert.Equal(t, 2, chat.calls(), "a live request reaches the backend again")
}

func TestClassify_ExpiredDeadlineIsNotMemoized(t *testing.T) {
	chat := &fakeChat{label: "neutral"}
	f := newFixture(t, chat)

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	assert.Equal(t, "error", f.classifier.Classify(ctx, "Weather today", testModel))

	assert.Equal(t, "neutral", f.classifier.Classify(context.Background(), "Weather today", testModel))
	assert.Equal(t, 2, chat.calls())
}

func TestClassifyWithExplanation_CancelledRequestIsNotMemoized(t *testing.T) {
	chat := &fakeChat{label: "negative", explanation: "The title reports a loss."}
	f := newFixture(t, chat)

	ctx, cancel := context.WithCancel(context.Background())
	chat.cancel = cancel
	label, _ := f.classifier.ClassifyWithExplanation(ctx, "Team loses final", testModel)
	assert.Equal(t, "error", label)

	label, explanation := f.classifier.ClassifyWithExplanation(context.Background(), "Team loses final", testModel)
	assert.Equal(t, "negative", label)
	assert.Equal(t, "The title reports a loss.", explanation)
}

func TestClassifyWithExplanation(t *testing.T) {
	chat := &fakeChat{label: "negative", explanation: "  The title reports a loss.  "}
	f := newFixture(t, chat)
	ctx := context.Background()

	label, explanation := f.classifier.ClassifyWithExplanation(ctx, "Team loses final", testModel)
	assert.Equal(t, "negative", label)
	assert.Equal(t, "The title reports a loss.", explanation)
	require.Len(t, chat.requests, 2)
	assert.Equal(t, "negative", chat.requests[1].Label)
	assert.Contains(t, chat.requests[1].System, "determined to be 'negative'")
	assert.Equal(t, "Text: 'Team loses final'\nExplain why this is negative:", chat.requests[1].User)

	label, explanation = f.classifier.ClassifyWithExplanation(ctx, " Team loses final ", testModel)
	assert.Equal(t, "negative", label)
	assert.Equal(t, "The title reports a loss.", explanation)
	assert.Equal(t, 2, chat.calls())
}

func TestClassifyWithExplanation_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("non-OK status", func(t *testing.T) {
		chat := &fakeChat{err: &repository.StatusError{Provider: "Ollama", StatusCode: 503, Body: "model loading"}}
		f := newFixture(t, chat)

		label, explanation := f.classifier.ClassifyWithExplanation(ctx, "Text", testModel)
		assert.Equal(t, "error", label)
		assert.Equal(t, "Unable to generate explanation: model loading", explanation)
	})

	t.Run("transport error is not memoized", func(t *testing.T) {
		chat := &fakeChat{err: errors.New("connection refused")}
		f := newFixture(t, chat)

		_, explanation := f.classifier.ClassifyWithExplanation(ctx, "Text", testModel)
		assert.Equal(t, "Explanation error: connection refused", explanation)

		chat.mu.Lock()
		chat.err = nil
		chat.explanation = "Now it works."
		chat.mu.Unlock()

		label, explanation := f.classifier.ClassifyWithExplanation(ctx, "Text", testModel)
		assert.Equal(t, "error", label, "the memoized plain label is reused")
		assert.Equal(t, "Now it works.", explanation)
	})
}

func TestSave_PersistsAndPublishes(t *testing.T) {
	f := newFixture(t, &fakeChat{})
	ctx := context.Background()

	require.NoError(t, f.classifier.Save(ctx, "election", "online news", "Election results in", "positive", "BBC News", testModel))

	var rows []entity.SentimentResult
	require.NoError(t, f.db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "election", rows[0].Query)
	assert.Equal(t, "online news", rows[0].Category)
	assert.Equal(t, "Election results in", rows[0].Title)
	assert.Equal(t, "positive", rows[0].Sentiment)
	assert.Equal(t, "BBC News", rows[0].Source)
	assert.Equal(t, testModel, rows[0].Model)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, "Election results in", f.publisher.events[0].Title)
}

func TestSave_FailureIsReturned(t *testing.T) {
	f := newFixture(t, &fakeChat{})
	classifier := NewClassificationService(f.chat, repository.NewMemoryClassificationCache(), failingResultRepository{}, f.publisher, nopLogger())

	err := classifier.Save(context.Background(), "q", "online news", "t", "positive", "s", testModel)
	require.Error(t, err)
	assert.Empty(t, f.publisher.events)
}
