package repository

import (
	"context"
	"fmt"

	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/pkg/common"

	"github.com/jonreiter/govader"
)

const vaderThreshold = 0.05

// vaderChatRepository answers chat requests offline with the VADER lexicon.
// It ignores prompts and model names and scores ChatRequest.Text directly.
type vaderChatRepository struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderChatRepository creates a ChatRepository that needs no network.
func NewVaderChatRepository() ChatRepository {
	return &vaderChatRepository{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (r *vaderChatRepository) Chat(ctx context.Context, req dto.ChatRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	scores := r.analyzer.PolarityScores(req.Text)
	label := common.SentimentNeutral
	switch {
	case scores.Compound >= vaderThreshold:
		label = common.SentimentPositive
	case scores.Compound <= -vaderThreshold:
		label = common.SentimentNegative
	}

	if req.Label == "" {
		return label, nil
	}
	return fmt.Sprintf("The text reads as %s with a lexicon compound score of %.2f.", req.Label, scores.Compound), nil
}
