package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang-sentiment-scryper/internal/analyzer/config"
	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/pkg/logger"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"
)

type openAIChatRepository struct {
	client         openai.Client
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewOpenAIChatRepository creates a ChatRepository for any OpenAI-compatible
// chat completions endpoint.
func NewOpenAIChatRepository(cfg *config.Config, log *logger.Logger) ChatRepository {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.Classifier.APIKey),
		option.WithRequestTimeout(cfg.Classifier.Timeout),
		option.WithMaxRetries(0),
	}
	if cfg.Classifier.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.Classifier.BaseURL))
	}

	return &openAIChatRepository{
		client:         openai.NewClient(opts...),
		logger:         log,
		requestLimiter: newRequestLimiter(cfg.Classifier.MaxRequestPerMinute),
	}
}

func (r *openAIChatRepository) Chat(ctx context.Context, req dto.ChatRequest) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	r.logger.Debug("Sending request to OpenAI API", logger.StringField("model", req.Model))

	res, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			r.logger.Error("Received non-OK response from OpenAI API", logger.IntField("status_code", apiErr.StatusCode), logger.StringField("model", req.Model))
			return "", &StatusError{Provider: "OpenAI", StatusCode: apiErr.StatusCode, Body: apiErr.RawJSON()}
		}
		return "", fmt.Errorf("failed to send request to OpenAI API: %w", err)
	}

	if len(res.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(res.Choices[0].Message.Content), nil
}
