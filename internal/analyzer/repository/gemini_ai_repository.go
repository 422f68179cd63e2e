package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang-sentiment-scryper/internal/analyzer/config"
	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/pkg/logger"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiChatRepository is a ChatRepository that uses the Google Gemini API.
type geminiChatRepository struct {
	genAiClient    *genai.Client
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewGeminiChatRepository creates a new instance of geminiChatRepository.
func NewGeminiChatRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (ChatRepository, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.Classifier.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Classifier.Timeout},
	}
	if cfg.Classifier.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.Classifier.BaseURL
	}

	genAiClient, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiChatRepository{
		genAiClient:    genAiClient,
		logger:         log,
		requestLimiter: newRequestLimiter(cfg.Classifier.MaxRequestPerMinute),
	}, nil
}

func (r *geminiChatRepository) Chat(ctx context.Context, req dto.ChatRequest) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.User, genai.RoleUser),
	}
	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
	}

	r.logger.Debug("Sending request to Gemini API", logger.StringField("model", req.Model))

	resp, err := r.genAiClient.Models.GenerateContent(ctx, req.Model, contents, genCfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			r.logger.Error("Received non-OK response from Gemini API", logger.IntField("status_code", apiErr.Code), logger.StringField("model", req.Model))
			return "", &StatusError{Provider: "Gemini", StatusCode: apiErr.Code, Body: apiErr.Message}
		}
		return "", fmt.Errorf("failed to send request to Gemini API: %w", err)
	}

	return strings.TrimSpace(resp.Text()), nil
}
