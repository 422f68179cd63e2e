package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang-sentiment-scryper/internal/analyzer/config"
	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/pkg/logger"

	"golang.org/x/time/rate"
)

type ollamaChatRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewOllamaChatRepository creates a ChatRepository backed by Ollama's /api/chat.
func NewOllamaChatRepository(cfg *config.Config, log *logger.Logger) ChatRepository {
	return &ollamaChatRepository{
		client: &http.Client{
			Timeout: cfg.Classifier.Timeout,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: newRequestLimiter(cfg.Classifier.MaxRequestPerMinute),
	}
}

func (r *ollamaChatRepository) Chat(ctx context.Context, req dto.ChatRequest) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.OllamaChatRequest{
		Model: req.Model,
		Messages: []dto.OllamaMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Stream: false,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := strings.TrimRight(r.cfg.Classifier.BaseURL, "/") + "/api/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create new http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	r.logger.Debug("Sending request to Ollama API", logger.StringField("url", apiURL), logger.StringField("model", req.Model))

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request to Ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from Ollama API", logger.IntField("status_code", resp.StatusCode), logger.StringField("model", req.Model))
		return "", &StatusError{Provider: "Ollama", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var chatResp dto.OllamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	return strings.TrimSpace(chatResp.Message.Content), nil
}
