package repository

import (
	"context"
	"fmt"
	"time"

	"golang-sentiment-scryper/internal/analyzer/dto"

	"golang.org/x/time/rate"
)

// ChatRepository sends one system + user exchange to a chat backend and
// returns the trimmed reply text.
type ChatRepository interface {
	Chat(ctx context.Context, req dto.ChatRequest) (string, error)
}

// StatusError is returned by chat backends when the upstream answered with a
// non-2xx status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.StatusCode, e.Body)
}

func newRequestLimiter(maxRequestPerMinute int) *rate.Limiter {
	if maxRequestPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	secondsPerRequest := time.Minute / time.Duration(maxRequestPerMinute)
	return rate.NewLimiter(rate.Every(secondsPerRequest), 1)
}
