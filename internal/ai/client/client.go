// Package client wraps the Gemini API behind credential rotation, a circuit
// breaker, and a concurrency cap.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sony/gobreaker"
	"github.com/suspybot/suspy/internal/setup/config"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

var (
	// ErrRateLimited indicates a single credential hit the provider's rate
	// limit. The caller retries with another credential.
	ErrRateLimited = errors.New("credential rate limited")

	// ErrEmptyResponse indicates the model returned no usable candidates.
	ErrEmptyResponse = errors.New("empty model response")
)

// AIClient manages the Gemini connection pool. One genai client exists per
// credential; the rotator decides which one serves each request.
type AIClient struct {
	clients map[string]*genai.Client
	rotator *Rotator
	breaker *gobreaker.CircuitBreaker
	sem     *semaphore.Weighted
	model   string
	logger  *zap.Logger
}

// NewClient creates an AIClient with one underlying connection per credential.
func NewClient(ctx context.Context, cfg *config.Gemini, logger *zap.Logger) (*AIClient, error) {
	clients := make(map[string]*genai.Client, len(cfg.Keys))

	for _, key := range cfg.Keys {
		key = strings.TrimSpace(key)

		genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(key))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}

		clients[key] = genaiClient
	}

	keys := make([]string, 0, len(clients))
	for _, key := range cfg.Keys {
		keys = append(keys, strings.TrimSpace(key))
	}

	settings := gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		Interval:    0,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
		OnStateChange: func(_ string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &AIClient{
		clients: clients,
		rotator: NewRotator(keys, cfg.DailyLimit, logger),
		breaker: gobreaker.NewCircuitBreaker(settings),
		sem:     semaphore.NewWeighted(cfg.MaxConcurrent),
		model:   cfg.Model,
		logger:  logger.Named("ai_client"),
	}, nil
}

// Rotator returns the credential rotator.
func (c *AIClient) Rotator() *Rotator {
	return c.rotator
}

// Generate sends a single-turn request using the given credential and returns
// the raw response text. A provider rate limit surfaces as ErrRateLimited so
// the caller can rotate credentials.
func (c *AIClient) Generate(ctx context.Context, key, systemPrompt, input string) (string, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("failed to acquire semaphore: %w", err)
	}
	defer c.sem.Release(1)

	genaiClient, ok := c.clients[key]
	if !ok {
		return "", fmt.Errorf("unknown credential %s", redactKey(key))
	}

	result, err := c.breaker.Execute(func() (any, error) {
		model := genaiClient.GenerativeModel(c.model)
		model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
		model.SetMaxOutputTokens(512)
		model.ResponseMIMEType = "text/plain"

		resp, err := model.GenerateContent(ctx, genai.Text(input))
		if err != nil {
			return nil, err
		}

		return resp, nil
	})
	if err != nil {
		if isRateLimitError(err) {
			return "", fmt.Errorf("%w: %w", ErrRateLimited, err)
		}

		c.logger.Warn("Failed to make request", zap.Error(err))

		return "", err
	}

	return responseText(result.(*genai.GenerateContentResponse))
}

// Close shuts down all underlying connections.
func (c *AIClient) Close() {
	for _, genaiClient := range c.clients {
		if err := genaiClient.Close(); err != nil {
			c.logger.Error("Failed to close Gemini client", zap.Error(err))
		}
	}
}

// responseText extracts the text content from a model response.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder

	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}

	return sb.String(), nil
}

func isRateLimitError(err error) bool {
	var apiErr *googleapi.Error

	return errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests
}
