package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/suspybot/suspy/internal/ai/client"
	"go.uber.org/zap"
)

// LinkScanner asks the model for a safety verdict on a single URL.
type LinkScanner struct {
	client *client.AIClient
	logger *zap.Logger
}

// NewLinkScanner creates a LinkScanner.
func NewLinkScanner(aiClient *client.AIClient, logger *zap.Logger) *LinkScanner {
	return &LinkScanner{
		client: aiClient,
		logger: logger.Named("ai_link_scanner"),
	}
}

// ScanURL classifies a URL. A rate-limited credential is marked exhausted and
// the call is retried with another one; the retry count is bounded by the
// credential pool size so exhaustion mid-flight cannot loop forever. Returns
// client.ErrQuotaExhausted when no credential is available, a *ScanError when
// the model reports the URL could not be checked, and ErrUnparseableResponse
// when the output fails validation.
func (s *LinkScanner) ScanURL(ctx context.Context, url string) (*ScanResult, error) {
	s.logger.Debug("Asking model to check URL", zap.String("url", url))

	rotator := s.client.Rotator()

	for attempt := 0; attempt < rotator.PoolSize(); attempt++ {
		key, err := rotator.Select()
		if err != nil {
			return nil, err
		}

		text, err := s.client.Generate(ctx, key, ScanSystemPrompt, url)
		if err != nil {
			if errors.Is(err, client.ErrRateLimited) {
				rotator.RecordExhausted(key)
				s.logger.Debug("Credential rate limited, rotating",
					zap.Int("attempt", attempt))

				continue
			}

			return nil, fmt.Errorf("%w: %w", ErrScanFailed, err)
		}

		rotator.RecordUsage(key)

		s.logger.Debug("Model response received",
			zap.String("url", url),
			zap.Int("length", len(text)))

		result, scanErr, err := ParseScanResponse(text)
		if err != nil {
			return nil, err
		}

		if scanErr != nil {
			return nil, scanErr
		}

		return result, nil
	}

	return nil, client.ErrQuotaExhausted
}
