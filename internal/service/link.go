package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/maypok86/otter"
	"github.com/suspybot/suspy/internal/database/types"
	"github.com/suspybot/suspy/pkg/utils"
	"go.uber.org/zap"
)

const (
	verdictCacheSize = 4000
	verdictCacheTTL  = time.Hour

	touchTimeout = 10 * time.Second
)

// LinkService resolves a URL to a safety verdict, going through the in-memory
// cache, the database, and finally the classifier.
type LinkService struct {
	store   LinkStore
	scanner Scanner
	cache   otter.Cache[string, *types.FlaggedLink]
	logger  *zap.Logger
}

// NewLinkService creates a LinkService.
func NewLinkService(store LinkStore, scanner Scanner, logger *zap.Logger) (*LinkService, error) {
	cache, err := otter.MustBuilder[string, *types.FlaggedLink](verdictCacheSize).
		WithTTL(verdictCacheTTL).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create verdict cache: %w", err)
	}

	return &LinkService{
		store:   store,
		scanner: scanner,
		cache:   cache,
		logger:  logger.Named("link_service"),
	}, nil
}

// Verdict returns the flagged-link row for a URL, classifying it when no
// fresh verdict exists. Returns (nil, nil) for URLs that cannot be scanned,
// such as private or malformed addresses.
func (s *LinkService) Verdict(ctx context.Context, rawURL string) (*types.FlaggedLink, error) {
	url, err := utils.NormalizeURL(rawURL)
	if err != nil {
		return nil, nil //nolint:nilnil // unscannable input is not an error
	}

	if !utils.IsScannableURL(url) {
		return nil, nil //nolint:nilnil
	}

	if link, ok := s.cache.Get(url); ok {
		s.touchLastDetect(url)
		return link, nil
	}

	link, err := s.store.GetFresh(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to load verdict: %w", err)
	}

	if link != nil {
		s.cache.Set(url, link)
		s.touchLastDetect(url)

		return link, nil
	}

	result, err := s.scanner.ScanURL(ctx, url)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	link = &types.FlaggedLink{
		URL:             url,
		Host:            utils.HostOf(url),
		Category:        result.Category,
		ConfidenceScore: int(math.Round(result.ConfidenceScore * 100)),
		Reason:          result.Reason,
		BlockHost:       result.BlockHost(),
		CreatedAt:       now,
		UpdatedAt:       now,
		LastDetectAt:    now,
	}

	if err := s.store.Insert(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to store verdict: %w", err)
	}

	s.cache.Set(url, link)

	s.logger.Info("URL classified",
		zap.String("url", url),
		zap.Int("confidenceScore", link.ConfidenceScore),
		zap.String("category", string(link.Category)))

	return link, nil
}

// touchLastDetect bumps the last-detect timestamp in the background. Sighting
// bookkeeping must not slow down or fail the scan path.
func (s *LinkService) touchLastDetect(url string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), touchTimeout)
		defer cancel()

		if err := s.store.TouchLastDetect(ctx, url); err != nil {
			s.logger.Debug("Failed to update last detect time",
				zap.String("url", url),
				zap.Error(err))
		}
	}()
}
