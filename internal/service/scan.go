package service

import (
	"context"

	"github.com/suspybot/suspy/internal/database/types"
	"github.com/suspybot/suspy/internal/database/types/enum"
	"go.uber.org/zap"
)

// DefaultMinConfidence is the fallback enforcement threshold. The wizard
// requires a threshold before a guild can reach the enable toggle, so this
// only applies to settings rows written outside it.
const DefaultMinConfidence = 80

// PolicyProvider returns a guild's settings.
type PolicyProvider interface {
	Policy(ctx context.Context, guildID string, force bool) (*types.GuildSetting, error)
}

// VerdictProvider returns the safety verdict for a URL.
type VerdictProvider interface {
	Verdict(ctx context.Context, url string) (*types.FlaggedLink, error)
}

// BlocklistProvider returns a guild's blocklist entries.
type BlocklistProvider interface {
	Blocklist(ctx context.Context, guildID string, force bool) ([]*types.GuildBlocklist, error)
}

// Detection is an actionable verdict for a URL in a guild: the link crossed
// the guild's confidence threshold and is not ignored by its moderators.
type Detection struct {
	Link *types.FlaggedLink

	// Entry is the guild's existing blocklist entry for this link, nil on
	// first detection.
	Entry *types.GuildBlocklist
}

// ReferenceURL returns the jump link of the first alert posted for this
// detection, or nil when none was recorded.
func (d *Detection) ReferenceURL() *string {
	if d.Entry == nil {
		return nil
	}

	return d.Entry.ReferenceURL
}

// ScanService decides whether a URL posted in a guild warrants enforcement.
type ScanService struct {
	policies   PolicyProvider
	verdicts   VerdictProvider
	blocklists BlocklistProvider
	logger     *zap.Logger
}

// NewScanService creates a ScanService.
func NewScanService(
	policies PolicyProvider,
	verdicts VerdictProvider,
	blocklists BlocklistProvider,
	logger *zap.Logger,
) *ScanService {
	return &ScanService{
		policies:   policies,
		verdicts:   verdicts,
		blocklists: blocklists,
		logger:     logger.Named("scan_service"),
	}
}

// Evaluate runs the enforcement pipeline for one URL in one guild. It returns
// nil when no action is warranted: scanning is disabled, the URL cannot be
// classified, the confidence score is below the guild's threshold, or the
// guild's moderators marked the link ignored.
func (s *ScanService) Evaluate(ctx context.Context, guildID, url string) (*Detection, error) {
	setting, err := s.policies.Policy(ctx, guildID, false)
	if err != nil {
		return nil, err
	}

	if setting == nil || !setting.Enable {
		return nil, nil //nolint:nilnil // no action warranted
	}

	link, err := s.verdicts.Verdict(ctx, url)
	if err != nil {
		return nil, err
	}

	if link == nil {
		return nil, nil //nolint:nilnil
	}

	minConfidence := DefaultMinConfidence
	if setting.MinConfidence != nil {
		minConfidence = *setting.MinConfidence
	}

	if link.ConfidenceScore < minConfidence {
		return nil, nil //nolint:nilnil
	}

	entries, err := s.blocklists.Blocklist(ctx, guildID, false)
	if err != nil {
		return nil, err
	}

	detection := &Detection{Link: link}

	for _, entry := range entries {
		if !matchesLink(entry, link) {
			continue
		}

		if entry.Status == enum.BlocklistStatusIgnored {
			s.logger.Debug("Link ignored by guild moderators",
				zap.String("guildID", guildID),
				zap.String("url", link.URL))

			return nil, nil //nolint:nilnil
		}

		detection.Entry = entry

		break
	}

	return detection, nil
}

// matchesLink reports whether a blocklist entry refers to the flagged link,
// matching by row ID or, when the relation is loaded, by normalized URL.
func matchesLink(entry *types.GuildBlocklist, link *types.FlaggedLink) bool {
	if entry.FlagID == link.ID {
		return true
	}

	return entry.Link != nil && entry.Link.URL == link.URL
}
