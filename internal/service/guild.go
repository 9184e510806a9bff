package service

import (
	"context"
	"fmt"
	"time"

	"github.com/maypok86/otter"
	"github.com/suspybot/suspy/internal/database/types"
	"github.com/suspybot/suspy/internal/database/types/enum"
	"go.uber.org/zap"
)

const (
	guildCacheSize = 1000
	guildCacheTTL  = 15 * time.Minute
)

// GuildService manages per-guild policy and blocklist state with
// write-through in-memory caches.
type GuildService struct {
	settings   SettingStore
	blocklists BlocklistStore

	policyCache    otter.Cache[string, *types.GuildSetting]
	blocklistCache otter.Cache[string, []*types.GuildBlocklist]

	logger *zap.Logger
}

// NewGuildService creates a GuildService.
func NewGuildService(
	settings SettingStore, blocklists BlocklistStore, logger *zap.Logger,
) (*GuildService, error) {
	policyCache, err := otter.MustBuilder[string, *types.GuildSetting](guildCacheSize).
		WithTTL(guildCacheTTL).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create policy cache: %w", err)
	}

	blocklistCache, err := otter.MustBuilder[string, []*types.GuildBlocklist](guildCacheSize).
		WithTTL(guildCacheTTL).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create blocklist cache: %w", err)
	}

	return &GuildService{
		settings:       settings,
		blocklists:     blocklists,
		policyCache:    policyCache,
		blocklistCache: blocklistCache,
		logger:         logger.Named("guild_service"),
	}, nil
}

// Policy returns the guild's settings row, or nil when the guild has never
// run setup. Set force to bypass the cache after a write.
func (s *GuildService) Policy(
	ctx context.Context, guildID string, force bool,
) (*types.GuildSetting, error) {
	if !force {
		if setting, ok := s.policyCache.Get(guildID); ok {
			return setting, nil
		}
	}

	setting, err := s.settings.Get(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load guild settings: %w", err)
	}

	if setting != nil {
		s.policyCache.Set(guildID, setting)
	}

	return setting, nil
}

// SetPolicy merges the partial update over the guild's current settings and
// persists the result. A guild with no existing row starts from disabled
// defaults.
func (s *GuildService) SetPolicy(
	ctx context.Context, guildID string, update *types.GuildSettingUpdate,
) (*types.GuildSetting, error) {
	setting, err := s.Policy(ctx, guildID, false)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if setting == nil {
		setting = &types.GuildSetting{
			GuildID:   guildID,
			Enable:    false,
			CreatedAt: now,
		}
	}

	setting.Merge(update)
	setting.UpdatedAt = now

	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to store guild settings: %w", err)
	}

	s.policyCache.Set(guildID, setting)

	s.logger.Debug("Guild settings updated", zap.String("guildID", guildID))

	return setting, nil
}

// Blocklist returns the guild's blocklist entries with their flagged links
// attached. Set force to bypass the cache after a write.
func (s *GuildService) Blocklist(
	ctx context.Context, guildID string, force bool,
) ([]*types.GuildBlocklist, error) {
	if !force {
		if entries, ok := s.blocklistCache.Get(guildID); ok {
			return entries, nil
		}
	}

	entries, err := s.blocklists.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load guild blocklist: %w", err)
	}

	s.blocklistCache.Set(guildID, entries)

	return entries, nil
}

// UpsertBlocklist inserts or updates the blocklist entry for a flagged link
// in a guild, then refreshes the cached list.
func (s *GuildService) UpsertBlocklist(
	ctx context.Context, guildID string, update *types.BlocklistUpdate,
) error {
	entries, err := s.Blocklist(ctx, guildID, false)
	if err != nil {
		return err
	}

	now := time.Now()

	var existing *types.GuildBlocklist

	for _, entry := range entries {
		if entry.FlagID == update.FlagID {
			existing = entry
			break
		}
	}

	if existing != nil {
		if update.Status != nil {
			existing.Status = *update.Status
		}

		if update.ReferenceURL != nil {
			existing.ReferenceURL = update.ReferenceURL
		}

		if update.LastDetectAt != nil {
			existing.LastDetectAt = *update.LastDetectAt
		}

		existing.UpdatedAt = now

		if err := s.blocklists.Update(ctx, existing); err != nil {
			return fmt.Errorf("failed to update blocklist entry: %w", err)
		}
	} else {
		entry := &types.GuildBlocklist{
			GuildID:      guildID,
			FlagID:       update.FlagID,
			Status:       enum.BlocklistStatusWaiting,
			ReferenceURL: update.ReferenceURL,
			CreatedAt:    now,
			UpdatedAt:    now,
			LastDetectAt: now,
		}

		if update.Status != nil {
			entry.Status = *update.Status
		}

		if update.LastDetectAt != nil {
			entry.LastDetectAt = *update.LastDetectAt
		}

		if err := s.blocklists.Insert(ctx, entry); err != nil {
			return fmt.Errorf("failed to insert blocklist entry: %w", err)
		}
	}

	if _, err := s.Blocklist(ctx, guildID, true); err != nil {
		s.logger.Debug("Failed to refresh blocklist cache",
			zap.String("guildID", guildID),
			zap.Error(err))
	}

	return nil
}

// GuildCount returns the number of guilds with a settings row.
func (s *GuildService) GuildCount(ctx context.Context) (int, error) {
	count, err := s.settings.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count guilds: %w", err)
	}

	return count, nil
}
