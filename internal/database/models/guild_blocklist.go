package models

import (
	"context"
	"fmt"

	"github.com/suspybot/suspy/internal/database/dbretry"
	"github.com/suspybot/suspy/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// GuildBlocklistModel handles database operations for guild blocklist entries.
type GuildBlocklistModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewGuildBlocklist creates a new guild blocklist model instance.
func NewGuildBlocklist(db *bun.DB, logger *zap.Logger) *GuildBlocklistModel {
	return &GuildBlocklistModel{
		db:     db,
		logger: logger.Named("db_guild_blocklist"),
	}
}

// ListByGuild retrieves all blocklist entries for a guild with their verdicts
// joined.
func (m *GuildBlocklistModel) ListByGuild(ctx context.Context, guildID string) ([]*types.GuildBlocklist, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.GuildBlocklist, error) {
		var entries []*types.GuildBlocklist

		err := m.db.NewSelect().
			Model(&entries).
			Relation("Link").
			Where("guild_blocklist.guild_id = ?", guildID).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list guild blocklist: %w", err)
		}

		return entries, nil
	})
}

// Insert stores a new blocklist entry.
func (m *GuildBlocklistModel) Insert(ctx context.Context, entry *types.GuildBlocklist) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().Model(entry).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert blocklist entry: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Inserted blocklist entry",
		zap.String("guildID", entry.GuildID),
		zap.Int64("flagID", entry.FlagID),
		zap.String("status", string(entry.Status)))

	return nil
}

// Update stores the mutable fields of an existing blocklist entry.
func (m *GuildBlocklistModel) Update(ctx context.Context, entry *types.GuildBlocklist) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewUpdate().
			Model(entry).
			Column("status", "reference_url", "last_detect_at", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update blocklist entry: %w", err)
		}

		return nil
	})
}
