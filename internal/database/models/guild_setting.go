package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/suspybot/suspy/internal/database/dbretry"
	"github.com/suspybot/suspy/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// GuildSettingModel handles database operations for guild policies.
type GuildSettingModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewGuildSetting creates a new guild setting model instance.
func NewGuildSetting(db *bun.DB, logger *zap.Logger) *GuildSettingModel {
	return &GuildSettingModel{
		db:     db,
		logger: logger.Named("db_guild_setting"),
	}
}

// Get retrieves a guild's policy row. Returns nil without error when the guild
// has never been configured.
func (m *GuildSettingModel) Get(ctx context.Context, guildID string) (*types.GuildSetting, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.GuildSetting, error) {
		var setting types.GuildSetting

		err := m.db.NewSelect().
			Model(&setting).
			Where("guild_id = ?", guildID).
			Limit(1).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}

			return nil, fmt.Errorf("failed to get guild setting: %w", err)
		}

		return &setting, nil
	})
}

// Upsert stores a full policy row, replacing the existing row for the guild.
// Conflict target is guild_id uniqueness.
func (m *GuildSettingModel) Upsert(ctx context.Context, setting *types.GuildSetting) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(setting).
			On("CONFLICT (guild_id) DO UPDATE").
			Set("enable = EXCLUDED.enable").
			Set("enable_dm = EXCLUDED.enable_dm").
			Set("min_confidence = EXCLUDED.min_confidence").
			Set("log_channel = EXCLUDED.log_channel").
			Set("setup_done = EXCLUDED.setup_done").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert guild setting: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Upserted guild setting",
		zap.String("guildID", setting.GuildID),
		zap.Bool("enable", setting.Enable),
		zap.Bool("setupDone", setting.SetupDone))

	return nil
}

// Count returns the number of guilds with a stored policy.
func (m *GuildSettingModel) Count(ctx context.Context) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := m.db.NewSelect().
			Model((*types.GuildSetting)(nil)).
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count guild settings: %w", err)
		}

		return count, nil
	})
}
