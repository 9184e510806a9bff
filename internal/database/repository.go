package database

import (
	"github.com/suspybot/suspy/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all row operation models.
type Repository struct {
	link      *models.FlaggedLinkModel
	setting   *models.GuildSettingModel
	blocklist *models.GuildBlocklistModel
}

// NewRepository creates a repository with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		link:      models.NewFlaggedLink(db, logger),
		setting:   models.NewGuildSetting(db, logger),
		blocklist: models.NewGuildBlocklist(db, logger),
	}
}

// Link returns the flagged link model.
func (r *Repository) Link() *models.FlaggedLinkModel {
	return r.link
}

// Setting returns the guild setting model.
func (r *Repository) Setting() *models.GuildSettingModel {
	return r.setting
}

// Blocklist returns the guild blocklist model.
func (r *Repository) Blocklist() *models.GuildBlocklistModel {
	return r.blocklist
}
