// Package service implements the stores and decision pipeline between the
// bot handlers, the database, and the classifier.
package service

import (
	"context"

	"github.com/suspybot/suspy/internal/ai"
	"github.com/suspybot/suspy/internal/database"
	"github.com/suspybot/suspy/internal/database/types"
	"go.uber.org/zap"
)

// Scanner classifies a single URL.
type Scanner interface {
	ScanURL(ctx context.Context, url string) (*ai.ScanResult, error)
}

// LinkStore provides durable verdict rows.
type LinkStore interface {
	GetFresh(ctx context.Context, url string) (*types.FlaggedLink, error)
	Insert(ctx context.Context, link *types.FlaggedLink) error
	TouchLastDetect(ctx context.Context, url string) error
}

// SettingStore provides durable guild policy rows.
type SettingStore interface {
	Get(ctx context.Context, guildID string) (*types.GuildSetting, error)
	Upsert(ctx context.Context, setting *types.GuildSetting) error
	Count(ctx context.Context) (int, error)
}

// BlocklistStore provides durable guild blocklist rows.
type BlocklistStore interface {
	ListByGuild(ctx context.Context, guildID string) ([]*types.GuildBlocklist, error)
	Insert(ctx context.Context, entry *types.GuildBlocklist) error
	Update(ctx context.Context, entry *types.GuildBlocklist) error
}

// Service bundles all store and pipeline services.
type Service struct {
	links  *LinkService
	guilds *GuildService
	scans  *ScanService
}

// New creates the service layer on top of the database repository and the
// classifier.
func New(repo *database.Repository, scanner Scanner, logger *zap.Logger) (*Service, error) {
	links, err := NewLinkService(repo.Link(), scanner, logger)
	if err != nil {
		return nil, err
	}

	guilds, err := NewGuildService(repo.Setting(), repo.Blocklist(), logger)
	if err != nil {
		return nil, err
	}

	return &Service{
		links:  links,
		guilds: guilds,
		scans:  NewScanService(guilds, links, guilds, logger),
	}, nil
}

// Link returns the verdict service.
func (s *Service) Link() *LinkService {
	return s.links
}

// Guild returns the guild policy and blocklist service.
func (s *Service) Guild() *GuildService {
	return s.guilds
}

// Scan returns the evaluation pipeline.
func (s *Service) Scan() *ScanService {
	return s.scans
}
