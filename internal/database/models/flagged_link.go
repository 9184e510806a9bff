package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/suspybot/suspy/internal/database/dbretry"
	"github.com/suspybot/suspy/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// FlaggedLinkModel handles database operations for link verdicts.
type FlaggedLinkModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewFlaggedLink creates a new flagged link model instance.
func NewFlaggedLink(db *bun.DB, logger *zap.Logger) *FlaggedLinkModel {
	return &FlaggedLinkModel{
		db:     db,
		logger: logger.Named("db_flagged_link"),
	}
}

// GetFresh retrieves the verdict for a normalized URL if one exists within the
// freshness window. Returns nil without error when no fresh verdict is stored.
func (m *FlaggedLinkModel) GetFresh(ctx context.Context, url string) (*types.FlaggedLink, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.FlaggedLink, error) {
		var link types.FlaggedLink

		err := m.db.NewSelect().
			Model(&link).
			Where("url = ?", url).
			Where("created_at >= ?", time.Now().Add(-types.FlaggedLinkFreshness)).
			Order("created_at DESC").
			Limit(1).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}

			return nil, fmt.Errorf("failed to get flagged link: %w", err)
		}

		return &link, nil
	})
}

// Insert stores a new verdict row. The model's autoincrement ID is populated
// on return.
func (m *FlaggedLinkModel) Insert(ctx context.Context, link *types.FlaggedLink) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().Model(link).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert flagged link: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Stored link verdict",
		zap.String("url", link.URL),
		zap.Int("confidenceScore", link.ConfidenceScore),
		zap.String("category", string(link.Category)))

	return nil
}

// TouchLastDetect bumps the last detection timestamp for a URL.
func (m *FlaggedLinkModel) TouchLastDetect(ctx context.Context, url string) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewUpdate().
			Model((*types.FlaggedLink)(nil)).
			Set("last_detect_at = ?", time.Now()).
			Where("url = ?", url).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update last detect time: %w", err)
		}

		return nil
	})
}
