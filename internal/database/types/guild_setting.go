package types

import (
	"time"
)

// GuildSetting is the per-guild moderation policy. Nullable fields stay nil
// until the setup wizard sets them.
type GuildSetting struct {
	ID            int64     `bun:",pk,autoincrement"`
	GuildID       string    `bun:",notnull,unique"`
	Enable        bool      `bun:",notnull,default:false"`
	EnableDM      *bool     `bun:"enable_dm"`      // DM the message author on deletion
	MinConfidence *int      `bun:"min_confidence"` // Minimum confidence score (0-100) to act on
	LogChannel    *string   `bun:"log_channel"`    // Channel ID alerts are posted to
	SetupDone     bool      `bun:",notnull,default:false"`
	CreatedAt     time.Time `bun:",notnull"`
	UpdatedAt     time.Time `bun:",nullzero"`
	LastDetectAt  time.Time `bun:",nullzero"`
}

// GuildSettingUpdate is a partial policy used for merge-upserts. Nil fields
// leave the existing value untouched.
type GuildSettingUpdate struct {
	Enable        *bool
	EnableDM      *bool
	MinConfidence *int
	LogChannel    *string
	SetupDone     *bool
}

// Merge overlays the non-nil fields of the update onto the setting.
func (s *GuildSetting) Merge(update *GuildSettingUpdate) {
	if update.Enable != nil {
		s.Enable = *update.Enable
	}

	if update.EnableDM != nil {
		s.EnableDM = update.EnableDM
	}

	if update.MinConfidence != nil {
		s.MinConfidence = update.MinConfidence
	}

	if update.LogChannel != nil {
		s.LogChannel = update.LogChannel
	}

	if update.SetupDone != nil {
		s.SetupDone = *update.SetupDone
	}
}
