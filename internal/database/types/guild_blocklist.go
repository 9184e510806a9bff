package types

import (
	"time"

	"github.com/suspybot/suspy/internal/database/types/enum"
)

// GuildBlocklist records a guild's moderation decision (or pending decision)
// about a flagged link. At most one entry exists per (guild, flag) pair.
type GuildBlocklist struct {
	ID           int64                `bun:",pk,autoincrement"`
	GuildID      string               `bun:",notnull"`
	FlagID       int64                `bun:",notnull"` // References flagged_links.id
	Status       enum.BlocklistStatus `bun:",notnull,default:'waiting'"`
	ReferenceURL *string              `bun:"reference_url"` // Link to the first alert message
	CreatedAt    time.Time            `bun:",notnull"`
	UpdatedAt    time.Time            `bun:",nullzero"`
	LastDetectAt time.Time            `bun:",nullzero"`

	Link *FlaggedLink `bun:"rel:belongs-to,join:flag_id=id"`
}

// BlocklistUpdate carries the mutable fields of a blocklist upsert. Nil fields
// leave the existing values untouched; a missing entry is inserted with status
// waiting.
type BlocklistUpdate struct {
	FlagID       int64
	Status       *enum.BlocklistStatus
	ReferenceURL *string
	LastDetectAt *time.Time
}
