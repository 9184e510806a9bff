package types

import (
	"time"

	"github.com/suspybot/suspy/internal/database/types/enum"
)

// FlaggedLinkFreshness is the maximum age of a verdict before the classifier
// must be consulted again.
const FlaggedLinkFreshness = 7 * 24 * time.Hour

// FlaggedLink is the authoritative classification verdict for a normalized URL.
type FlaggedLink struct {
	ID              int64             `bun:",pk,autoincrement"`
	URL             string            `bun:",notnull"`          // Normalized URL the verdict applies to
	Host            string            `bun:",notnull"`          // Host component, for hostname-level blocks
	Category        enum.LinkCategory `bun:",nullzero"`         // Empty for links classified as safe
	ConfidenceScore int               `bun:",notnull"`          // 0-100, wire format fraction scaled at the store boundary
	Reason          string            `bun:",notnull,type:text"`
	BlockHost       bool              `bun:",notnull,default:false"` // Whether the whole hostname should be blocked
	CreatedAt       time.Time         `bun:",notnull"`
	UpdatedAt       time.Time         `bun:",nullzero"`
	LastDetectAt    time.Time         `bun:",nullzero"` // Bumped on every cache/DB hit
}

// IsFresh checks if the verdict is still within the freshness window.
func (l *FlaggedLink) IsFresh() bool {
	return time.Since(l.CreatedAt) <= FlaggedLinkFreshness
}

// BlockType returns the recommended block granularity as the wire-format string.
func (l *FlaggedLink) BlockType() string {
	if l.BlockHost {
		return "hostname"
	}

	return "url"
}
