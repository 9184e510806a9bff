package enum

// BlocklistStatus represents the moderator decision state for a blocklist entry.
type BlocklistStatus string

const (
	// BlocklistStatusWaiting indicates no moderator has acted on the entry yet.
	BlocklistStatusWaiting BlocklistStatus = "waiting"
	// BlocklistStatusIgnored indicates a moderator chose to suppress alerts for the link.
	BlocklistStatusIgnored BlocklistStatus = "ignored"
	// BlocklistStatusResolved indicates a moderator blocked the link.
	BlocklistStatusResolved BlocklistStatus = "resolved"
)

// IsValid checks if the status is one of the allowed values.
func (s BlocklistStatus) IsValid() bool {
	switch s {
	case BlocklistStatusWaiting, BlocklistStatusIgnored, BlocklistStatusResolved:
		return true
	default:
		return false
	}
}
