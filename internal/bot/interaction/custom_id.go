// Package interaction encodes and decodes the component custom IDs the bot
// attaches to buttons and select menus.
package interaction

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/suspybot/suspy/internal/bot/constants"
)

// ErrInvalidCustomID is returned for custom IDs the bot did not create.
var ErrInvalidCustomID = errors.New("invalid custom ID")

// CustomID is a decoded component identifier. Every ID carries the guild it
// was rendered for and a nonce tying it to the render that created it, so
// cross-guild and stale clicks can be rejected without mutating state.
type CustomID struct {
	Kind    int
	GuildID string
	Nonce   string
	Args    []string
}

// Arg returns the positional argument at i, or "" when absent.
func (c *CustomID) Arg(i int) string {
	if i >= len(c.Args) {
		return ""
	}

	return c.Args[i]
}

// NewNonce returns a fresh component nonce.
func NewNonce() string {
	return uuid.NewString()
}

// FormatSetupStep encodes a setup wizard control, such as a navigation button
// or one of the wizard's select menus.
func FormatSetupStep(guildID, nonce, action string) string {
	return format(constants.CustomIDKindSetupStep, guildID, nonce, action)
}

// FormatTakeover encodes a takeover prompt decision button.
func FormatTakeover(guildID, nonce, decision string) string {
	return format(constants.CustomIDKindTakeover, guildID, nonce, decision)
}

// FormatBlocklistAction encodes a block/ignore button on an alert, carrying
// the flagged link's row ID.
func FormatBlocklistAction(guildID, nonce, action string, flagID int64) string {
	return format(constants.CustomIDKindBlocklistAction, guildID, nonce,
		action, strconv.FormatInt(flagID, 10))
}

// FormatBlocklistConfirm encodes the confirm button of a pending blocklist
// action. The nonce keys the pending action cache.
func FormatBlocklistConfirm(guildID, nonce string) string {
	return format(constants.CustomIDKindBlocklistAction, guildID, nonce,
		constants.BlocklistActionConfirm)
}

func format(kind int, guildID, nonce string, args ...string) string {
	id := fmt.Sprintf("%d:%s:%s", kind, guildID, nonce)
	if len(args) > 0 {
		id += ":" + strings.Join(args, ":")
	}

	return id
}

// Parse decodes a component custom ID. IDs from other sources fail with
// ErrInvalidCustomID.
func Parse(raw string) (*CustomID, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 {
		return nil, ErrInvalidCustomID
	}

	kind, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, ErrInvalidCustomID
	}

	switch kind {
	case constants.CustomIDKindSetupStep,
		constants.CustomIDKindTakeover,
		constants.CustomIDKindBlocklistAction:
	default:
		return nil, ErrInvalidCustomID
	}

	return &CustomID{
		Kind:    kind,
		GuildID: parts[1],
		Nonce:   parts[2],
		Args:    parts[3:],
	}, nil
}

// ForGuild reports whether the component was rendered for the given guild.
// Clicks relayed from another guild's message must be rejected before any
// state changes.
func (c *CustomID) ForGuild(guildID string) bool {
	return c.GuildID == guildID
}

// FlagID decodes the flagged link row ID carried by a blocklist action.
func (c *CustomID) FlagID() (int64, error) {
	if c.Kind != constants.CustomIDKindBlocklistAction {
		return 0, ErrInvalidCustomID
	}

	id, err := strconv.ParseInt(c.Arg(1), 10, 64)
	if err != nil {
		return 0, ErrInvalidCustomID
	}

	return id, nil
}
