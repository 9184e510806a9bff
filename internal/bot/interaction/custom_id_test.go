package interaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suspybot/suspy/internal/bot/constants"
	"github.com/suspybot/suspy/internal/bot/interaction"
)

func TestCustomIDRoundTrip(t *testing.T) {
	t.Parallel()

	nonce := interaction.NewNonce()

	t.Run("setup step", func(t *testing.T) {
		t.Parallel()

		raw := interaction.FormatSetupStep("guild-1", nonce, constants.SetupNextAction)

		parsed, err := interaction.Parse(raw)
		require.NoError(t, err)

		assert.Equal(t, constants.CustomIDKindSetupStep, parsed.Kind)
		assert.Equal(t, "guild-1", parsed.GuildID)
		assert.Equal(t, nonce, parsed.Nonce)
		assert.Equal(t, constants.SetupNextAction, parsed.Arg(0))
	})

	t.Run("takeover", func(t *testing.T) {
		t.Parallel()

		raw := interaction.FormatTakeover("guild-1", nonce, constants.SetupTakeoverAccept)

		parsed, err := interaction.Parse(raw)
		require.NoError(t, err)

		assert.Equal(t, constants.CustomIDKindTakeover, parsed.Kind)
		assert.Equal(t, constants.SetupTakeoverAccept, parsed.Arg(0))
	})

	t.Run("blocklist action", func(t *testing.T) {
		t.Parallel()

		raw := interaction.FormatBlocklistAction(
			"guild-1", nonce, constants.BlocklistActionBlock, 42)

		parsed, err := interaction.Parse(raw)
		require.NoError(t, err)

		assert.Equal(t, constants.CustomIDKindBlocklistAction, parsed.Kind)
		assert.Equal(t, "guild-1", parsed.GuildID)
		assert.Equal(t, constants.BlocklistActionBlock, parsed.Arg(0))

		flagID, err := parsed.FlagID()
		require.NoError(t, err)
		assert.Equal(t, int64(42), flagID)
	})

	t.Run("blocklist confirm", func(t *testing.T) {
		t.Parallel()

		raw := interaction.FormatBlocklistConfirm("guild-1", nonce)

		parsed, err := interaction.Parse(raw)
		require.NoError(t, err)

		assert.Equal(t, constants.CustomIDKindBlocklistAction, parsed.Kind)
		assert.Equal(t, constants.BlocklistActionConfirm, parsed.Arg(0))
	})
}

func TestParseRejectsForeignIDs(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"refresh",
		"1:guild",
		"99:guild:nonce:action",
		"abc:guild:nonce",
	}

	for _, raw := range tests {
		_, err := interaction.Parse(raw)
		assert.ErrorIs(t, err, interaction.ErrInvalidCustomID, raw)
	}
}

func TestForGuildRejectsCrossGuildClicks(t *testing.T) {
	t.Parallel()

	parsed, err := interaction.Parse(
		interaction.FormatSetupStep("guild-1", "nonce", constants.SetupNextAction))
	require.NoError(t, err)

	assert.True(t, parsed.ForGuild("guild-1"))
	assert.False(t, parsed.ForGuild("guild-2"),
		"a component rendered for one guild must not act in another")
}

func TestFlagIDRequiresBlocklistKind(t *testing.T) {
	t.Parallel()

	parsed, err := interaction.Parse(interaction.FormatSetupStep("guild-1", "nonce", "next"))
	require.NoError(t, err)

	_, err = parsed.FlagID()
	assert.ErrorIs(t, err, interaction.ErrInvalidCustomID)
}
