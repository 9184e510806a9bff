package builder

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/suspybot/suspy/internal/bot/constants"
	"github.com/suspybot/suspy/internal/bot/interaction"
	"github.com/suspybot/suspy/internal/database/types"
)

// AlertBuilder renders the log-channel alert posted when a message is
// removed. First detections carry block/ignore buttons; repeats link back to
// the original alert instead.
type AlertBuilder struct {
	guildID      string
	link         *types.FlaggedLink
	authorID     string
	channelID    string
	referenceURL *string
	nonce        string
}

// NewAlertBuilder creates an alert builder for a detection.
func NewAlertBuilder(
	guildID string, link *types.FlaggedLink, authorID, channelID string, referenceURL *string,
) *AlertBuilder {
	return &AlertBuilder{
		guildID:      guildID,
		link:         link,
		authorID:     authorID,
		channelID:    channelID,
		referenceURL: referenceURL,
		nonce:        interaction.NewNonce(),
	}
}

// Build renders the alert message.
func (b *AlertBuilder) Build() *discord.MessageCreateBuilder {
	embed := discord.NewEmbedBuilder().
		SetTitle("Unsafe Link Removed").
		SetDescription(fmt.Sprintf("A message from <@%s> in <#%s> was removed.",
			b.authorID, b.channelID)).
		SetColor(constants.ColorDanger).
		AddField("URL", fmt.Sprintf("`%s`", b.link.URL), false).
		AddField("Confidence", fmt.Sprintf("%d%%", b.link.ConfidenceScore), true).
		AddField("Reason", b.link.Reason, false)

	if b.link.Category != "" {
		embed.AddField("Category",
			fmt.Sprintf("%s %s", b.link.Category.Emoji(), b.link.Category), true)
	}

	if b.referenceURL != nil {
		embed.AddField("First Seen", fmt.Sprintf("[Jump to alert](%s)", *b.referenceURL), false)

		return discord.NewMessageCreateBuilder().SetEmbeds(embed.Build())
	}

	return discord.NewMessageCreateBuilder().
		SetEmbeds(embed.Build()).
		AddContainerComponents(discord.NewActionRow(
			discord.NewDangerButton("Block",
				interaction.FormatBlocklistAction(b.guildID, b.nonce,
					constants.BlocklistActionBlock, b.link.ID)),
			discord.NewSecondaryButton("Ignore",
				interaction.FormatBlocklistAction(b.guildID, b.nonce,
					constants.BlocklistActionIgnore, b.link.ID)),
		))
}

// NewBlocklistConfirm renders the ephemeral confirmation for a pending
// block/ignore decision. The nonce keys the pending action.
func NewBlocklistConfirm(guildID, nonce, action, url string) *discord.MessageCreateBuilder {
	verb := "block"
	if action == constants.BlocklistActionIgnore {
		verb = "ignore"
	}

	embed := discord.NewEmbedBuilder().
		SetDescription(fmt.Sprintf("Really %s `%s` for this server?", verb, url)).
		SetColor(constants.ColorWarning)

	return discord.NewMessageCreateBuilder().
		SetEmbeds(embed.Build()).
		AddContainerComponents(discord.NewActionRow(
			discord.NewPrimaryButton("Confirm",
				interaction.FormatBlocklistConfirm(guildID, nonce)),
		))
}
