package builder

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/suspybot/suspy/internal/bot/constants"
	"github.com/suspybot/suspy/internal/database/types"
)

// NewAuthorNotice renders the DM sent to a message author after their
// message was removed.
func NewAuthorNotice(guildName string, link *types.FlaggedLink) *discord.MessageCreateBuilder {
	embed := discord.NewEmbedBuilder().
		SetTitle("Your message was removed").
		SetDescription(fmt.Sprintf("A link you posted in **%s** was flagged as unsafe "+
			"and the message was removed.", guildName)).
		SetColor(constants.ColorWarning).
		AddField("URL", fmt.Sprintf("`%s`", link.URL), false).
		AddField("Reason", link.Reason, false).
		SetFooterText("If you believe this is a mistake, contact the server's moderators.")

	return discord.NewMessageCreateBuilder().SetEmbeds(embed.Build())
}

// NewHelpMessage renders the /help reply.
func NewHelpMessage() *discord.MessageCreateBuilder {
	embed := discord.NewEmbedBuilder().
		SetTitle("Suspy").
		SetDescription("Suspy scans links posted in this server and removes messages "+
			"containing unsafe ones.").
		SetColor(constants.ColorPrimary).
		AddField("/setup", "Configure scanning for this server (requires Manage Server).", false).
		AddField("/check", "Check a URL without posting it.", false).
		AddField("/help", "Show this message.", false)

	return discord.NewMessageCreateBuilder().SetEmbeds(embed.Build())
}

// NewErrorMessage renders a generic failure reply.
func NewErrorMessage(description string) *discord.MessageCreateBuilder {
	embed := discord.NewEmbedBuilder().
		SetTitle("Something went wrong").
		SetDescription(description).
		SetColor(constants.ColorDanger)

	return discord.NewMessageCreateBuilder().SetEmbeds(embed.Build())
}

// NewWarningMessage renders a non-failure notice, such as a permission or
// precondition problem.
func NewWarningMessage(description string) *discord.MessageCreateBuilder {
	embed := discord.NewEmbedBuilder().
		SetDescription(description).
		SetColor(constants.ColorWarning)

	return discord.NewMessageCreateBuilder().SetEmbeds(embed.Build())
}
