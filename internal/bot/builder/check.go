package builder

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/suspybot/suspy/internal/bot/constants"
	"github.com/suspybot/suspy/internal/database/types"
)

// CheckBuilder renders the reply to /check.
type CheckBuilder struct {
	url  string
	link *types.FlaggedLink
}

// NewCheckBuilder creates a check reply builder. A nil link means the URL was
// not scannable.
func NewCheckBuilder(url string, link *types.FlaggedLink) *CheckBuilder {
	return &CheckBuilder{url: url, link: link}
}

// Build renders the verdict embed.
func (b *CheckBuilder) Build() *discord.MessageCreateBuilder {
	if b.link == nil {
		embed := discord.NewEmbedBuilder().
			SetTitle("Not Checked").
			SetDescription(fmt.Sprintf("`%s` is not a scannable public URL.", b.url)).
			SetColor(constants.ColorNeutral)

		return discord.NewMessageCreateBuilder().SetEmbeds(embed.Build())
	}

	embed := discord.NewEmbedBuilder().
		AddField("URL", fmt.Sprintf("`%s`", b.link.URL), false).
		AddField("Confidence", fmt.Sprintf("%d%%", b.link.ConfidenceScore), true).
		AddField("Reason", b.link.Reason, false)

	if b.link.Category != "" {
		embed.AddField("Category",
			fmt.Sprintf("%s %s", b.link.Category.Emoji(), b.link.Category), true)
	}

	// The stored score mirrors the classifier's 0-1 scale as a percentage;
	// anything at or above 50 reads as risky for display purposes.
	if b.link.ConfidenceScore >= 50 {
		embed.SetTitle("Risky Link").SetColor(constants.ColorDanger)
	} else {
		embed.SetTitle("Link Looks Safe").SetColor(constants.ColorSuccess)
	}

	return discord.NewMessageCreateBuilder().SetEmbeds(embed.Build())
}
