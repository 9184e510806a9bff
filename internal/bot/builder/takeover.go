package builder

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/suspybot/suspy/internal/bot/constants"
	"github.com/suspybot/suspy/internal/bot/core/session"
	"github.com/suspybot/suspy/internal/bot/interaction"
)

// TakeoverBuilder renders the prompt shown when an administrator runs /setup
// while another administrator's wizard session is still active.
type TakeoverBuilder struct {
	session *session.Session
}

// NewTakeoverBuilder creates a takeover prompt builder.
func NewTakeoverBuilder(s *session.Session) *TakeoverBuilder {
	return &TakeoverBuilder{session: s}
}

// Build renders the takeover prompt.
func (b *TakeoverBuilder) Build() *discord.MessageCreateBuilder {
	embed := discord.NewEmbedBuilder().
		SetTitle("Setup In Progress").
		SetDescription(fmt.Sprintf("<@%s> is currently running setup for this server.\n"+
			"Taking over invalidates their wizard and resumes from the last "+
			"saved step.", b.session.OwnerID)).
		SetColor(constants.ColorWarning)

	return discord.NewMessageCreateBuilder().
		SetEmbeds(embed.Build()).
		AddContainerComponents(discord.NewActionRow(
			discord.NewDangerButton("Take Over",
				interaction.FormatTakeover(b.session.GuildID, b.session.Nonce,
					constants.SetupTakeoverAccept)),
			discord.NewSecondaryButton("Cancel",
				interaction.FormatTakeover(b.session.GuildID, b.session.Nonce,
					constants.SetupTakeoverDecline)),
		))
}
