package handlers

import (
	"context"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/suspybot/suspy/internal/bot/builder"
	"github.com/suspybot/suspy/internal/bot/constants"
	"github.com/suspybot/suspy/internal/bot/interaction"
	"github.com/suspybot/suspy/internal/database/types"
	"github.com/suspybot/suspy/internal/database/types/enum"
	"go.uber.org/zap"
)

// pendingAction is a block/ignore decision waiting for its confirmation
// click. It expires with the action cache's TTL.
type pendingAction struct {
	guildID        string
	flagID         int64
	action         string
	alertChannelID snowflake.ID
	alertMessageID snowflake.ID
}

// HandleBlocklistAction processes the block/ignore buttons on an alert and
// their confirmation step. Blocking marks the link resolved and feeds it into
// the guild's automod rule; ignoring suppresses future enforcement.
func (h *Handler) HandleBlocklistAction(
	event *events.ComponentInteractionCreate, customID *interaction.CustomID,
) {
	guildID := event.GuildID()
	if guildID == nil || !customID.ForGuild(guildID.String()) {
		return
	}

	if !canModerate(event.Member()) {
		h.replyComponentWarning(event, "You need the Manage Messages permission to act on alerts.")
		return
	}

	switch customID.Arg(0) {
	case constants.BlocklistActionBlock, constants.BlocklistActionIgnore:
		h.stagePendingAction(event, customID)
	case constants.BlocklistActionConfirm:
		h.confirmPendingAction(event, customID)
	}
}

// stagePendingAction parks the decision in the action cache and asks for
// confirmation. The original alert stays untouched until the confirm click.
func (h *Handler) stagePendingAction(
	event *events.ComponentInteractionCreate, customID *interaction.CustomID,
) {
	flagID, err := customID.FlagID()
	if err != nil {
		return
	}

	nonce := interaction.NewNonce()

	h.actions.Set(nonce, pendingAction{
		guildID:        customID.GuildID,
		flagID:         flagID,
		action:         customID.Arg(0),
		alertChannelID: event.Message.ChannelID,
		alertMessageID: event.Message.ID,
	})

	confirm := builder.NewBlocklistConfirm(
		customID.GuildID, nonce, customID.Arg(0), urlFromAlert(event.Message.Embeds))

	if err := event.CreateMessage(confirm.SetEphemeral(true).Build()); err != nil {
		h.logger.Error("Failed to send confirmation prompt", zap.Error(err))
	}
}

// confirmPendingAction applies a staged decision.
func (h *Handler) confirmPendingAction(
	event *events.ComponentInteractionCreate, customID *interaction.CustomID,
) {
	pending, ok := h.actions.Get(customID.Nonce)
	if !ok || pending.guildID != customID.GuildID {
		h.updateWarning(event, "This confirmation expired. Use the alert's buttons again.")
		return
	}

	h.actions.Delete(customID.Nonce)

	status := enum.BlocklistStatusResolved
	if pending.action == constants.BlocklistActionIgnore {
		status = enum.BlocklistStatusIgnored
	}

	ctx := context.Background()

	err := h.service.Guild().UpsertBlocklist(ctx, pending.guildID, &types.BlocklistUpdate{
		FlagID: pending.flagID,
		Status: &status,
	})
	if err != nil {
		h.logger.Error("Failed to update blocklist entry",
			zap.String("guildID", pending.guildID),
			zap.Int64("flagID", pending.flagID),
			zap.Error(err))
		h.updateWarning(event, "Could not save the decision.")

		return
	}

	h.logger.Info("Blocklist decision recorded",
		zap.String("guildID", pending.guildID),
		zap.Int64("flagID", pending.flagID),
		zap.String("status", string(status)))

	if status == enum.BlocklistStatusResolved {
		h.syncAutomod(ctx, event.Client(), pending.guildID)
	}

	h.resolveAlert(event, pending)
	h.updateWarning(event, "Decision saved.")
}

// resolveAlert rewrites the original alert to show the decision and strips
// its buttons.
func (h *Handler) resolveAlert(event *events.ComponentInteractionCreate, pending pendingAction) {
	decision := "Blocked for this server"
	if pending.action == constants.BlocklistActionIgnore {
		decision = "Ignored for this server"
	}

	message, err := event.Client().Rest().GetMessage(pending.alertChannelID, pending.alertMessageID)
	if err != nil {
		h.logger.Debug("Failed to fetch alert message", zap.Error(err))
		return
	}

	embeds := message.Embeds

	if len(embeds) > 0 {
		embed := discord.EmbedBuilder{Embed: embeds[0]}
		embed.AddField("Decision",
			decision+" by <@"+event.User().ID.String()+">", false).
			SetColor(constants.ColorNeutral)

		embeds = []discord.Embed{embed.Build()}
	}

	update := discord.NewMessageUpdateBuilder().
		SetEmbeds(embeds...).
		ClearContainerComponents().
		Build()

	if _, err := event.Client().Rest().UpdateMessage(
		pending.alertChannelID, pending.alertMessageID, update,
	); err != nil {
		h.logger.Error("Failed to update alert message", zap.Error(err))
	}
}

// urlFromAlert pulls the flagged URL back out of the alert embed for the
// confirmation text.
func urlFromAlert(embeds []discord.Embed) string {
	for _, embed := range embeds {
		for _, field := range embed.Fields {
			if field.Name == "URL" {
				return strings.Trim(field.Value, "`")
			}
		}
	}

	return "this link"
}

func canModerate(member *discord.ResolvedMember) bool {
	return member != nil && member.Permissions.Has(discord.PermissionManageMessages)
}
