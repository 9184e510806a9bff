package handlers

import (
	"context"
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/suspybot/suspy/internal/ai"
	"github.com/suspybot/suspy/internal/ai/client"
	"github.com/suspybot/suspy/internal/bot/builder"
	"github.com/suspybot/suspy/internal/bot/constants"
	"go.uber.org/zap"
)

// HandleCheckCommand classifies a URL on demand and replies with the verdict.
// The reply is ephemeral so risky URLs are not re-broadcast to the channel.
func (h *Handler) HandleCheckCommand(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	rawURL := data.String(constants.CheckCommandURLOption)

	ephemeral := true
	if value, ok := data.OptBool(constants.CheckCommandEphemeralOption); ok {
		ephemeral = value
	}

	if err := event.DeferCreateMessage(ephemeral); err != nil {
		h.logger.Error("Failed to defer check response", zap.Error(err))
		return
	}

	ctx := context.Background()

	link, err := h.service.Link().Verdict(ctx, rawURL)
	if err != nil {
		h.followUp(event, builder.NewErrorMessage(checkErrorText(err)), ephemeral)
		return
	}

	h.followUp(event, builder.NewCheckBuilder(rawURL, link).Build(), ephemeral)
}

// HandleHelpCommand replies with the command overview.
func (h *Handler) HandleHelpCommand(event *events.ApplicationCommandInteractionCreate) {
	if err := event.CreateMessage(builder.NewHelpMessage().
		SetEphemeral(true).
		Build(),
	); err != nil {
		h.logger.Error("Failed to send help message", zap.Error(err))
	}
}

// followUp completes a deferred interaction.
func (h *Handler) followUp(
	event *events.ApplicationCommandInteractionCreate,
	message *discord.MessageCreateBuilder,
	ephemeral bool,
) {
	if _, err := event.Client().Rest().CreateFollowupMessage(
		event.ApplicationID(), event.Token(), message.SetEphemeral(ephemeral).Build(),
	); err != nil {
		h.logger.Error("Failed to send followup message", zap.Error(err))
	}
}

// checkErrorText maps classifier failures to user-facing text.
func checkErrorText(err error) string {
	var scanErr *ai.ScanError

	switch {
	case errors.As(err, &scanErr):
		return "The URL could not be checked: " + scanErr.Reason
	case errors.Is(err, client.ErrQuotaExhausted):
		return "The checker is over capacity right now. Try again later."
	default:
		return "The URL could not be checked right now."
	}
}
