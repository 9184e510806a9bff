package handlers

import (
	"context"
	"strconv"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/suspybot/suspy/internal/bot/builder"
	"github.com/suspybot/suspy/internal/bot/constants"
	"github.com/suspybot/suspy/internal/bot/core/session"
	"github.com/suspybot/suspy/internal/bot/interaction"
	"github.com/suspybot/suspy/internal/database/types"
	"go.uber.org/zap"
)

// HandleSetupCommand starts or resumes the setup wizard. When another
// administrator's session is active, the caller is offered a takeover prompt
// instead.
func (h *Handler) HandleSetupCommand(event *events.ApplicationCommandInteractionCreate) {
	guildID := event.GuildID()
	if guildID == nil {
		h.replyWarning(event, "Setup only works inside a server.")
		return
	}

	if !canManageGuild(event.Member()) {
		h.replyWarning(event, "You need the Manage Server permission to run setup.")
		return
	}

	ctx := context.Background()
	userID := event.User().ID.String()

	if existing, ok := h.sessions.Get(guildID.String()); ok && !existing.Owns(userID) {
		if err := event.CreateMessage(builder.NewTakeoverBuilder(existing).
			Build().
			SetEphemeral(true).
			Build(),
		); err != nil {
			h.logger.Error("Failed to send takeover prompt", zap.Error(err))
		}

		return
	}

	setting, err := h.service.Guild().Policy(ctx, guildID.String(), true)
	if err != nil {
		h.logger.Error("Failed to load guild settings", zap.Error(err))
		h.replyError(event, "Could not load this server's settings.")

		return
	}

	sess := h.sessions.Start(guildID.String(), userID, setting)

	if err := event.CreateMessage(messageCreateFromUpdate(
		builder.NewSetupBuilder(sess, setting).Build(),
	).SetEphemeral(true).Build()); err != nil {
		h.logger.Error("Failed to send setup wizard", zap.Error(err))
	}
}

// HandleSetupComponent processes the wizard's buttons and select menus.
func (h *Handler) HandleSetupComponent(
	event *events.ComponentInteractionCreate, customID *interaction.CustomID,
) {
	guildID := event.GuildID()
	if guildID == nil || !customID.ForGuild(guildID.String()) {
		return
	}

	ctx := context.Background()

	sess, ok := h.sessions.Get(guildID.String())
	if !ok || sess.Nonce != customID.Nonce {
		h.updateWarning(event, "This setup session has expired. Run /setup to start again.")
		return
	}

	if !sess.Owns(event.User().ID.String()) {
		h.replyComponentWarning(event, "Only the administrator running setup can use these "+
			"controls. Run /setup to take over.")

		return
	}

	setting, err := h.service.Guild().Policy(ctx, guildID.String(), false)
	if err != nil {
		h.logger.Error("Failed to load guild settings", zap.Error(err))
		h.updateWarning(event, "Could not load this server's settings.")

		return
	}

	switch customID.Arg(0) {
	case constants.SetupNextAction:
		setting, ok = h.advanceStep(ctx, event, sess, setting)
		if !ok {
			return
		}
	case constants.SetupBackAction:
		if sess.Step > constants.SetupStepWelcome {
			sess.Step--
		}
	case constants.SetupToggleAction:
		setting, err = h.service.Guild().SetPolicy(ctx, guildID.String(), &types.GuildSettingUpdate{
			Enable: boolPtr(setting == nil || !setting.Enable),
		})
		if err != nil {
			h.logger.Error("Failed to toggle scanning", zap.Error(err))
			h.updateWarning(event, "Could not save the change.")

			return
		}

		h.refreshPresence()
	case constants.SetupLogChannelSelectID:
		data := event.ChannelSelectMenuInteractionData()
		if len(data.Values) == 0 {
			return
		}

		setting, err = h.service.Guild().SetPolicy(ctx, guildID.String(), &types.GuildSettingUpdate{
			LogChannel: strPtr(data.Values[0].String()),
		})
		if err != nil {
			h.logger.Error("Failed to save log channel", zap.Error(err))
			h.updateWarning(event, "Could not save the log channel.")

			return
		}
	case constants.SetupConfidenceSelectID:
		score, convErr := strconv.Atoi(firstValue(event))
		if convErr != nil || !constants.IsAllowedMinConfidence(score) {
			return
		}

		setting, err = h.service.Guild().SetPolicy(ctx, guildID.String(), &types.GuildSettingUpdate{
			MinConfidence: &score,
		})
		if err != nil {
			h.logger.Error("Failed to save confidence threshold", zap.Error(err))
			h.updateWarning(event, "Could not save the threshold.")

			return
		}
	case constants.SetupDMPreferenceSelectID:
		enabled := firstValue(event) == "true"

		setting, err = h.service.Guild().SetPolicy(ctx, guildID.String(), &types.GuildSettingUpdate{
			EnableDM: &enabled,
		})
		if err != nil {
			h.logger.Error("Failed to save DM preference", zap.Error(err))
			h.updateWarning(event, "Could not save the preference.")

			return
		}
	default:
		return
	}

	// The final screen renders after the session already ended; saving it
	// again would resurrect it.
	if sess.Step != constants.SetupStepDone {
		sess.Rotate()
		h.sessions.Save(sess)
	}

	if err := event.UpdateMessage(builder.NewSetupBuilder(sess, setting).Build().Build()); err != nil {
		h.logger.Error("Failed to render setup step", zap.Error(err))
	}
}

// advanceStep moves the wizard forward, refusing to leave a step whose
// question is still unanswered. Finishing persists the setup-done flag, syncs
// the automod rules, refreshes the bot's presence, and ends the session.
func (h *Handler) advanceStep(
	ctx context.Context,
	event *events.ComponentInteractionCreate,
	sess *session.Session,
	setting *types.GuildSetting,
) (*types.GuildSetting, bool) {
	if !session.StepComplete(sess.Step, setting) {
		h.replyComponentWarning(event, stepIncompleteText(sess.Step))
		return nil, false
	}

	switch sess.Step {
	case constants.SetupStepWelcome:
		sess.Step = constants.SetupStepLogChannel
	case constants.SetupStepLogChannel:
		sess.Step = constants.SetupStepMinConfidence
	case constants.SetupStepMinConfidence:
		sess.Step = constants.SetupStepDMPreference
	case constants.SetupStepDMPreference:
		sess.Step = constants.SetupStepConfirm
	case constants.SetupStepConfirm:
		updated, err := h.service.Guild().SetPolicy(ctx, sess.GuildID, &types.GuildSettingUpdate{
			SetupDone: boolPtr(true),
		})
		if err != nil {
			h.logger.Error("Failed to finish setup", zap.Error(err))
			h.updateWarning(event, "Could not save the configuration.")

			return nil, false
		}

		setting = updated
		sess.Step = constants.SetupStepDone

		h.sessions.End(sess.GuildID)
		h.syncAutomod(ctx, event.Client(), sess.GuildID)
		h.refreshPresence()
	}

	return setting, true
}

// stepIncompleteText names the missing answer blocking a Next click.
func stepIncompleteText(step int) string {
	switch step {
	case constants.SetupStepLogChannel:
		return "Pick a log channel first."
	case constants.SetupStepMinConfidence:
		return "Pick a confidence threshold first."
	default:
		return "Choose whether authors get a DM first."
	}
}

// HandleTakeoverComponent processes the takeover prompt's buttons.
func (h *Handler) HandleTakeoverComponent(
	event *events.ComponentInteractionCreate, customID *interaction.CustomID,
) {
	guildID := event.GuildID()
	if guildID == nil || !customID.ForGuild(guildID.String()) {
		return
	}

	if customID.Arg(0) == constants.SetupTakeoverDecline {
		h.updateWarning(event, "Takeover cancelled.")
		return
	}

	if !canManageGuild(event.Member()) {
		h.replyComponentWarning(event, "You need the Manage Server permission to take over setup.")
		return
	}

	existing, ok := h.sessions.Get(guildID.String())
	if !ok || existing.Nonce != customID.Nonce {
		h.updateWarning(event, "That setup session already ended. Run /setup to start.")
		return
	}

	ctx := context.Background()

	setting, err := h.service.Guild().Policy(ctx, guildID.String(), true)
	if err != nil {
		h.logger.Error("Failed to load guild settings", zap.Error(err))
		h.updateWarning(event, "Could not load this server's settings.")

		return
	}

	sess := h.sessions.Takeover(guildID.String(), event.User().ID.String(), setting)

	if err := event.UpdateMessage(builder.NewSetupBuilder(sess, setting).Build().Build()); err != nil {
		h.logger.Error("Failed to render setup step after takeover", zap.Error(err))
	}
}

// replyWarning responds to a command with an ephemeral warning.
func (h *Handler) replyWarning(event *events.ApplicationCommandInteractionCreate, text string) {
	if err := event.CreateMessage(builder.NewWarningMessage(text).
		SetEphemeral(true).
		Build(),
	); err != nil {
		h.logger.Error("Failed to send warning", zap.Error(err))
	}
}

// replyError responds to a command with an ephemeral error message.
func (h *Handler) replyError(event *events.ApplicationCommandInteractionCreate, text string) {
	if err := event.CreateMessage(builder.NewErrorMessage(text).
		SetEphemeral(true).
		Build(),
	); err != nil {
		h.logger.Error("Failed to send error message", zap.Error(err))
	}
}

// replyComponentWarning sends an ephemeral warning without touching the
// message the component lives on.
func (h *Handler) replyComponentWarning(event *events.ComponentInteractionCreate, text string) {
	if err := event.CreateMessage(builder.NewWarningMessage(text).
		SetEphemeral(true).
		Build(),
	); err != nil {
		h.logger.Error("Failed to send warning", zap.Error(err))
	}
}

// updateWarning replaces the component's message with a warning.
func (h *Handler) updateWarning(event *events.ComponentInteractionCreate, text string) {
	update := discord.NewMessageUpdateBuilder().
		SetEmbeds(builder.NewWarningMessage(text).Embeds[0]).
		ClearContainerComponents().
		Build()

	if err := event.UpdateMessage(update); err != nil {
		h.logger.Error("Failed to update message", zap.Error(err))
	}
}

// firstValue returns the first selected value of a string select menu.
func firstValue(event *events.ComponentInteractionCreate) string {
	data := event.StringSelectMenuInteractionData()
	if len(data.Values) == 0 {
		return ""
	}

	return data.Values[0]
}

// messageCreateFromUpdate converts a wizard screen into an initial command
// response. Wizard screens are built as updates because every later
// transition edits the same message in place.
func messageCreateFromUpdate(update *discord.MessageUpdateBuilder) *discord.MessageCreateBuilder {
	built := update.Build()

	create := discord.NewMessageCreateBuilder()
	if built.Embeds != nil {
		create.SetEmbeds(*built.Embeds...)
	}

	if built.Components != nil {
		create.AddContainerComponents(*built.Components...)
	}

	return create
}

func canManageGuild(member *discord.ResolvedMember) bool {
	return member != nil && member.Permissions.Has(discord.PermissionManageGuild)
}

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }
