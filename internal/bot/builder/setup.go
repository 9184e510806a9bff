// Package builder constructs the Discord messages the bot sends: the setup
// wizard screens, moderation alerts, and command replies.
package builder

import (
	"fmt"
	"strconv"

	"github.com/disgoorg/disgo/discord"
	"github.com/suspybot/suspy/internal/bot/constants"
	"github.com/suspybot/suspy/internal/bot/core/session"
	"github.com/suspybot/suspy/internal/bot/interaction"
	"github.com/suspybot/suspy/internal/database/types"
	"github.com/suspybot/suspy/internal/service"
)

// SetupBuilder renders the setup wizard screen for the session's current
// step. Every selection persists immediately, so the screens read straight
// from the guild's saved settings.
type SetupBuilder struct {
	session *session.Session
	setting *types.GuildSetting
}

// NewSetupBuilder creates a setup wizard builder.
func NewSetupBuilder(s *session.Session, setting *types.GuildSetting) *SetupBuilder {
	return &SetupBuilder{session: s, setting: setting}
}

// Build renders the current wizard step.
func (b *SetupBuilder) Build() *discord.MessageUpdateBuilder {
	switch b.session.Step {
	case constants.SetupStepLogChannel:
		return b.buildLogChannelStep()
	case constants.SetupStepMinConfidence:
		return b.buildMinConfidenceStep()
	case constants.SetupStepDMPreference:
		return b.buildDMPreferenceStep()
	case constants.SetupStepConfirm:
		return b.buildConfirmStep()
	case constants.SetupStepDone:
		return b.buildDoneStep()
	default:
		return b.buildWelcomeStep()
	}
}

func (b *SetupBuilder) buildWelcomeStep() *discord.MessageUpdateBuilder {
	embed := discord.NewEmbedBuilder().
		SetTitle("Suspy Setup").
		SetDescription("This wizard configures link scanning for this server:\n"+
			"where alerts are posted, how confident the classifier must be "+
			"before a message is removed, and whether authors are notified by DM.\n\n"+
			"Only you can drive this wizard; another administrator may take over "+
			"by running /setup themselves.").
		SetColor(constants.ColorPrimary).
		SetFooterText(b.footer())

	return discord.NewMessageUpdateBuilder().
		SetEmbeds(embed.Build()).
		AddContainerComponents(discord.NewActionRow(
			discord.NewPrimaryButton("Start",
				interaction.FormatSetupStep(b.session.GuildID, b.session.Nonce, constants.SetupNextAction)),
		))
}

func (b *SetupBuilder) buildLogChannelStep() *discord.MessageUpdateBuilder {
	description := "Pick the channel where alerts about removed links are posted.\n" +
		"Moderators act on alerts there to block or ignore a link for this server."

	if channel := b.effectiveLogChannel(); channel != nil {
		description += fmt.Sprintf("\n\nCurrent: <#%s>", *channel)
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("Log Channel").
		SetDescription(description).
		SetColor(constants.ColorPrimary).
		SetFooterText(b.footer())

	return discord.NewMessageUpdateBuilder().
		SetEmbeds(embed.Build()).
		AddContainerComponents(
			discord.NewActionRow(
				discord.NewChannelSelectMenu(
					interaction.FormatSetupStep(b.session.GuildID, b.session.Nonce, constants.SetupLogChannelSelectID),
					"Select a log channel",
				).WithChannelTypes(discord.ChannelTypeGuildText),
			),
			b.navigationRow(false),
		)
}

func (b *SetupBuilder) buildMinConfidenceStep() *discord.MessageUpdateBuilder {
	current := b.effectiveMinConfidence()

	options := make([]discord.StringSelectMenuOption, 0, len(constants.AllowedMinConfidenceScores))
	for _, score := range constants.AllowedMinConfidenceScores {
		option := discord.NewStringSelectMenuOption(
			fmt.Sprintf("%d%%", score), strconv.Itoa(score),
		).WithDefault(score == current)

		options = append(options, option)
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("Confidence Threshold").
		SetDescription(fmt.Sprintf("Messages are only removed when the classifier's "+
			"confidence reaches this score. Lower values are stricter.\n\nCurrent: **%d%%**",
			current)).
		SetColor(constants.ColorPrimary).
		SetFooterText(b.footer())

	return discord.NewMessageUpdateBuilder().
		SetEmbeds(embed.Build()).
		AddContainerComponents(
			discord.NewActionRow(
				discord.NewStringSelectMenu(
					interaction.FormatSetupStep(b.session.GuildID, b.session.Nonce, constants.SetupConfidenceSelectID),
					"Select a threshold",
					options...,
				),
			),
			b.navigationRow(false),
		)
}

func (b *SetupBuilder) buildDMPreferenceStep() *discord.MessageUpdateBuilder {
	enabled := b.effectiveEnableDM()

	embed := discord.NewEmbedBuilder().
		SetTitle("Author Notifications").
		SetDescription("When a message is removed, Suspy can DM its author an "+
			"explanation with the flagged link's reason.\n\nCurrent: **"+
			onOff(enabled)+"**").
		SetColor(constants.ColorPrimary).
		SetFooterText(b.footer())

	return discord.NewMessageUpdateBuilder().
		SetEmbeds(embed.Build()).
		AddContainerComponents(
			discord.NewActionRow(
				discord.NewStringSelectMenu(
					interaction.FormatSetupStep(b.session.GuildID, b.session.Nonce, constants.SetupDMPreferenceSelectID),
					"Notify authors by DM?",
					discord.NewStringSelectMenuOption("Enabled", "true").WithDefault(enabled),
					discord.NewStringSelectMenuOption("Disabled", "false").WithDefault(!enabled),
				),
			),
			b.navigationRow(false),
		)
}

func (b *SetupBuilder) buildConfirmStep() *discord.MessageUpdateBuilder {
	embed := b.summaryEmbed().
		SetTitle("Review & Confirm").
		SetDescription("Check the configuration below, toggle scanning on, then finish.").
		SetFooterText(b.footer())

	toggleLabel := "Enable Scanning"
	if b.effectiveEnable() {
		toggleLabel = "Disable Scanning"
	}

	return discord.NewMessageUpdateBuilder().
		SetEmbeds(embed.Build()).
		AddContainerComponents(
			discord.NewActionRow(
				discord.NewSecondaryButton(toggleLabel,
					interaction.FormatSetupStep(b.session.GuildID, b.session.Nonce, constants.SetupToggleAction)),
			),
			b.navigationRow(true),
		)
}

func (b *SetupBuilder) buildDoneStep() *discord.MessageUpdateBuilder {
	embed := b.summaryEmbed().
		SetTitle("Setup Complete").
		SetDescription("Suspy is configured. Settings can be changed any time with /setup.")

	return discord.NewMessageUpdateBuilder().
		SetEmbeds(embed.Build()).
		ClearContainerComponents()
}

// summaryEmbed lists the effective configuration.
func (b *SetupBuilder) summaryEmbed() *discord.EmbedBuilder {
	logChannel := "Not set"
	if channel := b.effectiveLogChannel(); channel != nil {
		logChannel = fmt.Sprintf("<#%s>", *channel)
	}

	return discord.NewEmbedBuilder().
		SetColor(constants.ColorSuccess).
		AddField("Scanning", onOff(b.effectiveEnable()), true).
		AddField("Log Channel", logChannel, true).
		AddField("Confidence Threshold",
			fmt.Sprintf("%d%%", b.effectiveMinConfidence()), true).
		AddField("Author DMs", onOff(b.effectiveEnableDM()), true)
}

// navigationRow builds the back/next buttons. The final step replaces Next
// with Finish.
func (b *SetupBuilder) navigationRow(finish bool) discord.ActionRowComponent {
	nextLabel := "Next"
	if finish {
		nextLabel = "Finish"
	}

	return discord.NewActionRow(
		discord.NewSecondaryButton("Back",
			interaction.FormatSetupStep(b.session.GuildID, b.session.Nonce, constants.SetupBackAction)),
		discord.NewPrimaryButton(nextLabel,
			interaction.FormatSetupStep(b.session.GuildID, b.session.Nonce, constants.SetupNextAction)),
	)
}

func (b *SetupBuilder) footer() string {
	return fmt.Sprintf("Step %d of %d", b.session.Step, constants.SetupStepDone-1)
}

func (b *SetupBuilder) effectiveLogChannel() *string {
	if b.setting != nil {
		return b.setting.LogChannel
	}

	return nil
}

func (b *SetupBuilder) effectiveMinConfidence() int {
	if b.setting != nil && b.setting.MinConfidence != nil {
		return *b.setting.MinConfidence
	}

	return service.DefaultMinConfidence
}

func (b *SetupBuilder) effectiveEnableDM() bool {
	return b.setting != nil && b.setting.EnableDM != nil && *b.setting.EnableDM
}

func (b *SetupBuilder) effectiveEnable() bool {
	return b.setting != nil && b.setting.Enable
}

func onOff(v bool) string {
	if v {
		return "Enabled"
	}

	return "Disabled"
}
