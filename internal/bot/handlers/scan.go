package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/suspybot/suspy/internal/bot/builder"
	"github.com/suspybot/suspy/internal/database/types"
	"github.com/suspybot/suspy/internal/service"
	"github.com/suspybot/suspy/pkg/utils"
	"go.uber.org/zap"
)

// discordJumpLinkPrefix validates stored alert references before they are
// rendered into an embed.
const discordJumpLinkPrefix = "https://discord.com/channels/"

// HandleMessage scans the URLs in a newly posted message and enforces the
// guild's policy on the first actionable one.
func (h *Handler) HandleMessage(event *events.MessageCreate) {
	if event.Message.Author.Bot || event.GuildID == nil || event.Message.Content == "" {
		return
	}

	urls := utils.ExtractURLs(event.Message.Content)
	if len(urls) == 0 {
		return
	}

	ctx := context.Background()
	guildID := event.GuildID.String()

	setting, err := h.service.Guild().Policy(ctx, guildID, false)
	if err != nil {
		h.logger.Error("Failed to load guild settings",
			zap.String("guildID", guildID),
			zap.Error(err))

		return
	}

	if setting == nil || !setting.Enable {
		return
	}

	detection := h.evaluateAll(ctx, guildID, urls)
	if detection == nil {
		return
	}

	h.enforce(ctx, event, setting, detection)
}

// evaluateAll checks every URL concurrently and returns the detection for
// the earliest flagged one. One removal covers the whole message, so later
// detections are discarded.
func (h *Handler) evaluateAll(
	ctx context.Context, guildID string, urls []string,
) *service.Detection {
	detections := make([]*service.Detection, len(urls))

	var wg sync.WaitGroup

	for i, url := range urls {
		i, url := i, url

		wg.Add(1)

		go func() {
			defer wg.Done()

			detection, err := h.service.Scan().Evaluate(ctx, guildID, url)
			if err != nil {
				h.logger.Warn("Failed to evaluate URL",
					zap.String("guildID", guildID),
					zap.String("url", url),
					zap.Error(err))

				return
			}

			detections[i] = detection
		}()
	}

	wg.Wait()

	for _, detection := range detections {
		if detection != nil {
			return detection
		}
	}

	return nil
}

// enforce removes the message, notifies the author, and posts the alert.
func (h *Handler) enforce(
	ctx context.Context,
	event *events.MessageCreate,
	setting *types.GuildSetting,
	detection *service.Detection,
) {
	client := event.Client()
	link := detection.Link

	if err := client.Rest().DeleteMessage(
		event.ChannelID, event.MessageID, rest.WithReason("Unsafe link: "+link.URL),
	); err != nil {
		h.logger.Error("Failed to delete message",
			zap.String("guildID", event.GuildID.String()),
			zap.Error(err))

		return
	}

	h.logger.Info("Message removed",
		zap.String("guildID", event.GuildID.String()),
		zap.String("url", link.URL),
		zap.Int("confidenceScore", link.ConfidenceScore))

	if setting.EnableDM != nil && *setting.EnableDM {
		h.notifyAuthor(event, link)
	}

	h.postAlert(ctx, event, setting, detection)
}

// notifyAuthor DMs the removed message's author. DM failures are expected
// for users with closed DMs.
func (h *Handler) notifyAuthor(event *events.MessageCreate, link *types.FlaggedLink) {
	client := event.Client()

	guildName := "this server"
	if guild, ok := client.Caches().Guild(*event.GuildID); ok {
		guildName = guild.Name
	}

	channel, err := client.Rest().CreateDMChannel(event.Message.Author.ID)
	if err != nil {
		h.logger.Debug("Failed to open DM channel", zap.Error(err))
		return
	}

	if _, err := client.Rest().CreateMessage(
		channel.ID(), builder.NewAuthorNotice(guildName, link).Build(),
	); err != nil {
		h.logger.Debug("Failed to DM author", zap.Error(err))
	}
}

// postAlert posts the log-channel alert and records the sighting in the
// guild's blocklist. The first alert's jump link becomes the reference for
// later repeats.
func (h *Handler) postAlert(
	ctx context.Context,
	event *events.MessageCreate,
	setting *types.GuildSetting,
	detection *service.Detection,
) {
	guildID := event.GuildID.String()
	now := time.Now()

	update := &types.BlocklistUpdate{
		FlagID:       detection.Link.ID,
		LastDetectAt: &now,
	}

	defer func() {
		if err := h.service.Guild().UpsertBlocklist(ctx, guildID, update); err != nil {
			h.logger.Error("Failed to record blocklist sighting",
				zap.String("guildID", guildID),
				zap.Error(err))
		}
	}()

	if setting.LogChannel == nil {
		return
	}

	channelID, err := snowflake.Parse(*setting.LogChannel)
	if err != nil {
		return
	}

	reference := h.validReference(event, detection.ReferenceURL())

	alert := builder.NewAlertBuilder(
		guildID,
		detection.Link,
		event.Message.Author.ID.String(),
		event.ChannelID.String(),
		reference,
	)

	message, err := event.Client().Rest().CreateMessage(channelID, alert.Build().Build())
	if err != nil {
		h.logger.Error("Failed to post alert",
			zap.String("guildID", guildID),
			zap.Error(err))

		return
	}

	// Remember where the newest actionable alert lives so repeats can link
	// back to it instead of repeating the action buttons.
	if reference == nil {
		jump := fmt.Sprintf("%s%s/%s/%s",
			discordJumpLinkPrefix, guildID, channelID, message.ID)
		update.ReferenceURL = &jump
	}
}

// validReference checks that a stored alert reference is a Discord jump link
// pointing at a message that still exists. A deleted alert means moderators
// cleaned it up; the next alert starts a fresh reference.
func (h *Handler) validReference(event *events.MessageCreate, reference *string) *string {
	if reference == nil || !strings.HasPrefix(*reference, discordJumpLinkPrefix) {
		return nil
	}

	parts := strings.Split(strings.TrimPrefix(*reference, discordJumpLinkPrefix), "/")
	if len(parts) != 3 {
		return nil
	}

	channelID, err := snowflake.Parse(parts[1])
	if err != nil {
		return nil
	}

	messageID, err := snowflake.Parse(parts[2])
	if err != nil {
		return nil
	}

	if _, err := event.Client().Rest().GetMessage(channelID, messageID); err != nil {
		h.logger.Debug("Alert reference no longer resolves",
			zap.String("reference", *reference))

		return nil
	}

	return reference
}
