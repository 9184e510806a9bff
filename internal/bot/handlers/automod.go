package handlers

import (
	"context"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/suspybot/suspy/internal/database/types/enum"
	"go.uber.org/zap"
)

const (
	// automodRuleName identifies the keyword rule the bot owns in a guild.
	automodRuleName = "Suspy: Block unsafe links"

	// automodTimeoutSeconds is how long authors of blocked messages are
	// timed out.
	automodTimeoutSeconds = 60

	// automodMaxKeywords is Discord's keyword filter limit per rule.
	automodMaxKeywords = 1000

	// automodMaxKeywordLength is Discord's per-keyword length limit.
	automodMaxKeywordLength = 60
)

// syncAutomod rebuilds the guild's automod keyword rule from its resolved
// blocklist entries. The rule catches reposts natively so known-bad links
// never reach the message handler at all. Failures are logged and swallowed;
// automod is an optimization on top of the scan path, not a requirement.
func (h *Handler) syncAutomod(ctx context.Context, client bot.Client, guildID string) {
	id, err := snowflake.Parse(guildID)
	if err != nil {
		return
	}

	entries, err := h.service.Guild().Blocklist(ctx, guildID, false)
	if err != nil {
		h.logger.Warn("Failed to load blocklist for automod sync",
			zap.String("guildID", guildID),
			zap.Error(err))

		return
	}

	keywords := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.Status != enum.BlocklistStatusResolved || entry.Link == nil {
			continue
		}

		pattern := entry.Link.URL
		if entry.Link.BlockHost {
			pattern = entry.Link.Host
		}

		if len(pattern) > automodMaxKeywordLength-2 {
			continue
		}

		keywords = append(keywords, "*"+pattern+"*")

		if len(keywords) == automodMaxKeywords {
			break
		}
	}

	setting, err := h.service.Guild().Policy(ctx, guildID, false)
	if err != nil {
		h.logger.Warn("Failed to load settings for automod sync",
			zap.String("guildID", guildID),
			zap.Error(err))

		return
	}

	actions := []discord.AutoModerationAction{
		{Type: discord.AutoModerationActionTypeBlockMessage},
		{
			Type: discord.AutoModerationActionTypeTimeout,
			Metadata: &discord.AutoModerationActionMetadata{
				DurationSeconds: automodTimeoutSeconds,
			},
		},
	}

	if setting != nil && setting.LogChannel != nil {
		if channelID, parseErr := snowflake.Parse(*setting.LogChannel); parseErr == nil {
			actions = append(actions, discord.AutoModerationAction{
				Type: discord.AutoModerationActionTypeSendAlertMessage,
				Metadata: &discord.AutoModerationActionMetadata{
					ChannelID: channelID,
				},
			})
		}
	}

	existing, err := client.Rest().GetAutoModerationRules(id)
	if err != nil {
		h.logger.Warn("Failed to list automod rules",
			zap.String("guildID", guildID),
			zap.Error(err))

		return
	}

	var ruleID *snowflake.ID

	for _, rule := range existing {
		if rule.Name == automodRuleName {
			ruleID = &rule.ID
			break
		}
	}

	// A rule with no keywords is invalid; drop ours instead.
	if len(keywords) == 0 {
		if ruleID != nil {
			if err := client.Rest().DeleteAutoModerationRule(id, *ruleID); err != nil {
				h.logger.Warn("Failed to delete automod rule",
					zap.String("guildID", guildID),
					zap.Error(err))
			}
		}

		return
	}

	enabled := true
	metadata := &discord.AutoModerationTriggerMetadata{KeywordFilter: keywords}

	if ruleID != nil {
		_, err = client.Rest().UpdateAutoModerationRule(id, *ruleID, discord.AutoModerationRuleUpdate{
			TriggerMetadata: metadata,
			Actions:         &actions,
			Enabled:         &enabled,
		})
	} else {
		_, err = client.Rest().CreateAutoModerationRule(id, discord.AutoModerationRuleCreate{
			Name:            automodRuleName,
			EventType:       discord.AutoModerationEventTypeMessageSend,
			TriggerType:     discord.AutoModerationTriggerTypeKeyword,
			TriggerMetadata: metadata,
			Actions:         actions,
			Enabled:         &enabled,
		})
	}

	if err != nil {
		h.logger.Warn("Failed to sync automod rule",
			zap.String("guildID", guildID),
			zap.Error(err))

		return
	}

	h.logger.Debug("Automod rule synced",
		zap.String("guildID", guildID),
		zap.Int("keywords", len(keywords)))
}
