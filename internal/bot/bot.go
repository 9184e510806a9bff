// Package bot wires the Discord client to the command, component, and
// message handlers.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo"
	disgobot "github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/suspybot/suspy/internal/bot/constants"
	"github.com/suspybot/suspy/internal/bot/core/session"
	"github.com/suspybot/suspy/internal/bot/handlers"
	"github.com/suspybot/suspy/internal/bot/interaction"
	"github.com/suspybot/suspy/internal/service"
	"go.uber.org/zap"
)

// presenceUpdateInterval is how often the "Watching N servers" status is
// refreshed.
const presenceUpdateInterval = 5 * time.Minute

// Bot owns the Discord client and dispatches its events.
type Bot struct {
	client  disgobot.Client
	handler *handlers.Handler
	service *service.Service
	logger  *zap.Logger
	done    chan struct{}
}

// New creates the bot and its Discord client.
func New(token string, svc *service.Service, logger *zap.Logger) (*Bot, error) {
	sessions, err := session.NewManager(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	b := &Bot{
		service: svc,
		logger:  logger.Named("bot"),
		done:    make(chan struct{}),
	}

	handler, err := handlers.New(svc, sessions, b.updatePresence, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create handlers: %w", err)
	}

	b.handler = handler

	client, err := disgo.New(token,
		disgobot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentMessageContent,
				gateway.IntentDirectMessages,
			),
		),
		disgobot.WithEventListeners(&events.ListenerAdapter{
			OnReady:                         b.handleReady,
			OnGuildJoin:                     b.handleGuildJoin,
			OnGuildLeave:                    b.handleGuildLeave,
			OnMessageCreate:                 b.handler.HandleMessage,
			OnApplicationCommandInteraction: b.handleApplicationCommand,
			OnComponentInteraction:          b.handleComponent,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}

	b.client = client

	return b, nil
}

// Start registers the global commands and opens the gateway connection.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Registering commands")

	_, err := b.client.Rest().SetGlobalCommands(b.client.ApplicationID(), commands())
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("Starting bot")

	if err := b.client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	go b.presenceLoop()

	return nil
}

// Close shuts down the gateway connection.
func (b *Bot) Close() {
	b.logger.Info("Closing bot")
	close(b.done)
	b.client.Close(context.Background())
}

func commands() []discord.ApplicationCommandCreate {
	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        constants.SetupCommandName,
			Description: "Configure link scanning for this server",
		},
		discord.SlashCommandCreate{
			Name:        constants.CheckCommandName,
			Description: "Check whether a URL is safe",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        constants.CheckCommandURLOption,
					Description: "The URL to check",
					Required:    true,
				},
				discord.ApplicationCommandOptionBool{
					Name:        constants.CheckCommandEphemeralOption,
					Description: "Show the result only to you (default: true)",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        constants.HelpCommandName,
			Description: "Show what Suspy does",
		},
	}
}

func (b *Bot) handleReady(event *events.Ready) {
	b.updatePresence()

	b.logger.Info("Bot ready", zap.Int("guilds", len(event.Guilds)))
}

func (b *Bot) handleGuildJoin(event *events.GuildJoin) {
	b.updatePresence()

	b.logger.Info("Joined guild",
		zap.String("guildID", event.GuildID.String()),
		zap.String("name", event.Guild.Name))
}

func (b *Bot) handleGuildLeave(event *events.GuildLeave) {
	b.updatePresence()

	b.logger.Info("Left guild", zap.String("guildID", event.GuildID.String()))
}

// presenceLoop keeps the status fresh even when join/leave events are missed
// across reconnects.
func (b *Bot) presenceLoop() {
	ticker := time.NewTicker(presenceUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.updatePresence()
		case <-b.done:
			return
		}
	}
}

// updatePresence sets the status to the number of guilds with a settings
// row, not the raw gateway guild count: a server only counts once someone
// has run setup there.
func (b *Bot) updatePresence() {
	count, err := b.service.Guild().GuildCount(context.Background())
	if err != nil {
		b.logger.Debug("Failed to count registered guilds", zap.Error(err))
		return
	}

	err = b.client.SetPresence(context.Background(),
		gateway.WithWatchingActivity(fmt.Sprintf("%d servers", count)))
	if err != nil {
		b.logger.Debug("Failed to update presence", zap.Error(err))
	}
}

// handleApplicationCommand dispatches slash commands. Handlers run in their
// own goroutine so a slow classifier call cannot stall the gateway reader.
func (b *Bot) handleApplicationCommand(event *events.ApplicationCommandInteractionCreate) {
	name := event.SlashCommandInteractionData().CommandName()

	go func() {
		defer b.recoverPanic("application command")

		switch name {
		case constants.SetupCommandName:
			b.handler.HandleSetupCommand(event)
		case constants.CheckCommandName:
			b.handler.HandleCheckCommand(event)
		case constants.HelpCommandName:
			b.handler.HandleHelpCommand(event)
		}
	}()
}

// handleComponent dispatches component interactions by custom ID kind.
func (b *Bot) handleComponent(event *events.ComponentInteractionCreate) {
	customID, err := interaction.Parse(event.Data.CustomID())
	if err != nil {
		return
	}

	go func() {
		defer b.recoverPanic("component interaction")

		switch customID.Kind {
		case constants.CustomIDKindSetupStep:
			b.handler.HandleSetupComponent(event, customID)
		case constants.CustomIDKindTakeover:
			b.handler.HandleTakeoverComponent(event, customID)
		case constants.CustomIDKindBlocklistAction:
			b.handler.HandleBlocklistAction(event, customID)
		}
	}()
}

func (b *Bot) recoverPanic(scope string) {
	if r := recover(); r != nil {
		b.logger.Error("Panic in event handler",
			zap.String("scope", scope),
			zap.Any("panic", r))
	}
}
