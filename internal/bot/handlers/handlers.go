// Package handlers implements the bot's command, component, and message
// handlers.
package handlers

import (
	"fmt"
	"time"

	"github.com/maypok86/otter"
	"github.com/suspybot/suspy/internal/bot/core/session"
	"github.com/suspybot/suspy/internal/service"
	"go.uber.org/zap"
)

const (
	// actionCacheSize bounds the pending alert decisions held at once.
	actionCacheSize = 50
	// actionCacheTTL is how long a staged decision waits for confirmation.
	actionCacheTTL = 30 * time.Second
)

// Handler processes all Discord events for the bot.
type Handler struct {
	service  *service.Service
	sessions *session.Manager

	// actions holds block/ignore decisions staged behind a confirmation
	// click, keyed by the confirm button's nonce.
	actions otter.Cache[string, pendingAction]

	// refreshPresence tells the bot to recompute its status after a change
	// to the registered-guild count, such as finishing setup.
	refreshPresence func()

	logger *zap.Logger
}

// New creates the event handler.
func New(
	svc *service.Service,
	sessions *session.Manager,
	refreshPresence func(),
	logger *zap.Logger,
) (*Handler, error) {
	actions, err := otter.MustBuilder[string, pendingAction](actionCacheSize).
		WithTTL(actionCacheTTL).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create action cache: %w", err)
	}

	if refreshPresence == nil {
		refreshPresence = func() {}
	}

	return &Handler{
		service:         svc,
		sessions:        sessions,
		actions:         actions,
		refreshPresence: refreshPresence,
		logger:          logger.Named("handlers"),
	}, nil
}
