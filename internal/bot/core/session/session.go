// Package session tracks in-flight setup wizard state. One session exists per
// guild at a time; sessions expire on their own when abandoned.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/maypok86/otter"
	"github.com/suspybot/suspy/internal/bot/constants"
	"github.com/suspybot/suspy/internal/bot/interaction"
	"github.com/suspybot/suspy/internal/database/types"
	"go.uber.org/zap"
)

const (
	sessionCacheSize = 50
	sessionTimeout   = 15 * time.Minute
)

// Session is one administrator's pass through the setup wizard.
type Session struct {
	GuildID string
	OwnerID string

	// Nonce changes on every render; components carrying an older nonce
	// belong to a stale message and are rejected.
	Nonce string

	// Step is the screen the owner currently sees. The guild's answers live
	// in the policy store, not here; every selection persists immediately so
	// a session can resume from the saved columns alone.
	Step int

	StartedAt time.Time
}

// Rotate invalidates the session's previous render and returns the new nonce.
func (s *Session) Rotate() string {
	s.Nonce = interaction.NewNonce()
	return s.Nonce
}

// Owns reports whether the user controls this session.
func (s *Session) Owns(userID string) bool {
	return s.OwnerID == userID
}

// Manager holds the active wizard sessions.
type Manager struct {
	mu       sync.Mutex
	sessions otter.Cache[string, *Session]
	logger   *zap.Logger
}

// NewManager creates a session manager.
func NewManager(logger *zap.Logger) (*Manager, error) {
	sessions, err := otter.MustBuilder[string, *Session](sessionCacheSize).
		WithTTL(sessionTimeout).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	return &Manager{
		sessions: sessions,
		logger:   logger.Named("session_manager"),
	}, nil
}

// Get returns the guild's active session, if any.
func (m *Manager) Get(guildID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sessions.Get(guildID)
}

// Start creates a session for the guild, resuming at the step implied by the
// guild's saved settings. Any existing session is replaced; callers must
// check for one first when takeover semantics apply.
func (m *Manager) Start(guildID, ownerID string, setting *types.GuildSetting) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := &Session{
		GuildID:   guildID,
		OwnerID:   ownerID,
		Nonce:     interaction.NewNonce(),
		Step:      ResumeStep(setting),
		StartedAt: time.Now(),
	}
	m.sessions.Set(guildID, session)

	m.logger.Debug("Setup session started",
		zap.String("guildID", guildID),
		zap.String("ownerID", ownerID),
		zap.Int("step", session.Step))

	return session
}

// Save re-inserts the session, refreshing its expiry.
func (m *Manager) Save(session *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions.Set(session.GuildID, session)
}

// Takeover transfers the guild's session to a new owner. The previous
// owner's nonce dies with the old session, so their rendered wizard goes
// inert.
func (m *Manager) Takeover(guildID, newOwnerID string, setting *types.GuildSetting) *Session {
	m.mu.Lock()
	m.sessions.Delete(guildID)
	m.mu.Unlock()

	m.logger.Debug("Setup session taken over",
		zap.String("guildID", guildID),
		zap.String("newOwnerID", newOwnerID))

	return m.Start(guildID, newOwnerID, setting)
}

// End removes the guild's session.
func (m *Manager) End(guildID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions.Delete(guildID)
}

// StepComplete reports whether the step's question has a saved answer. The
// wizard refuses to advance past an unanswered step, so a guild cannot reach
// the confirmation screen with a required field still unset.
func StepComplete(step int, setting *types.GuildSetting) bool {
	switch step {
	case constants.SetupStepLogChannel:
		return setting != nil && setting.LogChannel != nil
	case constants.SetupStepMinConfidence:
		return setting != nil && setting.MinConfidence != nil
	case constants.SetupStepDMPreference:
		return setting != nil && setting.EnableDM != nil
	default:
		return true
	}
}

// ResumeStep picks the wizard step to land on given the guild's saved
// settings: the first unanswered question, or the confirmation screen when
// every choice has been made before.
func ResumeStep(setting *types.GuildSetting) int {
	switch {
	case setting == nil:
		return constants.SetupStepWelcome
	case setting.LogChannel == nil:
		return constants.SetupStepLogChannel
	case setting.EnableDM == nil:
		return constants.SetupStepDMPreference
	case setting.MinConfidence == nil:
		return constants.SetupStepMinConfidence
	default:
		return constants.SetupStepConfirm
	}
}
