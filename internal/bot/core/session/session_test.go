package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suspybot/suspy/internal/bot/constants"
	"github.com/suspybot/suspy/internal/bot/core/session"
	"github.com/suspybot/suspy/internal/database/types"
	"go.uber.org/zap"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func TestResumeStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setting *types.GuildSetting
		want    int
	}{
		{
			name: "never configured",
			want: constants.SetupStepWelcome,
		},
		{
			name:    "no log channel yet",
			setting: &types.GuildSetting{GuildID: "g"},
			want:    constants.SetupStepLogChannel,
		},
		{
			name: "no dm preference yet",
			setting: &types.GuildSetting{
				GuildID:    "g",
				LogChannel: strPtr("123"),
			},
			want: constants.SetupStepDMPreference,
		},
		{
			name: "no confidence threshold yet",
			setting: &types.GuildSetting{
				GuildID:    "g",
				LogChannel: strPtr("123"),
				EnableDM:   boolPtr(true),
			},
			want: constants.SetupStepMinConfidence,
		},
		{
			name: "fully configured",
			setting: &types.GuildSetting{
				GuildID:       "g",
				LogChannel:    strPtr("123"),
				EnableDM:      boolPtr(false),
				MinConfidence: intPtr(80),
			},
			want: constants.SetupStepConfirm,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, session.ResumeStep(tt.setting))
		})
	}
}

func TestManagerSingleSessionPerGuild(t *testing.T) {
	t.Parallel()

	manager, err := session.NewManager(zap.NewNop())
	require.NoError(t, err)

	first := manager.Start("guild-1", "admin-1", nil)
	assert.Equal(t, constants.SetupStepWelcome, first.Step)
	assert.True(t, first.Owns("admin-1"))
	assert.False(t, first.Owns("admin-2"))

	got, ok := manager.Get("guild-1")
	require.True(t, ok)
	assert.Equal(t, first, got)

	_, ok = manager.Get("guild-2")
	assert.False(t, ok)
}

func TestManagerTakeoverReplacesOwner(t *testing.T) {
	t.Parallel()

	manager, err := session.NewManager(zap.NewNop())
	require.NoError(t, err)

	first := manager.Start("guild-1", "admin-1", nil)
	first.Step = constants.SetupStepMinConfidence
	manager.Save(first)

	setting := &types.GuildSetting{GuildID: "guild-1", LogChannel: strPtr("456")}
	taken := manager.Takeover("guild-1", "admin-2", setting)

	assert.True(t, taken.Owns("admin-2"))
	assert.Equal(t, constants.SetupStepDMPreference, taken.Step,
		"takeover resumes from the saved settings, not the old owner's screen")
	assert.NotEqual(t, first.Nonce, taken.Nonce)
}

func TestStepCompleteRequiresSavedAnswers(t *testing.T) {
	t.Parallel()

	configured := &types.GuildSetting{
		GuildID:       "g",
		LogChannel:    strPtr("123"),
		EnableDM:      boolPtr(false),
		MinConfidence: intPtr(80),
	}

	tests := []struct {
		name    string
		step    int
		setting *types.GuildSetting
		want    bool
	}{
		{name: "welcome needs nothing", step: constants.SetupStepWelcome, want: true},
		{name: "log channel unset", step: constants.SetupStepLogChannel,
			setting: &types.GuildSetting{GuildID: "g"}, want: false},
		{name: "log channel set", step: constants.SetupStepLogChannel,
			setting: configured, want: true},
		{name: "threshold unset", step: constants.SetupStepMinConfidence,
			setting: &types.GuildSetting{GuildID: "g", LogChannel: strPtr("123")}, want: false},
		{name: "threshold set", step: constants.SetupStepMinConfidence,
			setting: configured, want: true},
		{name: "dm preference unset", step: constants.SetupStepDMPreference,
			setting: &types.GuildSetting{GuildID: "g", LogChannel: strPtr("123")}, want: false},
		{name: "dm preference set", step: constants.SetupStepDMPreference,
			setting: configured, want: true},
		{name: "confirm needs nothing more", step: constants.SetupStepConfirm,
			setting: configured, want: true},
		{name: "no settings row at all", step: constants.SetupStepMinConfidence, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, session.StepComplete(tt.step, tt.setting))
		})
	}
}

func TestSessionRotateInvalidatesNonce(t *testing.T) {
	t.Parallel()

	manager, err := session.NewManager(zap.NewNop())
	require.NoError(t, err)

	sess := manager.Start("guild-1", "admin-1", nil)
	old := sess.Nonce

	fresh := sess.Rotate()
	assert.NotEqual(t, old, fresh)
	assert.Equal(t, fresh, sess.Nonce)
}

func TestManagerEnd(t *testing.T) {
	t.Parallel()

	manager, err := session.NewManager(zap.NewNop())
	require.NoError(t, err)

	manager.Start("guild-1", "admin-1", nil)
	manager.End("guild-1")

	_, ok := manager.Get("guild-1")
	assert.False(t, ok)
}
