package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suspybot/suspy/internal/bot/builder"
	"github.com/suspybot/suspy/internal/bot/constants"
	"github.com/suspybot/suspy/internal/bot/core/session"
	"github.com/suspybot/suspy/internal/database/types"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func wizardSession(step int) *session.Session {
	return &session.Session{
		GuildID: "guild-1",
		OwnerID: "admin-1",
		Nonce:   "nonce",
		Step:    step,
	}
}

func TestSetupBuilderRendersEachStep(t *testing.T) {
	t.Parallel()

	setting := &types.GuildSetting{
		GuildID:       "guild-1",
		LogChannel:    strPtr("123"),
		MinConfidence: intPtr(90),
	}

	tests := []struct {
		step          int
		title         string
		hasComponents bool
	}{
		{step: constants.SetupStepWelcome, title: "Suspy Setup", hasComponents: true},
		{step: constants.SetupStepLogChannel, title: "Log Channel", hasComponents: true},
		{step: constants.SetupStepMinConfidence, title: "Confidence Threshold", hasComponents: true},
		{step: constants.SetupStepDMPreference, title: "Author Notifications", hasComponents: true},
		{step: constants.SetupStepConfirm, title: "Review & Confirm", hasComponents: true},
		{step: constants.SetupStepDone, title: "Setup Complete"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()

			message := builder.NewSetupBuilder(wizardSession(tt.step), setting).Build().Build()

			require.NotNil(t, message.Embeds)
			require.Len(t, *message.Embeds, 1)
			assert.Equal(t, tt.title, (*message.Embeds)[0].Title)

			if tt.hasComponents {
				require.NotNil(t, message.Components)
				assert.NotEmpty(t, *message.Components)
			}
		})
	}
}

func TestSetupBuilderShowsSavedSettings(t *testing.T) {
	t.Parallel()

	setting := &types.GuildSetting{
		GuildID:       "guild-1",
		MinConfidence: intPtr(90),
	}

	sess := wizardSession(constants.SetupStepMinConfidence)

	message := builder.NewSetupBuilder(sess, setting).Build().Build()

	require.NotNil(t, message.Embeds)
	assert.Contains(t, (*message.Embeds)[0].Description, "90%")
}

func TestSetupBuilderDefaultsWithoutSettings(t *testing.T) {
	t.Parallel()

	message := builder.NewSetupBuilder(
		wizardSession(constants.SetupStepMinConfidence), nil,
	).Build().Build()

	require.NotNil(t, message.Embeds)
	assert.Contains(t, (*message.Embeds)[0].Description, "80%")
}
