// Package constants holds the identifiers, colors, and limits shared across
// the bot's commands, components, and embeds.
package constants

const (
	// Commands.
	SetupCommandName = "setup"
	CheckCommandName = "check"
	HelpCommandName  = "help"

	CheckCommandURLOption       = "url"
	CheckCommandEphemeralOption = "ephemeral"

	// Custom ID kinds. A component custom ID is
	// "<kind>:<guildID>:<nonce>[:<arg>...]".
	CustomIDKindSetupStep       = 1
	CustomIDKindBlocklistAction = 2
	CustomIDKindTakeover        = 3

	// Setup wizard.
	SetupStepWelcome          = 1
	SetupStepLogChannel       = 2
	SetupStepMinConfidence    = 3
	SetupStepDMPreference     = 4
	SetupStepConfirm          = 5
	SetupStepDone             = 6
	SetupNextAction           = "next"
	SetupBackAction           = "back"
	SetupToggleAction         = "toggle"
	SetupTakeoverAccept       = "accept"
	SetupTakeoverDecline      = "decline"
	SetupLogChannelSelectID   = "log_channel"
	SetupConfidenceSelectID   = "min_confidence"
	SetupDMPreferenceSelectID = "dm_preference"

	// Blocklist alert actions.
	BlocklistActionBlock   = "block"
	BlocklistActionIgnore  = "ignore"
	BlocklistActionConfirm = "confirm"

	// Embed colors.
	ColorPrimary = 0x5865F2
	ColorDanger  = 0xED4245
	ColorWarning = 0xFEE75C
	ColorSuccess = 0x57F287
	ColorNeutral = 0x2B2D31

	// Reason text shown in embeds is already bounded by the classifier layer.
	MaxEmbedReasonLength = 120
)

// AllowedMinConfidenceScores are the thresholds the setup wizard offers.
var AllowedMinConfidenceScores = []int{50, 70, 80, 90, 100}

// IsAllowedMinConfidence reports whether the score is one the wizard offers.
func IsAllowedMinConfidence(score int) bool {
	for _, allowed := range AllowedMinConfidenceScores {
		if score == allowed {
			return true
		}
	}

	return false
}
