package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suspybot/suspy/internal/database/types"
	"github.com/suspybot/suspy/internal/database/types/enum"
	"github.com/suspybot/suspy/internal/service"
	"go.uber.org/zap"
)

type stubPolicies struct {
	setting *types.GuildSetting
}

func (s *stubPolicies) Policy(_ context.Context, _ string, _ bool) (*types.GuildSetting, error) {
	return s.setting, nil
}

type stubVerdicts struct {
	link *types.FlaggedLink
}

func (s *stubVerdicts) Verdict(_ context.Context, _ string) (*types.FlaggedLink, error) {
	return s.link, nil
}

type stubBlocklists struct {
	entries []*types.GuildBlocklist
}

func (s *stubBlocklists) Blocklist(
	_ context.Context, _ string, _ bool,
) ([]*types.GuildBlocklist, error) {
	return s.entries, nil
}

func newScanService(
	setting *types.GuildSetting,
	link *types.FlaggedLink,
	entries []*types.GuildBlocklist,
) *service.ScanService {
	return service.NewScanService(
		&stubPolicies{setting: setting},
		&stubVerdicts{link: link},
		&stubBlocklists{entries: entries},
		zap.NewNop(),
	)
}

func enabledSetting(minConfidence int) *types.GuildSetting {
	return &types.GuildSetting{
		GuildID:       "guild-1",
		Enable:        true,
		MinConfidence: &minConfidence,
	}
}

func TestEvaluateSkipsDisabledGuilds(t *testing.T) {
	t.Parallel()

	link := &types.FlaggedLink{ID: 1, URL: "https://evil.example", ConfidenceScore: 100}

	tests := []struct {
		name    string
		setting *types.GuildSetting
	}{
		{name: "no settings row", setting: nil},
		{name: "scanning disabled", setting: &types.GuildSetting{GuildID: "guild-1"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newScanService(tt.setting, link, nil)

			detection, err := svc.Evaluate(context.Background(), "guild-1", link.URL)
			require.NoError(t, err)
			assert.Nil(t, detection)
		})
	}
}

func TestEvaluateThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setting    *types.GuildSetting
		score      int
		actionable bool
	}{
		{name: "below custom threshold", setting: enabledSetting(80), score: 70},
		{name: "meets custom threshold", setting: enabledSetting(80), score: 85, actionable: true},
		{name: "equal to threshold", setting: enabledSetting(80), score: 80, actionable: true},
		{
			name:    "below default threshold",
			setting: &types.GuildSetting{GuildID: "guild-1", Enable: true},
			score:   79,
		},
		{
			name:       "meets default threshold",
			setting:    &types.GuildSetting{GuildID: "guild-1", Enable: true},
			score:      80,
			actionable: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			link := &types.FlaggedLink{
				ID:              1,
				URL:             "https://evil.example",
				ConfidenceScore: tt.score,
			}
			svc := newScanService(tt.setting, link, nil)

			detection, err := svc.Evaluate(context.Background(), "guild-1", link.URL)
			require.NoError(t, err)

			if tt.actionable {
				require.NotNil(t, detection)
				assert.Equal(t, link, detection.Link)
				assert.Nil(t, detection.Entry)
			} else {
				assert.Nil(t, detection)
			}
		})
	}
}

func TestEvaluateSuppressesIgnoredLinks(t *testing.T) {
	t.Parallel()

	link := &types.FlaggedLink{ID: 3, URL: "https://evil.example", ConfidenceScore: 95}
	entries := []*types.GuildBlocklist{
		{GuildID: "guild-1", FlagID: 3, Status: enum.BlocklistStatusIgnored},
	}

	svc := newScanService(enabledSetting(80), link, entries)

	detection, err := svc.Evaluate(context.Background(), "guild-1", link.URL)
	require.NoError(t, err)
	assert.Nil(t, detection, "moderator-ignored links must not trigger enforcement")
}

func TestEvaluateAttachesExistingEntry(t *testing.T) {
	t.Parallel()

	link := &types.FlaggedLink{ID: 3, URL: "https://evil.example", ConfidenceScore: 95}
	reference := "https://discord.com/channels/1/2/3"
	entries := []*types.GuildBlocklist{
		{
			GuildID:      "guild-1",
			FlagID:       3,
			Status:       enum.BlocklistStatusWaiting,
			ReferenceURL: &reference,
		},
	}

	svc := newScanService(enabledSetting(80), link, entries)

	detection, err := svc.Evaluate(context.Background(), "guild-1", link.URL)
	require.NoError(t, err)
	require.NotNil(t, detection)
	require.NotNil(t, detection.Entry)

	require.NotNil(t, detection.ReferenceURL())
	assert.Equal(t, reference, *detection.ReferenceURL())
}

func TestEvaluateMatchesEntryByURLWhenIDsDiffer(t *testing.T) {
	t.Parallel()

	// A cached verdict can carry a different row ID than the blocklist entry
	// when the link was re-inserted after going stale.
	link := &types.FlaggedLink{ID: 9, URL: "https://evil.example", ConfidenceScore: 95}
	entries := []*types.GuildBlocklist{
		{
			GuildID: "guild-1",
			FlagID:  3,
			Status:  enum.BlocklistStatusIgnored,
			Link:    &types.FlaggedLink{ID: 3, URL: "https://evil.example"},
		},
	}

	svc := newScanService(enabledSetting(80), link, entries)

	detection, err := svc.Evaluate(context.Background(), "guild-1", link.URL)
	require.NoError(t, err)
	assert.Nil(t, detection)
}
