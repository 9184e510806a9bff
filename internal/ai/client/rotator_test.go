package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRotator(keys []string, limit int) *Rotator {
	return NewRotator(keys, limit, zap.NewNop())
}

func TestSelectPrefersFreshKeys(t *testing.T) {
	t.Parallel()

	r := newTestRotator([]string{"key-aaaaaaaa", "key-bbbbbbbb"}, 1500)

	key, err := r.Select()
	require.NoError(t, err)
	assert.Equal(t, "key-aaaaaaaa", key)

	// First key is now initialized, the unused one comes next
	key, err = r.Select()
	require.NoError(t, err)
	assert.Equal(t, "key-bbbbbbbb", key)
}

func TestSelectPicksLowestUsageUnderQuota(t *testing.T) {
	t.Parallel()

	r := newTestRotator([]string{"key-aaaaaaaa", "key-bbbbbbbb", "key-cccccccc"}, 1500)
	r.usage = map[string]int{
		"key-aaaaaaaa": 1200,
		"key-bbbbbbbb": 1400,
		"key-cccccccc": 1501,
	}
	r.lastReset = startOfDay(time.Now().In(quotaResetZone))

	key, err := r.Select()
	require.NoError(t, err)
	assert.Equal(t, "key-aaaaaaaa", key)
}

func TestSelectQuotaExhausted(t *testing.T) {
	t.Parallel()

	r := newTestRotator([]string{"key-aaaaaaaa", "key-bbbbbbbb"}, 1500)
	r.usage = map[string]int{
		"key-aaaaaaaa": 1500,
		"key-bbbbbbbb": 1700,
	}
	r.lastReset = startOfDay(time.Now().In(quotaResetZone))

	_, err := r.Select()
	require.ErrorIs(t, err, ErrQuotaExhausted)
}

func TestRecordExhaustedDeprioritizesKey(t *testing.T) {
	t.Parallel()

	r := newTestRotator([]string{"key-aaaaaaaa", "key-bbbbbbbb"}, 1500)
	r.usage = map[string]int{
		"key-aaaaaaaa": 10,
		"key-bbbbbbbb": 20,
	}
	r.lastReset = startOfDay(time.Now().In(quotaResetZone))

	r.RecordExhausted("key-aaaaaaaa")

	key, err := r.Select()
	require.NoError(t, err)
	assert.Equal(t, "key-bbbbbbbb", key)
}

func TestRecordUsageIncrements(t *testing.T) {
	t.Parallel()

	r := newTestRotator([]string{"key-aaaaaaaa"}, 1500)

	_, err := r.Select()
	require.NoError(t, err)

	r.RecordUsage("key-aaaaaaaa")
	r.RecordUsage("key-aaaaaaaa")

	assert.Equal(t, 2, r.usage["key-aaaaaaaa"])
}

func TestDailyResetClearsUsage(t *testing.T) {
	t.Parallel()

	r := newTestRotator([]string{"key-aaaaaaaa"}, 1500)
	r.usage = map[string]int{"key-aaaaaaaa": 1500}

	// Pretend the counters were last cleared yesterday
	yesterday := startOfDay(time.Now().In(quotaResetZone)).Add(-24 * time.Hour)
	r.lastReset = yesterday

	key, err := r.Select()
	require.NoError(t, err)
	assert.Equal(t, "key-aaaaaaaa", key)
	assert.Equal(t, 0, r.usage["key-aaaaaaaa"])
}

func TestNoResetWithinSameDay(t *testing.T) {
	t.Parallel()

	r := newTestRotator([]string{"key-aaaaaaaa"}, 1500)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, quotaResetZone)
	r.now = func() time.Time { return now }

	_, err := r.Select()
	require.NoError(t, err)

	r.RecordUsage("key-aaaaaaaa")

	// Later the same quota-zone day, usage must survive
	r.now = func() time.Time { return now.Add(6 * time.Hour) }

	_, err = r.Select()
	require.NoError(t, err)
	assert.Equal(t, 1, r.usage["key-aaaaaaaa"])
}
