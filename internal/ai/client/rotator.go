package client

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrQuotaExhausted indicates every credential is at or over the daily quota.
var ErrQuotaExhausted = errors.New("daily quota exhausted for all API keys")

// quotaResetZone is the provider's quota reset timezone. Daily request counts
// reset at midnight UTC-7 upstream.
var quotaResetZone = time.FixedZone("UTC-7", -7*60*60)

// Rotator selects which API credential to use for each classification call,
// tracking per-credential daily usage against a shared quota. Credentials
// unused since the last daily reset are preferred; otherwise the least-used
// credential under quota wins.
type Rotator struct {
	keys      []string
	limit     int
	usage     map[string]int
	lastReset time.Time
	now       func() time.Time
	logger    *zap.Logger
	mu        sync.Mutex
}

// NewRotator creates a rotator over the given credential pool.
func NewRotator(keys []string, limit int, logger *zap.Logger) *Rotator {
	return &Rotator{
		keys:   keys,
		limit:  limit,
		usage:  make(map[string]int),
		now:    time.Now,
		logger: logger.Named("ai_rotator"),
	}
}

// Select returns the credential to use for the next call. Fails with
// ErrQuotaExhausted when every credential is at or over the daily limit.
func (r *Rotator) Select() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.maybeReset()

	// Fresh credentials first
	for _, key := range r.keys {
		if _, used := r.usage[key]; !used {
			r.usage[key] = 0
			r.logger.Debug("Using fresh API key", zap.String("key", redactKey(key)))

			return key, nil
		}
	}

	// Otherwise the least-used credential still under quota
	var (
		selected string
		lowest   int
		found    bool
	)

	for _, key := range r.keys {
		usage := r.usage[key]
		if usage >= r.limit {
			continue
		}

		if !found || usage < lowest {
			selected = key
			lowest = usage
			found = true
		}
	}

	if !found {
		return "", ErrQuotaExhausted
	}

	r.logger.Debug("Using API key",
		zap.String("key", redactKey(selected)),
		zap.Int("usage", lowest),
		zap.Int("limit", r.limit))

	return selected, nil
}

// RecordUsage increments the usage counter for a credential.
func (r *Rotator) RecordUsage(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.usage[key]++
}

// RecordExhausted pins a credential's counter to the quota ceiling so it is
// not selected again until the next daily reset.
func (r *Rotator) RecordExhausted(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.usage[key] = r.limit

	r.logger.Debug("API key exceeded its limit, deprioritized for the day",
		zap.String("key", redactKey(key)))
}

// PoolSize returns the number of credentials in the pool.
func (r *Rotator) PoolSize() int {
	return len(r.keys)
}

// maybeReset clears usage counters once per quota-zone day. The reset is lazy:
// it is evaluated at selection time instead of by a background timer.
// Callers must hold the mutex.
func (r *Rotator) maybeReset() {
	dayStart := startOfDay(r.now().In(quotaResetZone))

	if r.lastReset.Before(dayStart) {
		r.lastReset = dayStart
		r.usage = make(map[string]int)

		r.logger.Debug("API key usage counters cleared for new day")
	}
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func redactKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}

	return key[:8] + "..."
}
