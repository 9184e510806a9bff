package database

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// slowQueryThreshold is the duration past which queries are logged at warn level.
const slowQueryThreshold = time.Second

// Hook logs executed queries for monitoring.
type Hook struct {
	logger *zap.Logger
}

// NewHook creates a query hook that logs through the given logger.
func NewHook(logger *zap.Logger) *Hook {
	return &Hook{logger: logger.Named("db_query")}
}

// BeforeQuery implements bun.QueryHook.
func (h *Hook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

// AfterQuery implements bun.QueryHook.
func (h *Hook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)

	if event.Err != nil {
		h.logger.Debug("Query failed",
			zap.String("operation", event.Operation()),
			zap.Duration("duration", duration),
			zap.Error(event.Err))

		return
	}

	if duration >= slowQueryThreshold {
		h.logger.Warn("Slow query",
			zap.String("operation", event.Operation()),
			zap.Duration("duration", duration))
	}
}
