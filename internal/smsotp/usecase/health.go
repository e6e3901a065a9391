package usecase

import (
	"context"
	"log/slog"
)

type HealthOutput struct {
	DBStatus    string
	CacheStatus string
}

func (s *Usecase) Health(ctx context.Context) (*HealthOutput, error) {
	ctx, span := s.startSpan(ctx, "Health")
	defer span.End()

	out := &HealthOutput{DBStatus: "ok", CacheStatus: "ok"}

	if err := s.repoDB.Ping(ctx); err != nil {
		slog.ErrorContext(ctx, "database health check failed", "error", err)
		out.DBStatus = "unreachable"
	}

	if err := s.pending.Ping(ctx); err != nil {
		slog.ErrorContext(ctx, "cache health check failed", "error", err)
		out.CacheStatus = "unreachable"
	}

	return out, nil
}
