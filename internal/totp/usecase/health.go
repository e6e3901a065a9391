package usecase

import (
	"context"
	"log/slog"
)

type HealthOutput struct {
	DBStatus string
}

func (s *Usecase) Health(ctx context.Context) (*HealthOutput, error) {
	ctx, span := s.startSpan(ctx, "Health")
	defer span.End()

	status := "ok"
	if err := s.repoDB.Ping(ctx); err != nil {
		slog.ErrorContext(ctx, "database health check failed", "error", err)
		status = "unreachable"
	}

	return &HealthOutput{DBStatus: status}, nil
}
