package sms

import (
	"context"
	"log/slog"
)

// Log writes messages to the structured log instead of sending them. It is
// the development driver, so a local setup can read codes off stdout.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Send(ctx context.Context, to, body string) error {
	slog.InfoContext(ctx, "sms message (log driver, not delivered)",
		slog.String("to", to),
		slog.String("body", body),
	)

	return nil
}
