package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"github.com/authlab/authmethods/internal/pkg/instrument"
	"github.com/authlab/authmethods/internal/pkg/otpcode"
)

// CodeStore persists one-time codes in the one_time_codes table, one row per
// phone number.
type CodeStore struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewCodeStore(conn *pgxpool.Pool, ins instrument.Instrumentation) *CodeStore {
	return &CodeStore{
		conn: conn,
		ins:  ins,
	}
}

func (s *CodeStore) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("smsotp.outbound.db").Start(ctx, name)
}

const queryGetCode = `
SELECT phone_number, code, created_at, expires_at, used
FROM one_time_codes
WHERE phone_number = $1
`

func (s *CodeStore) Get(ctx context.Context, key string) (*otpcode.Record, error) {
	ctx, span := s.startSpan(ctx, "GetCode")
	defer span.End()

	var rec otpcode.Record
	err := s.conn.QueryRow(ctx, queryGetCode, key).
		Scan(&rec.Key, &rec.Code, &rec.CreatedAt, &rec.ExpiresAt, &rec.Used)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, otpcode.ErrNotFound
	}
	if err != nil {
		span.RecordError(err)

		return nil, err
	}

	return &rec, nil
}

const queryUpsertCode = `
INSERT INTO one_time_codes (phone_number, code, created_at, expires_at, used)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (phone_number) DO UPDATE
SET code = EXCLUDED.code,
    created_at = EXCLUDED.created_at,
    expires_at = EXCLUDED.expires_at,
    used = EXCLUDED.used
`

func (s *CodeStore) Upsert(ctx context.Context, rec otpcode.Record) error {
	ctx, span := s.startSpan(ctx, "UpsertCode")
	defer span.End()

	_, err := s.conn.Exec(ctx, queryUpsertCode,
		rec.Key, rec.Code, rec.CreatedAt, rec.ExpiresAt, rec.Used)
	if err != nil {
		span.RecordError(err)

		return err
	}

	return nil
}

const queryMarkCodeUsed = `
UPDATE one_time_codes
SET used = true
WHERE phone_number = $1 AND used = false
`

// MarkUsed consumes the pending code in a single guarded UPDATE, so only one
// of two concurrent verifies can win the row.
func (s *CodeStore) MarkUsed(ctx context.Context, key string) error {
	ctx, span := s.startSpan(ctx, "MarkCodeUsed")
	defer span.End()

	tag, err := s.conn.Exec(ctx, queryMarkCodeUsed, key)
	if err != nil {
		span.RecordError(err)

		return err
	}

	if tag.RowsAffected() == 0 {
		return otpcode.ErrNotFound
	}

	return nil
}
