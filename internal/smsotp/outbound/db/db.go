package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/authlab/authmethods/internal/pkg/goerror"
	"github.com/authlab/authmethods/internal/pkg/instrument"
	"github.com/authlab/authmethods/internal/smsotp/entity"
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{
		conn: conn,
		ins:  ins,
	}
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("smsotp.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *DB) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

const queryCreateUser = `
INSERT INTO users (id, email, first_name, password_hash, auth_method, phone_number, verified, created_at)
VALUES ($1, $2, $3, $4, 'sms', $5, false, now())
`

func (s *DB) CreateUser(ctx context.Context, user entity.NewUser) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateUser,
		user.ID, user.Email, user.FirstName, user.PasswordHash, user.PhoneNumber)
	err = s.mapError(err)
	return err
}

const queryGetUserByEmail = `
SELECT id, email, first_name, password_hash, COALESCE(phone_number, ''), verified, created_at
FROM users
WHERE email = $1 AND auth_method = 'sms'
`

func (s *DB) GetUserByEmail(ctx context.Context, email string) (user *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	var u entity.User
	err = s.conn.QueryRow(ctx, queryGetUserByEmail, email).
		Scan(&u.ID, &u.Email, &u.FirstName, &u.PasswordHash, &u.PhoneNumber, &u.Verified, &u.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &u, nil
}

const queryGetUserByPhone = `
SELECT id, email, first_name, password_hash, COALESCE(phone_number, ''), verified, created_at
FROM users
WHERE phone_number = $1 AND auth_method = 'sms'
ORDER BY created_at DESC
LIMIT 1
`

func (s *DB) GetUserByPhone(ctx context.Context, phone string) (user *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByPhone")
	defer func() { s.endSpan(span, err) }()

	var u entity.User
	err = s.conn.QueryRow(ctx, queryGetUserByPhone, phone).
		Scan(&u.ID, &u.Email, &u.FirstName, &u.PasswordHash, &u.PhoneNumber, &u.Verified, &u.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &u, nil
}

const queryMarkUserVerified = `
UPDATE users
SET verified = true
WHERE email = $1 AND auth_method = 'sms'
`

func (s *DB) MarkUserVerified(ctx context.Context, email string) (err error) {
	ctx, span := s.startSpan(ctx, "MarkUserVerified")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryMarkUserVerified, email)
	if err != nil {
		err = s.mapError(err)
		return err
	}

	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
		return err
	}

	return nil
}
