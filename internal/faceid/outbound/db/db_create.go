package db

import (
	"context"

	"github.com/authlab/authmethods/internal/faceid/entity"
)

const queryCreateUser = `
INSERT INTO users (id, email, first_name, password_hash, auth_method, secret, created_at)
VALUES ($1, $2, $3, $4, 'faceid', $5, now())
`

func (s *DB) CreateUser(ctx context.Context, user entity.NewUser) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateUser,
		user.ID, user.Email, user.FirstName, user.PasswordHash, user.Template)
	err = s.mapError(err)
	return err
}
