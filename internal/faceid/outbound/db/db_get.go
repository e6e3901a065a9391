package db

import (
	"context"

	"github.com/authlab/authmethods/internal/faceid/entity"
)

const queryGetUserByEmail = `
SELECT id, email, first_name, password_hash, COALESCE(secret, ''), created_at
FROM users
WHERE email = $1 AND auth_method = 'faceid'
`

func (s *DB) GetUserByEmail(ctx context.Context, email string) (cred *entity.Credential, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	var c entity.Credential
	err = s.conn.QueryRow(ctx, queryGetUserByEmail, email).
		Scan(&c.ID, &c.Email, &c.FirstName, &c.PasswordHash, &c.Template, &c.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &c, nil
}

const queryGetUserList = `
SELECT id, email, first_name, created_at
FROM users
WHERE auth_method = 'faceid'
ORDER BY created_at DESC
`

func (s *DB) GetUserList(ctx context.Context) (users []entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserList")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryGetUserList)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var u entity.User
		if err = rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}
		users = append(users, u)
	}

	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return users, nil
}

const queryGetTemplates = `
SELECT id, email, first_name, COALESCE(secret, ''), created_at
FROM users
WHERE auth_method = 'faceid'
ORDER BY created_at ASC, id ASC
`

// GetTemplates returns all enrolled credentials in a stable order so match
// tie-breaking is reproducible.
func (s *DB) GetTemplates(ctx context.Context) (creds []entity.Credential, err error) {
	ctx, span := s.startSpan(ctx, "GetTemplates")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryGetTemplates)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var c entity.Credential
		if err = rows.Scan(&c.ID, &c.Email, &c.FirstName, &c.Template, &c.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}
		creds = append(creds, c)
	}

	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return creds, nil
}
