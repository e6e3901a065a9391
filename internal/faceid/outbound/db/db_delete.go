package db

import (
	"context"

	"github.com/authlab/authmethods/internal/pkg/goerror"
)

const queryDeleteUser = `
DELETE FROM users
WHERE id = $1 AND auth_method = 'faceid'
`

func (s *DB) DeleteUser(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteUser")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryDeleteUser, id)
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
