package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/authlab/authmethods/internal/faceid/entity"
	"github.com/authlab/authmethods/internal/pkg/goerror"
)

type LoginPasswordInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type LoginPasswordOutput struct {
	User entity.User
}

func (s *Usecase) LoginPassword(ctx context.Context, in LoginPasswordInput) (*LoginPasswordOutput, error) {
	ctx, span := s.startSpan(ctx, "LoginPassword")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	cred, err := s.repoDB.GetUserByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "email", email)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.bcrypt.Verify(cred.PasswordHash, in.Password) {
		slog.WarnContext(ctx, "password does not match", "user_id", cred.ID)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}

	return &LoginPasswordOutput{
		User: entity.User{
			ID:        cred.ID,
			Email:     cred.Email,
			FirstName: cred.FirstName,
			CreatedAt: cred.CreatedAt,
		},
	}, nil
}
