package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/authlab/authmethods/internal/pkg/goerror"
)

type ValidateInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,len=6,numeric"`
}

type ValidateOutput struct {
	Valid bool
}

// Validate checks an authenticator code against the user's stored secret at
// the current wall clock. A wrong code is not an error, just Valid=false.
// Codes are not consumed, so a code can be replayed within its window.
func (s *Usecase) Validate(ctx context.Context, in ValidateInput) (*ValidateOutput, error) {
	ctx, span := s.startSpan(ctx, "Validate")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "email", in.Email)
		return nil, goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	valid := s.totp.Validate(in.Code, user.Secret, s.clock.Now())
	if !valid {
		slog.WarnContext(ctx, "totp code rejected", "user_id", user.ID)
	}

	return &ValidateOutput{Valid: valid}, nil
}
