package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/authlab/authmethods/internal/pkg/goerror"
	"github.com/authlab/authmethods/internal/smsotp/entity"
)

type VerifyOTPInput struct {
	Email string `validate:"required,email"`
	OTP   string `validate:"required,len=6,numeric"`
}

type VerifyOTPOutput struct {
	User entity.User
}

// VerifyOTP consumes the pending code for the account phone.
//
// A correct, unexpired code succeeds exactly once. On success the account is
// marked verified and the pending cache entry is cleared.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := s.repoDB.GetUserByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "no account for email", "email", email)
		return nil, goerror.NewBusiness("no account for that email", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	ok, err := s.codes.Verify(ctx, user.PhoneNumber, in.OTP)
	if err != nil {
		slog.ErrorContext(ctx, "failed to verify one-time code", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ok {
		slog.WarnContext(ctx, "one-time code rejected", "user_id", user.ID)
		return nil, goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}

	if err := s.repoDB.MarkUserVerified(ctx, email); err != nil {
		slog.ErrorContext(ctx, "failed to mark user verified", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.pending.Clear(ctx, email); err != nil {
		slog.WarnContext(ctx, "failed to clear pending verification", "email", email, "error", err)
	}

	user.Verified = true
	return &VerifyOTPOutput{User: *user}, nil
}
