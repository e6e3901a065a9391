package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/authlab/authmethods/internal/pkg/goerror"
)

type SendOTPInput struct {
	PhoneNumber string `validate:"required,e164"`
}

// SendOTP generates, stores, and delivers a fresh code for the phone number.
//
// A prior pending code for the same phone is replaced.
func (s *Usecase) SendOTP(ctx context.Context, in SendOTPInput) error {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	phone := strings.TrimSpace(in.PhoneNumber)

	email := ""
	user, err := s.repoDB.GetUserByPhone(ctx, phone)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by phone", "phone", phone, "error", err)
		return goerror.NewServer(err)
	}
	if user != nil {
		email = user.Email
	}

	return s.sendCode(ctx, email, phone)
}

type ResendOTPInput struct {
	Email string `validate:"required,email"`
}

// ResendOTP re-sends a code for the email's in-flight verification.
//
// The phone number comes from the pending cache when available and falls back
// to the stored account, so a restart between send and resend still works.
func (s *Usecase) ResendOTP(ctx context.Context, in ResendOTPInput) error {
	ctx, span := s.startSpan(ctx, "ResendOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	phone, found, err := s.pending.Get(ctx, email)
	if err != nil {
		slog.WarnContext(ctx, "failed to read pending verification", "email", email, "error", err)
	}

	if !found || phone == "" {
		user, err := s.repoDB.GetUserByEmail(ctx, email)
		if errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "no account for email", "email", email)
			return goerror.NewBusiness("no account for that email", goerror.CodeNotFound)
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get user by email", "email", email, "error", err)
			return goerror.NewServer(err)
		}
		phone = user.PhoneNumber
	}

	return s.sendCode(ctx, email, phone)
}
