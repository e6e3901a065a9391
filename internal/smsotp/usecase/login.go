package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/authlab/authmethods/internal/pkg/goerror"
)

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type LoginOutput struct {
	PhoneNumber string
}

// Login checks the password and sends a one-time code to the account phone.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := s.repoDB.GetUserByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "email", email)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.bcrypt.Verify(user.PasswordHash, in.Password) {
		slog.WarnContext(ctx, "password does not match", "user_id", user.ID)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}

	if err := s.sendCode(ctx, user.Email, user.PhoneNumber); err != nil {
		return nil, err
	}

	return &LoginOutput{PhoneNumber: user.PhoneNumber}, nil
}

type SMSLoginInput struct {
	PhoneNumber string `validate:"required,e164"`
}

type SMSLoginOutput struct {
	Email string
}

// SMSLogin starts a passwordless login for a known phone number.
func (s *Usecase) SMSLogin(ctx context.Context, in SMSLoginInput) (*SMSLoginOutput, error) {
	ctx, span := s.startSpan(ctx, "SMSLogin")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	phone := strings.TrimSpace(in.PhoneNumber)
	user, err := s.repoDB.GetUserByPhone(ctx, phone)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "no account for phone number", "phone", phone)
		return nil, goerror.NewBusiness("no account for that phone number", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by phone", "phone", phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.sendCode(ctx, user.Email, user.PhoneNumber); err != nil {
		return nil, err
	}

	return &SMSLoginOutput{Email: user.Email}, nil
}
