package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/authlab/authmethods/internal/pkg/goerror"
	"github.com/authlab/authmethods/internal/smsotp/entity"
)

type RegisterInput struct {
	Email       string `validate:"required,email"`
	Password    string `validate:"required,password"`
	FirstName   string `validate:"required,max=100"`
	PhoneNumber string `validate:"required,e164"`
}

type RegisterOutput struct {
	UserID int64
}

// Register creates the account and immediately sends a verification code.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	passHash, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	user := entity.NewUser{
		ID:           s.uid.Generate(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		FirstName:    strings.TrimSpace(in.FirstName),
		PasswordHash: string(passHash),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
	}

	if err := s.repoDB.CreateUser(ctx, user); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			slog.WarnContext(ctx, "email already registered", "email", user.Email)
			return nil, goerror.NewBusiness("email already registered", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create user", "email", user.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.sendCode(ctx, user.Email, user.PhoneNumber); err != nil {
		return nil, err
	}

	if err := s.repoMessaging.PublishUserRegistered(ctx, UserRegisteredEvent{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish user registered event", "error", err)
	}

	return &RegisterOutput{UserID: user.ID}, nil
}
