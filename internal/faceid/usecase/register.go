package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/authlab/authmethods/internal/faceid/entity"
	"github.com/authlab/authmethods/internal/pkg/goerror"
)

type RegisterInput struct {
	FirstName string `validate:"required,max=100"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,password"`
	Image     string `validate:"required"`
}

type RegisterOutput struct {
	UserID int64
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	vec, err := s.extractVector(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	template, err := vec.Marshal()
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode face template", "error", err)
		return nil, goerror.NewServer(err)
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
		Template:     template,
	}

	if err := s.repoDB.CreateUser(ctx, user); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			slog.WarnContext(ctx, "email already registered", "email", user.Email)
			return nil, goerror.NewBusiness("email already registered", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create user", "email", user.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.goroutine.Go(ctx, func(ctx context.Context) error {
		return s.repoMessaging.PublishUserRegistered(ctx, UserRegisteredEvent{
			UserID:    user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
		})
	})

	return &RegisterOutput{UserID: user.ID}, nil
}
