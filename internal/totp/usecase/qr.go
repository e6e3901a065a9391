package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/authlab/authmethods/internal/pkg/goerror"
	"github.com/authlab/authmethods/internal/pkg/otp"
)

type QRInput struct {
	Email string `validate:"required,email"`
}

type QROutput struct {
	// PNG is the rendered QR image for the user's provisioning URI.
	PNG []byte
}

// QR re-renders the provisioning QR for an existing account. The URI is
// rebuilt from the stored secret, so the image matches the one shown at
// registration.
func (s *Usecase) QR(ctx context.Context, in QRInput) (*QROutput, error) {
	ctx, span := s.startSpan(ctx, "QR")
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

	uri := s.totp.URI(user.Email, user.Secret)

	png, err := otp.QRPNG(uri, 0)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render qr code", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &QROutput{PNG: png}, nil
}
