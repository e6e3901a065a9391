package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/authlab/authmethods/internal/pkg/facematch"
	"github.com/authlab/authmethods/internal/pkg/goerror"
)

// extractVector decodes the image payload and extracts a single face vector,
// translating each failure mode into its own user-visible message.
func (s *Usecase) extractVector(ctx context.Context, payload string) (facematch.Vector, error) {
	img, err := facematch.DecodeImage(payload)
	if err != nil {
		slog.WarnContext(ctx, "image payload could not be decoded", "error", err)
		return nil, goerror.NewInvalidFormat("image could not be decoded")
	}

	vec, err := s.extractor.Extract(ctx, img)
	if errors.Is(err, facematch.ErrNoFace) {
		slog.WarnContext(ctx, "no face found in image")
		return nil, goerror.NewInvalidFormat("no face found in image")
	}
	if errors.Is(err, facematch.ErrMultipleFaces) {
		slog.WarnContext(ctx, "multiple faces found in image")
		return nil, goerror.NewInvalidFormat("multiple faces found in image, provide exactly one")
	}
	if err != nil {
		slog.ErrorContext(ctx, "face encoder failed", "error", err)
		return nil, goerror.NewServer(err)
	}

	return vec, nil
}
