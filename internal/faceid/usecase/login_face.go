package usecase

import (
	"context"
	"log/slog"

	"github.com/authlab/authmethods/internal/faceid/entity"
	"github.com/authlab/authmethods/internal/pkg/facematch"
	"github.com/authlab/authmethods/internal/pkg/goerror"
)

type LoginFaceInput struct {
	Image string `validate:"required"`
}

type LoginFaceOutput struct {
	User       entity.User
	Confidence float64
}

func (s *Usecase) LoginFace(ctx context.Context, in LoginFaceInput) (*LoginFaceOutput, error) {
	ctx, span := s.startSpan(ctx, "LoginFace")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	probe, err := s.extractVector(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	creds, err := s.repoDB.GetTemplates(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get face templates", "error", err)
		return nil, goerror.NewServer(err)
	}

	if len(creds) == 0 {
		slog.WarnContext(ctx, "face login attempted with no registered users")
		return nil, goerror.NewBusiness("no users registered", goerror.CodeNotFound)
	}

	corpus := make([]facematch.Candidate, 0, len(creds))
	for _, c := range creds {
		corpus = append(corpus, facematch.Candidate{
			ID:        c.ID,
			Email:     c.Email,
			FirstName: c.FirstName,
			Template:  c.Template,
		})
	}

	best, ok := s.matcher.Best(ctx, probe, corpus)
	if !ok {
		slog.WarnContext(ctx, "no face match above threshold")
		return nil, goerror.NewBusiness("face not recognized", goerror.CodeUnauthorized)
	}

	return &LoginFaceOutput{
		User: entity.User{
			ID:        best.Candidate.ID,
			Email:     best.Candidate.Email,
			FirstName: best.Candidate.FirstName,
		},
		Confidence: best.Confidence,
	}, nil
}
