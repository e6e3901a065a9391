package usecase

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/authlab/authmethods/internal/faceid/entity"
	"github.com/authlab/authmethods/internal/pkg/clock"
	"github.com/authlab/authmethods/internal/pkg/config"
	"github.com/authlab/authmethods/internal/pkg/facematch"
	"github.com/authlab/authmethods/internal/pkg/goroutine"
	"github.com/authlab/authmethods/internal/pkg/hash"
	"github.com/authlab/authmethods/internal/pkg/instrument"
	"github.com/authlab/authmethods/internal/pkg/uid"
	"github.com/authlab/authmethods/internal/pkg/validator"
)

type UserRegisteredEvent struct {
	UserID    int64
	Email     string
	FirstName string
}

type repoMessaging interface {
	PublishUserRegistered(ctx context.Context, msg UserRegisteredEvent) error
}

type repoDB interface {
	CreateUser(ctx context.Context, user entity.NewUser) error
	GetUserByEmail(ctx context.Context, email string) (*entity.Credential, error)
	GetUserList(ctx context.Context) ([]entity.User, error)
	GetTemplates(ctx context.Context) ([]entity.Credential, error)
	DeleteUser(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	bcrypt        hash.Hash
	uid           uid.NumberID
	clock         clock.Clocker
	extractor     facematch.Extractor
	matcher       *facematch.Matcher
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	Bcrypt        hash.Hash
	UID           uid.NumberID
	Clock         clock.Clocker
	Extractor     facematch.Extractor
	Matcher       *facematch.Matcher
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		bcrypt:        dep.Bcrypt,
		uid:           dep.UID,
		clock:         dep.Clock,
		extractor:     dep.Extractor,
		matcher:       dep.Matcher,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("faceid.usecase").Start(ctx, name)
}
