package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/authlab/authmethods/internal/pkg/clock"
	"github.com/authlab/authmethods/internal/pkg/config"
	"github.com/authlab/authmethods/internal/pkg/goerror"
	"github.com/authlab/authmethods/internal/pkg/hash"
	"github.com/authlab/authmethods/internal/pkg/instrument"
	"github.com/authlab/authmethods/internal/pkg/otpcode"
	"github.com/authlab/authmethods/internal/pkg/uid"
	"github.com/authlab/authmethods/internal/pkg/validator"
	"github.com/authlab/authmethods/internal/smsotp/entity"
)

type UserRegisteredEvent struct {
	UserID    int64
	Email     string
	FirstName string
}

type OTPSentEvent struct {
	Email       string
	PhoneNumber string
}

type repoMessaging interface {
	PublishUserRegistered(ctx context.Context, msg UserRegisteredEvent) error
	PublishOTPSent(ctx context.Context, msg OTPSentEvent) error
}

type repoDB interface {
	CreateUser(ctx context.Context, user entity.NewUser) error
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*entity.User, error)
	MarkUserVerified(ctx context.Context, email string) error
	Ping(ctx context.Context) error
}

// SMSSender delivers a one-time code out of band.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// pending is the non-authoritative in-flight verification cache.
type pending interface {
	Mark(ctx context.Context, subject, value string, ttl time.Duration) error
	Get(ctx context.Context, subject string) (string, bool, error)
	Clear(ctx context.Context, subject string) error
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
	codes         *otpcode.Engine
	sms           SMSSender
	pending       pending
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	Bcrypt        hash.Hash
	UID           uid.NumberID
	Clock         clock.Clocker
	Codes         *otpcode.Engine
	SMS           SMSSender
	Pending       pending
	Instrument    instrument.Instrumentation
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
		codes:         dep.Codes,
		sms:           dep.SMS,
		pending:       dep.Pending,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("smsotp.usecase").Start(ctx, name)
}

func (s *Usecase) pendingTTL() time.Duration {
	ttl := s.cfg.GetMinute("modules.smsotp.otp_ttl_minutes")
	if ttl <= 0 {
		ttl = otpcode.DefaultTTL
	}
	return ttl
}

// sendCode generates a code for the phone and delivers it. The stored code
// stays valid even when delivery fails, so the caller sees the gateway error
// but a later verify with the generated code still succeeds.
func (s *Usecase) sendCode(ctx context.Context, email, phone string) error {
	code, err := s.codes.Generate(ctx, phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate one-time code", "phone", phone, "error", err)
		return goerror.NewServer(err)
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.",
		code, int(s.pendingTTL().Minutes()))

	if err := s.sms.Send(ctx, phone, body); err != nil {
		slog.ErrorContext(ctx, "failed to deliver one-time code", "phone", phone, "error", err)
		return goerror.NewServer(err)
	}

	if email != "" {
		if err := s.pending.Mark(ctx, email, phone, s.pendingTTL()); err != nil {
			slog.WarnContext(ctx, "failed to mark pending verification", "email", email, "error", err)
		}
	}

	if err := s.repoMessaging.PublishOTPSent(ctx, OTPSentEvent{Email: email, PhoneNumber: phone}); err != nil {
		slog.WarnContext(ctx, "failed to publish otp sent event", "error", err)
	}

	return nil
}
