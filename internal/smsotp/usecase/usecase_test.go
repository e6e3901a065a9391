package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/authlab/authmethods/internal/pkg/config"
	"github.com/authlab/authmethods/internal/pkg/goerror"
	"github.com/authlab/authmethods/internal/pkg/hash"
	"github.com/authlab/authmethods/internal/pkg/instrument"
	"github.com/authlab/authmethods/internal/pkg/otpcode"
	"github.com/authlab/authmethods/internal/pkg/validator"
	"github.com/authlab/authmethods/internal/smsotp/entity"
)

type fakeDB struct {
	created   []entity.NewUser
	createErr error
	byEmail   map[string]*entity.User
	byPhone   map[string]*entity.User
	verified  []string
}

func (f *fakeDB) CreateUser(_ context.Context, user entity.NewUser) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.created {
		if existing.Email == user.Email {
			return goerror.ErrConflict
		}
	}
	f.created = append(f.created, user)
	return nil
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return u, nil
}

func (f *fakeDB) GetUserByPhone(_ context.Context, phone string) (*entity.User, error) {
	u, ok := f.byPhone[phone]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return u, nil
}

func (f *fakeDB) MarkUserVerified(_ context.Context, email string) error {
	f.verified = append(f.verified, email)
	return nil
}

func (f *fakeDB) Ping(context.Context) error { return nil }

type fakeMessaging struct {
	registered []UserRegisteredEvent
	otpSent    []OTPSentEvent
}

func (f *fakeMessaging) PublishUserRegistered(_ context.Context, msg UserRegisteredEvent) error {
	f.registered = append(f.registered, msg)
	return nil
}

func (f *fakeMessaging) PublishOTPSent(_ context.Context, msg OTPSentEvent) error {
	f.otpSent = append(f.otpSent, msg)
	return nil
}

type fakeSMS struct {
	sent []string
	body []string
	err  error
}

func (f *fakeSMS) Send(_ context.Context, to, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	f.body = append(f.body, body)
	return nil
}

type fakePending struct {
	entries map[string]string
}

func (f *fakePending) Mark(_ context.Context, subject, value string, _ time.Duration) error {
	if f.entries == nil {
		f.entries = map[string]string{}
	}
	f.entries[subject] = value
	return nil
}

func (f *fakePending) Get(_ context.Context, subject string) (string, bool, error) {
	v, ok := f.entries[subject]
	return v, ok, nil
}

func (f *fakePending) Clear(_ context.Context, subject string) error {
	delete(f.entries, subject)
	return nil
}

func (f *fakePending) Ping(context.Context) error { return nil }

type memStore struct {
	recs map[string]otpcode.Record
}

func (m *memStore) Get(_ context.Context, key string) (*otpcode.Record, error) {
	rec, ok := m.recs[key]
	if !ok {
		return nil, otpcode.ErrNotFound
	}
	return &rec, nil
}

func (m *memStore) Upsert(_ context.Context, rec otpcode.Record) error {
	if m.recs == nil {
		m.recs = map[string]otpcode.Record{}
	}
	m.recs[rec.Key] = rec
	return nil
}

func (m *memStore) MarkUsed(_ context.Context, key string) error {
	rec, ok := m.recs[key]
	if !ok || rec.Used {
		return otpcode.ErrNotFound
	}
	rec.Used = true
	m.recs[key] = rec
	return nil
}

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time { return f.now }

type fakeUID struct{ next int64 }

func (f *fakeUID) Generate() int64 {
	f.next++
	return f.next
}

type testEnv struct {
	uc      *Usecase
	db      *fakeDB
	msg     *fakeMessaging
	sms     *fakeSMS
	pending *fakePending
	store   *memStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  smsotp:\n    otp_ttl_minutes: 5\n"))
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}

	clk := fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := &memStore{}
	db := &fakeDB{}
	msg := &fakeMessaging{}
	sms := &fakeSMS{}
	pending := &fakePending{}

	uc := New(Dependency{
		RepoDB:        db,
		RepoMessaging: msg,
		Validator:     v,
		Config:        cfg,
		Bcrypt:        hash.NewBcrypt(4, ""),
		UID:           &fakeUID{},
		Clock:         clk,
		Codes:         otpcode.NewEngine(store, clk, 6, 5*time.Minute),
		SMS:           sms,
		Pending:       pending,
		Instrument:    instrument.NewNoop(),
	})

	return &testEnv{uc: uc, db: db, msg: msg, sms: sms, pending: pending, store: store}
}

func TestRegister(t *testing.T) {
	t.Run("SendsCodeAndPublishes", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		out, err := env.uc.Register(context.Background(), RegisterInput{
			Email:       "Ada@Example.Test",
			Password:    "supersecret",
			FirstName:   "Ada",
			PhoneNumber: "+15550001111",
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.UserID == 0 {
			t.Fatalf("expected user id")
		}
		if len(env.sms.sent) != 1 || env.sms.sent[0] != "+15550001111" {
			t.Fatalf("expected sms to the registered phone, got %+v", env.sms.sent)
		}
		if env.pending.entries["ada@example.test"] != "+15550001111" {
			t.Fatalf("expected pending mark for email, got %+v", env.pending.entries)
		}
		if len(env.msg.registered) != 1 || len(env.msg.otpSent) != 1 {
			t.Fatalf("expected both events published")
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		in := RegisterInput{
			Email:       "ada@example.test",
			Password:    "supersecret",
			FirstName:   "Ada",
			PhoneNumber: "+15550001111",
		}
		if _, err := env.uc.Register(context.Background(), in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		in.Password = "anotherpassword"
		in.PhoneNumber = "+15550002222"

		// Act
		_, err := env.uc.Register(context.Background(), in)

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeConflict {
			t.Fatalf("expected conflict error, got %v", err)
		}
		if len(env.db.created) != 1 {
			t.Fatalf("expected a single stored account, got %d", len(env.db.created))
		}
		if env.db.created[0].PhoneNumber != "+15550001111" {
			t.Fatalf("expected stored account untouched, got %+v", env.db.created[0])
		}
		if len(env.sms.sent) != 1 {
			t.Fatalf("expected no delivery for the rejected registration, got %d", len(env.sms.sent))
		}
	})

	t.Run("InvalidPhone", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		_, err := env.uc.Register(context.Background(), RegisterInput{
			Email:       "ada@example.test",
			Password:    "supersecret",
			FirstName:   "Ada",
			PhoneNumber: "not-a-phone",
		})

		// Assert
		if err == nil {
			t.Fatalf("expected validation error")
		}
	})

	t.Run("DeliveryFailureKeepsStoredCode", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.sms.err = errors.New("gateway offline")

		// Act
		_, err := env.uc.Register(context.Background(), RegisterInput{
			Email:       "ada@example.test",
			Password:    "supersecret",
			FirstName:   "Ada",
			PhoneNumber: "+15550001111",
		})

		// Assert
		if err == nil {
			t.Fatalf("expected delivery error to surface")
		}
		rec, ok := env.store.recs["+15550001111"]
		if !ok || rec.Used {
			t.Fatalf("expected stored code to stay valid after delivery failure")
		}
	})
}

func TestLogin(t *testing.T) {
	bcrypt := hash.NewBcrypt(4, "")
	passHash, err := bcrypt.Hash("supersecret")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	t.Run("SendsCode", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.db.byEmail = map[string]*entity.User{
			"ada@example.test": {ID: 1, Email: "ada@example.test", PasswordHash: string(passHash), PhoneNumber: "+15550001111"},
		}

		// Act
		out, err := env.uc.Login(context.Background(), LoginInput{
			Email:    "ada@example.test",
			Password: "supersecret",
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.PhoneNumber != "+15550001111" {
			t.Fatalf("unexpected phone: %q", out.PhoneNumber)
		}
		if len(env.sms.sent) != 1 {
			t.Fatalf("expected one sms, got %d", len(env.sms.sent))
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.db.byEmail = map[string]*entity.User{
			"ada@example.test": {ID: 1, Email: "ada@example.test", PasswordHash: string(passHash), PhoneNumber: "+15550001111"},
		}

		// Act
		_, err := env.uc.Login(context.Background(), LoginInput{
			Email:    "ada@example.test",
			Password: "wrong-password",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized error, got %v", err)
		}
		if len(env.sms.sent) != 0 {
			t.Fatalf("expected no sms on failed login")
		}
	})
}

func TestSMSLogin(t *testing.T) {
	t.Run("KnownPhone", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.db.byPhone = map[string]*entity.User{
			"+15550001111": {ID: 1, Email: "ada@example.test", PhoneNumber: "+15550001111"},
		}

		// Act
		out, err := env.uc.SMSLogin(context.Background(), SMSLoginInput{PhoneNumber: "+15550001111"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Email != "ada@example.test" {
			t.Fatalf("unexpected email: %q", out.Email)
		}
	})

	t.Run("UnknownPhone", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		_, err := env.uc.SMSLogin(context.Background(), SMSLoginInput{PhoneNumber: "+15550009999"})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})
}

func TestResendOTP(t *testing.T) {
	t.Run("PhoneFromPendingCache", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.pending.entries = map[string]string{"ada@example.test": "+15550001111"}

		// Act
		err := env.uc.ResendOTP(context.Background(), ResendOTPInput{Email: "ada@example.test"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(env.sms.sent) != 1 || env.sms.sent[0] != "+15550001111" {
			t.Fatalf("expected sms to cached phone, got %+v", env.sms.sent)
		}
	})

	t.Run("FallsBackToStoredAccount", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.db.byEmail = map[string]*entity.User{
			"ada@example.test": {ID: 1, Email: "ada@example.test", PhoneNumber: "+15550002222"},
		}

		// Act
		err := env.uc.ResendOTP(context.Background(), ResendOTPInput{Email: "ada@example.test"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(env.sms.sent) != 1 || env.sms.sent[0] != "+15550002222" {
			t.Fatalf("expected sms to stored phone, got %+v", env.sms.sent)
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.ResendOTP(context.Background(), ResendOTPInput{Email: "ghost@example.test"})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})
}

func TestVerifyOTP(t *testing.T) {
	seed := func(t *testing.T, env *testEnv) string {
		t.Helper()

		env.db.byEmail = map[string]*entity.User{
			"ada@example.test": {ID: 1, Email: "ada@example.test", PhoneNumber: "+15550001111"},
		}
		env.db.byPhone = map[string]*entity.User{
			"+15550001111": env.db.byEmail["ada@example.test"],
		}

		if err := env.uc.SendOTP(context.Background(), SendOTPInput{PhoneNumber: "+15550001111"}); err != nil {
			t.Fatalf("failed to seed code: %v", err)
		}

		return env.store.recs["+15550001111"].Code
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		code := seed(t, env)
		env.pending.entries = map[string]string{"ada@example.test": "+15550001111"}

		// Act
		out, err := env.uc.VerifyOTP(context.Background(), VerifyOTPInput{
			Email: "ada@example.test",
			OTP:   code,
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.User.Verified {
			t.Fatalf("expected verified user in output")
		}
		if len(env.db.verified) != 1 || env.db.verified[0] != "ada@example.test" {
			t.Fatalf("expected verified flag persisted, got %+v", env.db.verified)
		}
		if _, still := env.pending.entries["ada@example.test"]; still {
			t.Fatalf("expected pending entry cleared")
		}
	})

	t.Run("SecondUseRejected", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		code := seed(t, env)

		if _, err := env.uc.VerifyOTP(context.Background(), VerifyOTPInput{
			Email: "ada@example.test",
			OTP:   code,
		}); err != nil {
			t.Fatalf("unexpected error on first verify: %v", err)
		}

		// Act
		_, err := env.uc.VerifyOTP(context.Background(), VerifyOTPInput{
			Email: "ada@example.test",
			OTP:   code,
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized on replay, got %v", err)
		}
	})

	t.Run("WrongCode", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		code := seed(t, env)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		// Act
		_, err := env.uc.VerifyOTP(context.Background(), VerifyOTPInput{
			Email: "ada@example.test",
			OTP:   wrong,
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized for wrong code, got %v", err)
		}
	})
}
