package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	libOTP "github.com/pquerna/otp"

	"github.com/authlab/authmethods/internal/pkg/goerror"
	"github.com/authlab/authmethods/internal/pkg/goroutine"
	"github.com/authlab/authmethods/internal/pkg/hash"
	"github.com/authlab/authmethods/internal/pkg/instrument"
	"github.com/authlab/authmethods/internal/pkg/otp"
	"github.com/authlab/authmethods/internal/pkg/validator"
	"github.com/authlab/authmethods/internal/totp/entity"
)

type fakeDB struct {
	created   []entity.NewUser
	createErr error
	byEmail   map[string]*entity.User
}

func (f *fakeDB) CreateUser(_ context.Context, user entity.NewUser) error {
	if f.createErr != nil {
		return f.createErr
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

func (f *fakeDB) Ping(context.Context) error { return nil }

type fakeMessaging struct {
	published []UserRegisteredEvent
}

func (f *fakeMessaging) PublishUserRegistered(_ context.Context, msg UserRegisteredEvent) error {
	f.published = append(f.published, msg)
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

func newTestUsecase(t *testing.T, db *fakeDB, clk fixedClock) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	return New(Dependency{
		RepoDB:        db,
		RepoMessaging: &fakeMessaging{},
		Validator:     v,
		Bcrypt:        hash.NewBcrypt(4, ""),
		UID:           &fakeUID{},
		Clock:         clk,
		TOTP:          otp.NewTOTP("TestIssuer", 30, 1, libOTP.DigitsSix),
		Instrument:    instrument.NewNoop(),
		Goroutine:     goroutine.NewManager(4),
	})
}

func TestRegister(t *testing.T) {
	clk := fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	t.Run("ReturnsProvisioningURI", func(t *testing.T) {
		// Arrange
		db := &fakeDB{}
		uc := newTestUsecase(t, db, clk)

		// Act
		out, err := uc.Register(context.Background(), RegisterInput{
			FirstName: "Ada",
			Email:     "Ada@Example.Test",
			Password:  "supersecret",
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.OTPURI == "" {
			t.Fatalf("expected provisioning uri")
		}
		if len(db.created) != 1 || db.created[0].Secret == "" {
			t.Fatalf("expected stored secret, got %+v", db.created)
		}
		if db.created[0].Email != "ada@example.test" {
			t.Fatalf("expected normalized email, got %q", db.created[0].Email)
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		// Arrange
		db := &fakeDB{createErr: goerror.ErrConflict}
		uc := newTestUsecase(t, db, clk)

		// Act
		_, err := uc.Register(context.Background(), RegisterInput{
			FirstName: "Ada",
			Email:     "ada@example.test",
			Password:  "supersecret",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeConflict {
			t.Fatalf("expected conflict error, got %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	clk := fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	bcrypt := hash.NewBcrypt(4, "")
	passHash, err := bcrypt.Hash("supersecret")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	t.Run("RequiresOTP", func(t *testing.T) {
		// Arrange
		db := &fakeDB{byEmail: map[string]*entity.User{
			"ada@example.test": {ID: 1, Email: "ada@example.test", PasswordHash: string(passHash)},
		}}
		uc := newTestUsecase(t, db, clk)

		// Act
		out, err := uc.Login(context.Background(), LoginInput{
			Email:    "ada@example.test",
			Password: "supersecret",
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.RequiresOTP || out.User.ID != 1 {
			t.Fatalf("unexpected output: %+v", out)
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		// Arrange
		db := &fakeDB{byEmail: map[string]*entity.User{
			"ada@example.test": {ID: 1, Email: "ada@example.test", PasswordHash: string(passHash)},
		}}
		uc := newTestUsecase(t, db, clk)

		// Act
		_, err := uc.Login(context.Background(), LoginInput{
			Email:    "ada@example.test",
			Password: "wrong-password",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized error, got %v", err)
		}
	})
}

func TestValidate(t *testing.T) {
	clk := fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	engine := otp.NewTOTP("TestIssuer", 30, 1, libOTP.DigitsSix)

	secret, _, err := engine.Generate("ada@example.test")
	if err != nil {
		t.Fatalf("failed to generate secret: %v", err)
	}

	db := &fakeDB{byEmail: map[string]*entity.User{
		"ada@example.test": {ID: 1, Email: "ada@example.test", Secret: secret},
	}}

	t.Run("CurrentCodeIsValid", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, db, clk)
		code, err := engine.GenerateCode(secret, clk.now)
		if err != nil {
			t.Fatalf("failed to generate code: %v", err)
		}

		// Act
		out, err := uc.Validate(context.Background(), ValidateInput{
			Email: "ada@example.test",
			Code:  code,
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Valid {
			t.Fatalf("expected current code to be valid")
		}
	})

	t.Run("StaleCodeIsInvalid", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, db, fixedClock{now: clk.now.Add(10 * time.Minute)})
		code, err := engine.GenerateCode(secret, clk.now)
		if err != nil {
			t.Fatalf("failed to generate code: %v", err)
		}

		// Act
		out, err := uc.Validate(context.Background(), ValidateInput{
			Email: "ada@example.test",
			Code:  code,
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Valid {
			t.Fatalf("expected stale code to be rejected")
		}
	})

	t.Run("UnknownUser", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, db, clk)

		// Act
		_, err := uc.Validate(context.Background(), ValidateInput{
			Email: "ghost@example.test",
			Code:  "123456",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})
}

func TestQR(t *testing.T) {
	clk := fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	engine := otp.NewTOTP("TestIssuer", 30, 1, libOTP.DigitsSix)

	secret, _, err := engine.Generate("ada@example.test")
	if err != nil {
		t.Fatalf("failed to generate secret: %v", err)
	}

	t.Run("RendersImage", func(t *testing.T) {
		// Arrange
		db := &fakeDB{byEmail: map[string]*entity.User{
			"ada@example.test": {ID: 1, Email: "ada@example.test", Secret: secret},
		}}
		uc := newTestUsecase(t, db, clk)

		// Act
		out, err := uc.QR(context.Background(), QRInput{Email: "ada@example.test"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.PNG) == 0 {
			t.Fatalf("expected png bytes")
		}
	})

	t.Run("UnknownUser", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, &fakeDB{}, clk)

		// Act
		_, err := uc.QR(context.Background(), QRInput{Email: "ghost@example.test"})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})
}
