package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/authlab/authmethods/internal/faceid/entity"
	"github.com/authlab/authmethods/internal/pkg/facematch"
	"github.com/authlab/authmethods/internal/pkg/goerror"
	"github.com/authlab/authmethods/internal/pkg/goroutine"
	"github.com/authlab/authmethods/internal/pkg/hash"
	"github.com/authlab/authmethods/internal/pkg/instrument"
	"github.com/authlab/authmethods/internal/pkg/validator"
)

type fakeDB struct {
	createErr error
	created   []entity.NewUser
	users     map[string]*entity.Credential
	templates []entity.Credential
	deleted   []int64
	deleteErr error
}

func (f *fakeDB) CreateUser(_ context.Context, user entity.NewUser) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, user)
	return nil
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*entity.Credential, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return u, nil
}

func (f *fakeDB) GetUserList(_ context.Context) ([]entity.User, error) {
	out := make([]entity.User, 0, len(f.templates))
	for _, c := range f.templates {
		out = append(out, entity.User{ID: c.ID, Email: c.Email, FirstName: c.FirstName})
	}
	return out, nil
}

func (f *fakeDB) GetTemplates(_ context.Context) ([]entity.Credential, error) {
	return f.templates, nil
}

func (f *fakeDB) DeleteUser(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDB) Ping(context.Context) error { return nil }

type fakeMessaging struct {
	published []UserRegisteredEvent
}

func (f *fakeMessaging) PublishUserRegistered(_ context.Context, msg UserRegisteredEvent) error {
	f.published = append(f.published, msg)
	return nil
}

type fakeExtractor struct {
	vec facematch.Vector
	err error
}

func (f *fakeExtractor) Extract(context.Context, *image.RGBA) (facematch.Vector, error) {
	return f.vec, f.err
}

type fakeUID struct{ next int64 }

func (f *fakeUID) Generate() int64 {
	f.next++
	return f.next
}

func testImage(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newTestUsecase(t *testing.T, db *fakeDB, msg *fakeMessaging, ext *fakeExtractor) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	return New(Dependency{
		RepoDB:        db,
		RepoMessaging: msg,
		Validator:     v,
		Bcrypt:        hash.NewBcrypt(4, ""),
		UID:           &fakeUID{},
		Extractor:     ext,
		Matcher:       facematch.NewMatcher(0),
		Instrument:    instrument.NewNoop(),
		Goroutine:     goroutine.NewManager(4),
	})
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		db := &fakeDB{}
		msg := &fakeMessaging{}
		uc := newTestUsecase(t, db, msg, &fakeExtractor{vec: facematch.Vector{0.1, 0.2}})

		// Act
		out, err := uc.Register(context.Background(), RegisterInput{
			FirstName: "Ada",
			Email:     "Ada@Example.Test",
			Password:  "supersecret",
			Image:     testImage(t),
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.UserID == 0 {
			t.Fatalf("expected generated user id")
		}
		if len(db.created) != 1 || db.created[0].Email != "ada@example.test" {
			t.Fatalf("expected normalized email on create, got %+v", db.created)
		}
		if db.created[0].Template == "" {
			t.Fatalf("expected encoded face template on create")
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		// Arrange
		db := &fakeDB{createErr: goerror.ErrConflict}
		uc := newTestUsecase(t, db, &fakeMessaging{}, &fakeExtractor{vec: facematch.Vector{0.1}})

		// Act
		_, err := uc.Register(context.Background(), RegisterInput{
			FirstName: "Ada",
			Email:     "ada@example.test",
			Password:  "supersecret",
			Image:     testImage(t),
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeConflict {
			t.Fatalf("expected conflict error, got %v", err)
		}
	})

	t.Run("NoFaceInImage", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, &fakeDB{}, &fakeMessaging{}, &fakeExtractor{err: facematch.ErrNoFace})

		// Act
		_, err := uc.Register(context.Background(), RegisterInput{
			FirstName: "Ada",
			Email:     "ada@example.test",
			Password:  "supersecret",
			Image:     testImage(t),
		})

		// Assert
		if err == nil {
			t.Fatalf("expected error for faceless image")
		}
	})

	t.Run("UndecodableImage", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, &fakeDB{}, &fakeMessaging{}, &fakeExtractor{vec: facematch.Vector{0.1}})

		// Act
		_, err := uc.Register(context.Background(), RegisterInput{
			FirstName: "Ada",
			Email:     "ada@example.test",
			Password:  "supersecret",
			Image:     "!!not-base64!!",
		})

		// Assert
		if err == nil {
			t.Fatalf("expected error for undecodable image")
		}
	})
}

func TestLoginFace(t *testing.T) {
	t.Run("RecognizedFace", func(t *testing.T) {
		// Arrange
		enrolled := facematch.Vector{0.5, 0.5, 0.5}
		template, err := enrolled.Marshal()
		if err != nil {
			t.Fatalf("failed to marshal template: %v", err)
		}

		db := &fakeDB{templates: []entity.Credential{
			{ID: 1, Email: "ada@example.test", FirstName: "Ada", Template: template},
		}}
		uc := newTestUsecase(t, db, &fakeMessaging{}, &fakeExtractor{vec: enrolled})

		// Act
		out, err := uc.LoginFace(context.Background(), LoginFaceInput{Image: testImage(t)})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.User.ID != 1 || out.Confidence <= 55 {
			t.Fatalf("unexpected match: %+v", out)
		}
	})

	t.Run("UnrecognizedFace", func(t *testing.T) {
		// Arrange
		enrolled := facematch.Vector{0.9, 0.9, 0.9}
		template, err := enrolled.Marshal()
		if err != nil {
			t.Fatalf("failed to marshal template: %v", err)
		}

		db := &fakeDB{templates: []entity.Credential{
			{ID: 1, Email: "ada@example.test", Template: template},
		}}
		uc := newTestUsecase(t, db, &fakeMessaging{}, &fakeExtractor{vec: facematch.Vector{-0.9, -0.9, -0.9}})

		// Act
		_, err = uc.LoginFace(context.Background(), LoginFaceInput{Image: testImage(t)})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized error, got %v", err)
		}
	})

	t.Run("EmptyCorpus", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, &fakeDB{}, &fakeMessaging{}, &fakeExtractor{vec: facematch.Vector{0.1}})

		// Act
		_, err := uc.LoginFace(context.Background(), LoginFaceInput{Image: testImage(t)})

		// Assert
		if err == nil {
			t.Fatalf("expected error with no enrolled users")
		}
	})
}

func TestLoginPassword(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		bcrypt := hash.NewBcrypt(4, "")
		passHash, err := bcrypt.Hash("supersecret")
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}

		db := &fakeDB{users: map[string]*entity.Credential{
			"ada@example.test": {ID: 1, Email: "ada@example.test", PasswordHash: string(passHash)},
		}}
		uc := newTestUsecase(t, db, &fakeMessaging{}, &fakeExtractor{})

		// Act
		out, err := uc.LoginPassword(context.Background(), LoginPasswordInput{
			Email:    "ada@example.test",
			Password: "supersecret",
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.User.ID != 1 {
			t.Fatalf("unexpected user: %+v", out.User)
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		// Arrange
		bcrypt := hash.NewBcrypt(4, "")
		passHash, err := bcrypt.Hash("supersecret")
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}

		db := &fakeDB{users: map[string]*entity.Credential{
			"ada@example.test": {ID: 1, Email: "ada@example.test", PasswordHash: string(passHash)},
		}}
		uc := newTestUsecase(t, db, &fakeMessaging{}, &fakeExtractor{})

		// Act
		_, err = uc.LoginPassword(context.Background(), LoginPasswordInput{
			Email:    "ada@example.test",
			Password: "wrong-password",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized error, got %v", err)
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, &fakeDB{}, &fakeMessaging{}, &fakeExtractor{})

		// Act
		_, err := uc.LoginPassword(context.Background(), LoginPasswordInput{
			Email:    "ghost@example.test",
			Password: "supersecret",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized error, got %v", err)
		}
	})
}

func TestUserDelete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		db := &fakeDB{}
		uc := newTestUsecase(t, db, &fakeMessaging{}, &fakeExtractor{})

		// Act
		err := uc.UserDelete(context.Background(), UserDeleteInput{ID: 5})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(db.deleted) != 1 || db.deleted[0] != 5 {
			t.Fatalf("expected delete call for id 5, got %+v", db.deleted)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		// Arrange
		db := &fakeDB{deleteErr: goerror.ErrNotFound}
		uc := newTestUsecase(t, db, &fakeMessaging{}, &fakeExtractor{})

		// Act
		err := uc.UserDelete(context.Background(), UserDeleteInput{ID: 5})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})
}
