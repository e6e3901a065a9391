// Package otpcode implements the lifecycle of short-lived numeric login codes:
// generate, persist with an expiry, and verify exactly once.
//
// Persistence goes through the Store port so the engine stays independent of
// the backing database. At most one pending code exists per key; generating a
// new code replaces the previous one via the store's upsert.
package otpcode

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/authlab/authmethods/internal/pkg/clock"
)

// ErrNotFound is returned by Store implementations when no code exists for a key.
var ErrNotFound = errors.New("otpcode: no code for key")

// DefaultLength is the number of decimal digits in a generated code.
const DefaultLength = 6

// DefaultTTL is how long a generated code stays valid.
const DefaultTTL = 5 * time.Minute

// Record is the persisted state of a one-time code.
type Record struct {
	// Key identifies the recipient (phone number or email).
	Key string
	// Code is the decimal code string.
	Code string
	// CreatedAt is when the code was generated.
	CreatedAt time.Time
	// ExpiresAt is when the code stops being accepted.
	ExpiresAt time.Time
	// Used marks the code as consumed.
	Used bool
}

// Store persists one-time codes keyed by recipient.
//
// Upsert must atomically replace any existing record for the key, so the
// "at most one pending code per key" invariant holds even under concurrent
// requests.
type Store interface {
	// Get returns the current record for key, or ErrNotFound.
	Get(ctx context.Context, key string) (*Record, error)
	// Upsert stores the record, replacing any existing record for the key.
	Upsert(ctx context.Context, rec Record) error
	// MarkUsed consumes the pending record for key. It returns ErrNotFound
	// when no unconsumed record exists, which lets the engine detect a lost
	// race between two concurrent verifies.
	MarkUsed(ctx context.Context, key string) error
}

// Engine generates and verifies single-use numeric codes.
type Engine struct {
	store  Store
	clock  clock.Clocker
	length int
	ttl    time.Duration
}

// NewEngine constructs an Engine. Non-positive length or ttl fall back to the
// defaults (6 digits, 5 minutes).
func NewEngine(store Store, clk clock.Clocker, length int, ttl time.Duration) *Engine {
	if length <= 0 {
		length = DefaultLength
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Engine{
		store:  store,
		clock:  clk,
		length: length,
		ttl:    ttl,
	}
}

// Generate produces a uniformly random decimal code and persists it with an
// expiry, replacing any pending code for the key. The code is returned for
// delivery; delivery itself is the caller's concern and a delivery failure
// does not invalidate the stored code.
func (e *Engine) Generate(ctx context.Context, key string) (string, error) {
	code, err := randomDigits(e.length)
	if err != nil {
		return "", err
	}

	now := e.clock.Now()
	rec := Record{
		Key:       key,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(e.ttl),
		Used:      false,
	}

	if err := e.store.Upsert(ctx, rec); err != nil {
		return "", err
	}

	return code, nil
}

// Verify checks candidate against the pending code for key and consumes the
// code on success. It returns false when no code is pending, the code was
// already used, the code expired, or the candidate does not match.
//
// Expiry is sticky: an expired record is marked used on first sight, so later
// attempts against it keep failing for the same reason.
func (e *Engine) Verify(ctx context.Context, key, candidate string) (bool, error) {
	rec, err := e.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if rec.Used {
		return false, nil
	}

	if e.clock.Now().After(rec.ExpiresAt) {
		if err := e.store.MarkUsed(ctx, rec.Key); err != nil && !errors.Is(err, ErrNotFound) {
			return false, err
		}
		return false, nil
	}

	// Exact string equality, matching the behavior of the system this
	// replaces. Not a constant-time comparison.
	if rec.Code != candidate {
		return false, nil
	}

	if err := e.store.MarkUsed(ctx, rec.Key); err != nil {
		// Another verify consumed the code between Get and MarkUsed.
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func randomDigits(n int) (string, error) {
	buf := make([]byte, n)
	max := big.NewInt(10)

	for i := range buf {
		d, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + d.Int64())
	}

	return string(buf), nil
}
