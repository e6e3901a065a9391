// Package session issues and verifies browser session cookies.
//
// A session is a signed JWT stored in an HTTP-only cookie. It carries the
// authenticated user identity for flows that need a server-side login state,
// such as two-factor validation after a password login.
package session

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/authlab/authmethods/internal/pkg/clock"
)

// ErrNoSession indicates the request carries no valid session cookie.
var ErrNoSession = errors.New("session: not authenticated")

// Claims is the identity stored in a session cookie.
type Claims struct {
	UserID int64
	Email  string
	MFA    bool
}

// Manager signs, sets, reads, and clears session cookies.
type Manager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	clock      clock.Clocker
}

// NewManager builds a session manager.
//
// secret signs cookies with HMAC-SHA512 and must stay private. secure should
// be true whenever the service is served over HTTPS.
func NewManager(secret string, ttl time.Duration, cookieName string, secure bool, clk clock.Clocker) *Manager {
	if cookieName == "" {
		cookieName = "session"
	}

	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return &Manager{
		secret:     []byte(secret),
		ttl:        ttl,
		cookieName: cookieName,
		secure:     secure,
		clock:      clk,
	}
}

type jwtClaims struct {
	Email string `json:"email"`
	MFA   bool   `json:"mfa"`
	jwt.RegisteredClaims
}

// Cookie builds a fresh session cookie for the given identity.
func (m *Manager) Cookie(c Claims) (*http.Cookie, error) {
	now := m.clock.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwtClaims{
		Email: c.Email,
		MFA:   c.MFA,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(c.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     m.cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ClearCookie builds a cookie that expires the session.
func (m *Manager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Verify reads and validates the session cookie on the request.
func (m *Manager) Verify(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}

	var parsed jwtClaims
	token, err := jwt.ParseWithClaims(cookie.Value, &parsed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(m.clock.Now),
	)
	if err != nil || !token.Valid {
		return nil, ErrNoSession
	}

	userID, err := strconv.ParseInt(parsed.Subject, 10, 64)
	if err != nil {
		return nil, ErrNoSession
	}

	return &Claims{UserID: userID, Email: parsed.Email, MFA: parsed.MFA}, nil
}

type authKey struct{}

// SetAuth stores session claims in the context.
func SetAuth(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, authKey{}, c)
}

// GetAuth returns session claims from the context, or nil.
func GetAuth(ctx context.Context) *Claims {
	c, ok := ctx.Value(authKey{}).(*Claims)
	if !ok {
		return nil
	}

	return c
}
