package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

func TestCookieAndVerify(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		// Arrange
		clk := fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
		m := NewManager("test-secret", time.Hour, "session", false, clk)

		// Act
		cookie, err := m.Cookie(Claims{UserID: 42, Email: "a@b.test", MFA: true})
		if err != nil {
			t.Fatalf("unexpected error building cookie: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		claims, err := m.Verify(req)

		// Assert
		if err != nil {
			t.Fatalf("unexpected error verifying cookie: %v", err)
		}
		if claims.UserID != 42 || claims.Email != "a@b.test" || !claims.MFA {
			t.Fatalf("unexpected claims: %+v", claims)
		}
		if !cookie.HttpOnly {
			t.Fatalf("expected HttpOnly cookie")
		}
	})

	t.Run("ExpiredSession", func(t *testing.T) {
		// Arrange
		issued := fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
		m := NewManager("test-secret", time.Hour, "session", false, issued)

		cookie, err := m.Cookie(Claims{UserID: 1, Email: "a@b.test"})
		if err != nil {
			t.Fatalf("unexpected error building cookie: %v", err)
		}

		// Act
		later := NewManager("test-secret", time.Hour, "session", false,
			fixedClock{now: issued.now.Add(2 * time.Hour)})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		_, err = later.Verify(req)

		// Assert
		if err == nil {
			t.Fatalf("expected expired session to be rejected")
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		// Arrange
		clk := fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
		m := NewManager("test-secret", time.Hour, "session", false, clk)
		other := NewManager("other-secret", time.Hour, "session", false, clk)

		cookie, err := m.Cookie(Claims{UserID: 1, Email: "a@b.test"})
		if err != nil {
			t.Fatalf("unexpected error building cookie: %v", err)
		}

		// Act
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		_, err = other.Verify(req)

		// Assert
		if err == nil {
			t.Fatalf("expected signature mismatch to be rejected")
		}
	})

	t.Run("NoCookie", func(t *testing.T) {
		// Arrange
		clk := fixedClock{now: time.Now()}
		m := NewManager("test-secret", time.Hour, "session", false, clk)

		// Act
		_, err := m.Verify(httptest.NewRequest(http.MethodGet, "/", nil))

		// Assert
		if err == nil {
			t.Fatalf("expected missing cookie to be rejected")
		}
	})
}

func TestClearCookie(t *testing.T) {
	// Arrange
	m := NewManager("test-secret", time.Hour, "session", false, fixedClock{now: time.Now()})

	// Act
	cookie := m.ClearCookie()

	// Assert
	if cookie.MaxAge != -1 || cookie.Value != "" {
		t.Fatalf("expected expiring empty cookie, got %+v", cookie)
	}
}

func TestAuthContext(t *testing.T) {
	// Arrange
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	claims := &Claims{UserID: 7, Email: "x@y.test"}

	// Act
	ctx := SetAuth(req.Context(), claims)

	// Assert
	got := GetAuth(ctx)
	if got == nil || got.UserID != 7 {
		t.Fatalf("expected claims from context, got %+v", got)
	}
	if GetAuth(req.Context()) != nil {
		t.Fatalf("expected nil claims from bare context")
	}
}
