package inbound

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/authlab/authmethods/internal/pkg/goerror"
	"github.com/authlab/authmethods/internal/pkg/router"
	"github.com/authlab/authmethods/internal/pkg/session"
	"github.com/authlab/authmethods/internal/totp/usecase"
)

// HTTPEndpoint exposes HTTP handlers for two-factor login workflows.
type HTTPEndpoint struct {
	uc   uc
	sess *session.Manager
}

// Register enrolls a new user and returns the authenticator provisioning URI.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		FirstName: req.FirstName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{UserID: resp.UserID, OTPURI: resp.OTPURI}, nil
}

// Login verifies the password and starts a session that still needs a code.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	out := LoginResponse{RequiresOTP: resp.RequiresOTP}

	cookie, err := h.sess.Cookie(session.Claims{UserID: resp.User.ID, Email: resp.User.Email})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to build session cookie", "error", err)
		return out, nil
	}

	return router.WithCookies(out, cookie), nil
}

// QR serves the provisioning QR for the session user as a PNG image.
func (h *HTTPEndpoint) QR() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := session.GetAuth(r.Context())
		if claims == nil {
			writeError(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		resp, err := h.uc.QR(r.Context(), usecase.QRInput{Email: claims.Email})
		if err != nil {
			var gerr *goerror.Error
			if errors.As(err, &gerr) {
				writeError(w, gerr.Msg(), gerr.StatusCode())
				return
			}
			writeError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(resp.PNG); err != nil {
			slog.ErrorContext(r.Context(), "failed to write qr image", "error", err)
		}
	})
}

// Validate checks an authenticator code for the session user. A valid code
// upgrades the session cookie with the second-factor mark.
func (h *HTTPEndpoint) Validate(r *router.Request) (any, error) {
	var req ValidateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	claims := session.GetAuth(r.Context())
	if claims == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	resp, err := h.uc.Validate(r.Context(), usecase.ValidateInput{
		Email: claims.Email,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	out := ValidateResponse{Valid: resp.Valid}
	if !resp.Valid {
		return out, nil
	}

	cookie, err := h.sess.Cookie(session.Claims{UserID: claims.UserID, Email: claims.Email, MFA: true})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to build session cookie", "error", err)
		return out, nil
	}

	return router.WithCookies(out, cookie), nil
}

// Logout clears the session cookie.
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	return router.WithCookies(LogoutResponse{}, h.sess.ClearCookie()), nil
}

// SessionCheck reports whether the request carries a valid session.
func (h *HTTPEndpoint) SessionCheck(r *router.Request) (any, error) {
	claims, err := h.sess.Verify(r.Request)
	if err != nil {
		return SessionCheckResponse{LoggedIn: false}, nil
	}

	return SessionCheckResponse{LoggedIn: true, Email: claims.Email}, nil
}

// Health reports database connectivity.
func (h *HTTPEndpoint) Health(r *router.Request) (any, error) {
	resp, err := h.uc.Health(r.Context())
	if err != nil {
		return nil, err
	}

	return HealthResponse{DBStatus: resp.DBStatus}, nil
}

func writeError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
