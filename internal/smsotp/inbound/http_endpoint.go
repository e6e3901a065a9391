package inbound

import (
	"log/slog"

	"github.com/authlab/authmethods/internal/pkg/router"
	"github.com/authlab/authmethods/internal/pkg/session"
	"github.com/authlab/authmethods/internal/smsotp/usecase"
)

// HTTPEndpoint exposes HTTP handlers for the SMS one-time-password workflows.
type HTTPEndpoint struct {
	uc   uc
	sess *session.Manager
}

// Register creates or refreshes an account and sends the first code.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{UserID: resp.UserID}, nil
}

// Login verifies the password and sends a code to the account phone.
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

	return LoginResponse{PhoneNumber: maskPhone(resp.PhoneNumber)}, nil
}

// SMSLogin starts a passwordless login by phone number.
func (h *HTTPEndpoint) SMSLogin(r *router.Request) (any, error) {
	var req SMSLoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SMSLogin(r.Context(), usecase.SMSLoginInput{PhoneNumber: req.PhoneNumber})
	if err != nil {
		return nil, err
	}

	return SMSLoginResponse{Email: resp.Email}, nil
}

// SendOTP generates and delivers a fresh code.
func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.SendOTP(r.Context(), usecase.SendOTPInput{PhoneNumber: req.PhoneNumber}); err != nil {
		return nil, err
	}

	return SendOTPResponse{}, nil
}

// ResendOTP re-sends the code for an in-flight verification.
func (h *HTTPEndpoint) ResendOTP(r *router.Request) (any, error) {
	var req ResendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ResendOTP(r.Context(), usecase.ResendOTPInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return ResendOTPResponse{}, nil
}

// VerifyOTP consumes the code and logs the user in on success.
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		Email: req.Email,
		OTP:   req.OTP,
	})
	if err != nil {
		return nil, err
	}

	out := VerifyOTPResponse{
		UserID:   resp.User.ID,
		Email:    resp.User.Email,
		Verified: resp.User.Verified,
	}

	cookie, err := h.sess.Cookie(session.Claims{UserID: resp.User.ID, Email: resp.User.Email})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to build session cookie", "error", err)
		return out, nil
	}

	return router.WithCookies(out, cookie), nil
}

// Health reports database and cache connectivity.
func (h *HTTPEndpoint) Health(r *router.Request) (any, error) {
	resp, err := h.uc.Health(r.Context())
	if err != nil {
		return nil, err
	}

	return HealthResponse{DBStatus: resp.DBStatus, CacheStatus: resp.CacheStatus}, nil
}

// maskPhone hides all but the last two digits.
func maskPhone(phone string) string {
	if len(phone) <= 2 {
		return phone
	}

	masked := []byte(phone)
	for i := 0; i < len(masked)-2; i++ {
		if masked[i] >= '0' && masked[i] <= '9' {
			masked[i] = '*'
		}
	}
	return string(masked)
}
