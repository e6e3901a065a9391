package inbound

import "net/http"

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type RegisterResponse struct {
	UserID int64  `json:"user_id"`
	OTPURI string `json:"otp_uri"`
}

func (RegisterResponse) StatusCode() int {
	return http.StatusCreated
}

func (RegisterResponse) Message() string {
	return "Registration successful. Scan the QR code with an authenticator app."
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	RequiresOTP bool `json:"requires_otp"`
}

func (LoginResponse) Message() string {
	return "Password accepted. Provide an authenticator code to finish login."
}

type ValidateRequest struct {
	Code string `json:"code"`
}

type ValidateResponse struct {
	Valid bool `json:"valid"`
}

func (ValidateResponse) Message() string {
	return "Code checked."
}

type LogoutResponse struct{}

func (LogoutResponse) Message() string {
	return "Logged out."
}

type SessionCheckResponse struct {
	LoggedIn bool   `json:"logged_in"`
	Email    string `json:"email,omitempty"`
}

func (SessionCheckResponse) Message() string {
	return "Session checked."
}

type HealthResponse struct {
	DBStatus string `json:"db_status"`
}

func (HealthResponse) Message() string {
	return "Health checked."
}
