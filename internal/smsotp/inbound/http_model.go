package inbound

import "net/http"

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	PhoneNumber string `json:"phone_number"`
}

type RegisterResponse struct {
	UserID int64 `json:"user_id"`
}

func (RegisterResponse) StatusCode() int {
	return http.StatusCreated
}

func (RegisterResponse) Message() string {
	return "Registration successful. We sent a verification code to your phone."
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	PhoneNumber string `json:"phone_number"`
}

func (LoginResponse) Message() string {
	return "We sent a verification code to your phone."
}

type SMSLoginRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type SMSLoginResponse struct {
	Email string `json:"email"`
}

func (SMSLoginResponse) Message() string {
	return "We sent a verification code to your phone."
}

type SendOTPRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type SendOTPResponse struct{}

func (SendOTPResponse) Message() string {
	return "We sent a verification code to your phone."
}

type ResendOTPRequest struct {
	Email string `json:"email"`
}

type ResendOTPResponse struct{}

func (ResendOTPResponse) Message() string {
	return "We re-sent the verification code."
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type VerifyOTPResponse struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

func (VerifyOTPResponse) Message() string {
	return "Verification successful."
}

type HealthResponse struct {
	DBStatus    string `json:"db_status"`
	CacheStatus string `json:"cache_status"`
}
