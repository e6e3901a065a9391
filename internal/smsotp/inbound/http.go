package inbound

import (
	"context"

	"github.com/authlab/authmethods/internal/pkg/router"
	"github.com/authlab/authmethods/internal/pkg/session"
	"github.com/authlab/authmethods/internal/smsotp/usecase"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	SMSLogin(ctx context.Context, in usecase.SMSLoginInput) (*usecase.SMSLoginOutput, error)
	SendOTP(ctx context.Context, in usecase.SendOTPInput) error
	ResendOTP(ctx context.Context, in usecase.ResendOTPInput) error
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)
	Health(ctx context.Context) (*usecase.HealthOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, sess *session.Manager) {
	end := &HTTPEndpoint{uc: uc, sess: sess}

	r.POST("/api/v1/smsotp/register", end.Register)
	r.POST("/api/v1/smsotp/login", end.Login)
	r.POST("/api/v1/smsotp/sms-login", end.SMSLogin)

	r.POST("/api/v1/smsotp/send-otp", end.SendOTP)
	r.POST("/api/v1/smsotp/resend-otp", end.ResendOTP)
	r.POST("/api/v1/smsotp/verify-otp", end.VerifyOTP)

	r.GET("/api/v1/smsotp/health", end.Health)
}
