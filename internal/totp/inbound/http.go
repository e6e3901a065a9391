package inbound

import (
	"context"

	"github.com/authlab/authmethods/internal/pkg/router"
	"github.com/authlab/authmethods/internal/pkg/session"
	"github.com/authlab/authmethods/internal/totp/usecase"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	QR(ctx context.Context, in usecase.QRInput) (*usecase.QROutput, error)
	Validate(ctx context.Context, in usecase.ValidateInput) (*usecase.ValidateOutput, error)
	Health(ctx context.Context) (*usecase.HealthOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, sess *session.Manager) {
	end := &HTTPEndpoint{uc: uc, sess: sess}

	r.POST("/api/v1/totp/register", end.Register)
	r.POST("/api/v1/totp/login", end.Login)
	r.POST("/api/v1/totp/logout", end.Logout)

	r.GETRaw("/api/v1/totp/qr", end.QR(), router.RequireSession(sess))
	r.POST("/api/v1/totp/validate", end.Validate, router.RequireSession(sess))

	r.GET("/api/v1/totp/session-check", end.SessionCheck)
	r.GET("/api/v1/totp/health", end.Health)
}
