package inbound

import (
	"context"

	"github.com/authlab/authmethods/internal/faceid/usecase"
	"github.com/authlab/authmethods/internal/pkg/router"
	"github.com/authlab/authmethods/internal/pkg/session"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	LoginFace(ctx context.Context, in usecase.LoginFaceInput) (*usecase.LoginFaceOutput, error)
	LoginPassword(ctx context.Context, in usecase.LoginPasswordInput) (*usecase.LoginPasswordOutput, error)
	UserList(ctx context.Context) (*usecase.UserListOutput, error)
	UserDelete(ctx context.Context, in usecase.UserDeleteInput) error
	Health(ctx context.Context) (*usecase.HealthOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, sess *session.Manager) {
	end := &HTTPEndpoint{uc: uc, sess: sess}

	r.POST("/api/v1/faceid/register", end.Register)
	r.POST("/api/v1/faceid/login/face", end.LoginFace)
	r.POST("/api/v1/faceid/login/password", end.LoginPassword)

	r.GET("/api/v1/faceid/users", end.UserList)
	r.DELETE("/api/v1/faceid/users/:id", end.UserDelete)

	r.GET("/api/v1/faceid/health", end.Health)
}
