package inbound

import (
	"log/slog"

	"github.com/authlab/authmethods/internal/faceid/usecase"
	"github.com/authlab/authmethods/internal/pkg/router"
	"github.com/authlab/authmethods/internal/pkg/session"
)

// HTTPEndpoint exposes HTTP handlers for face-recognition login workflows.
type HTTPEndpoint struct {
	uc   uc
	sess *session.Manager
}

// Register enrolls a new user with a face image.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		FirstName: req.FirstName,
		Email:     req.Email,
		Password:  req.Password,
		Image:     req.Image,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{UserID: resp.UserID}, nil
}

// LoginFace authenticates a user by face image and sets a session cookie.
func (h *HTTPEndpoint) LoginFace(r *router.Request) (any, error) {
	var req LoginFaceRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.LoginFace(r.Context(), usecase.LoginFaceInput{Image: req.Image})
	if err != nil {
		return nil, err
	}

	out := LoginFaceResponse{
		User:       toUserModel(resp.User),
		Confidence: resp.Confidence,
	}

	cookie, err := h.sess.Cookie(session.Claims{UserID: resp.User.ID, Email: resp.User.Email})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to build session cookie", "error", err)
		return out, nil
	}

	return router.WithCookies(out, cookie), nil
}

// LoginPassword authenticates a user by email and password.
func (h *HTTPEndpoint) LoginPassword(r *router.Request) (any, error) {
	var req LoginPasswordRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.LoginPassword(r.Context(), usecase.LoginPasswordInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	out := LoginPasswordResponse{User: toUserModel(resp.User)}

	cookie, err := h.sess.Cookie(session.Claims{UserID: resp.User.ID, Email: resp.User.Email})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to build session cookie", "error", err)
		return out, nil
	}

	return router.WithCookies(out, cookie), nil
}

// UserList returns registered users, newest first.
func (h *HTTPEndpoint) UserList(r *router.Request) (any, error) {
	resp, err := h.uc.UserList(r.Context())
	if err != nil {
		return nil, err
	}

	return toUserListResponse(resp.Users), nil
}

// UserDelete removes a user by id.
func (h *HTTPEndpoint) UserDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.UserDelete(r.Context(), usecase.UserDeleteInput{ID: id}); err != nil {
		return nil, err
	}

	return UserDeleteResponse{}, nil
}

// Health reports database connectivity.
func (h *HTTPEndpoint) Health(r *router.Request) (any, error) {
	resp, err := h.uc.Health(r.Context())
	if err != nil {
		return nil, err
	}

	return HealthResponse{DBStatus: resp.DBStatus}, nil
}
