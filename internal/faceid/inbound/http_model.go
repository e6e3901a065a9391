package inbound

import (
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/authlab/authmethods/internal/faceid/entity"
)

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Image     string `json:"image"`
}

type RegisterResponse struct {
	UserID int64 `json:"user_id"`
}

func (RegisterResponse) StatusCode() int {
	return http.StatusCreated
}

func (RegisterResponse) Message() string {
	return "Registration successful."
}

type LoginFaceRequest struct {
	Image string `json:"image"`
}

type LoginFaceResponse struct {
	User       UserModel `json:"user"`
	Confidence float64   `json:"confidence"`
}

func (LoginFaceResponse) Message() string {
	return "Face login successful."
}

type LoginPasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginPasswordResponse struct {
	User UserModel `json:"user"`
}

func (LoginPasswordResponse) Message() string {
	return "Login successful."
}

type UserModel struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	CreatedAt string `json:"created_at,omitempty"`
}

func toUserModel(u entity.User) UserModel {
	created := ""
	if !u.CreatedAt.IsZero() {
		created = u.CreatedAt.Format(time.RFC3339)
	}

	return UserModel{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		CreatedAt: created,
	}
}

type UserListResponse struct {
	Users []UserModel `json:"users"`
}

func toUserListResponse(users []entity.User) UserListResponse {
	return UserListResponse{Users: lo.Map(users, func(u entity.User, _ int) UserModel {
		return toUserModel(u)
	})}
}

type UserDeleteResponse struct{}

func (UserDeleteResponse) Message() string {
	return "User deleted."
}

type HealthResponse struct {
	DBStatus string `json:"db_status"`
}
