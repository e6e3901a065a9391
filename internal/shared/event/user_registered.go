package event

const UserRegisteredDestination string = "auth_user_registered"

type UserRegisteredMessage struct {
	UserID     int64  `json:"user_id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	AuthMethod string `json:"auth_method"`
}
