package entity

import (
	"net/http"
	"time"

	"checkin/lib/validate"
)

// Role controls access level; the only role handed out is admin.
type Role string

const (
	RoleAdmin Role = "admin"
)

// User is the session record created by a successful login.
type User struct {
	Id        string    `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (l *LoginRequest) Bind(_ *http.Request) error {
	return validate.Struct(l)
}
