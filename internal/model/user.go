package model

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an account as returned by the backend /users and /auth endpoints.
type User struct {
	ID        int        `json:"id,omitempty"`
	Email     string     `json:"email"`
	Name      *string    `json:"name,omitempty"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserPayload is the body of user create/update requests. Name is sent as
// null when empty and Password is only sent when set.
type UserPayload struct {
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	Role     string  `json:"role"`
	Password string  `json:"password,omitempty"`
}
