package domain

import (
	"errors"
	"time"
)

const (
	RoleHost  = "host"
	RoleGuest = "guest"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	return role == RoleHost || role == RoleGuest
}

// User models an account in the marketplace. PasswordHash is never
// serialized into API responses.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio,omitempty"`
	Verified     bool      `json:"verified"`
	JoinedAt     time.Time `json:"joined_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
