package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var ErrUserExists = errors.New("username already taken")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")

// ErrLockedOut is returned when a username has reached its daily budget of
// failed logins. The lock clears on its own at the next UTC midnight because
// the failure count is scoped to the current calendar day.
var ErrLockedOut = errors.New("too many failed login attempts today")

var ErrForbidden = errors.New("access forbidden")

// User models a registered account. Usernames are stored in normalized form
// (trimmed, lowercased); PasswordHash is a one-way digest, never the raw
// password.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginAttempt is one row of the append-only failed-login audit log. The
// username does not have to belong to an existing account: attempts against
// unknown names are recorded too.
type LoginAttempt struct {
	Username    string
	AttemptTime time.Time
}
