package auth

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
}

// Session binds an opaque cookie token to a user for a bounded window.
type Session struct {
	ID      string
	UserID  uuid.UUID
	Expires time.Time
}

func (s Session) ExpiredAt(now time.Time) bool {
	return now.After(s.Expires)
}
