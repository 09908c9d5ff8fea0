package auth

import (
	"errors"
	"time"
)

// ErrForbidden is returned whenever an identity fails an ownership or
// privilege check. Callers wrap it with the specific refusal.
var ErrForbidden = errors.New("forbidden")

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is what the rest of the system sees of an authenticated caller.
// Every operation receives it explicitly; there is no ambient session.
type Identity struct {
	UserID  string
	IsAdmin bool
}

func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, IsAdmin: u.IsAdmin}
}
