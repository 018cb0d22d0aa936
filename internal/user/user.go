// Package user manages the system's user records. There is no login or
// token surface; passwords are argon2id-hashed only to protect credentials
// at rest.
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is one system user. The password hash never leaves the package.
type User struct {
	ID           uuid.UUID `json:"id"`
	Nome         string    `json:"nome"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Ativo        bool      `json:"ativo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Normalize trims the identifying fields and lowercases the email.
func (u *User) Normalize() {
	u.Nome = strings.TrimSpace(u.Nome)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
}
