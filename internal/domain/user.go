package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Email is the identity key and is stored
// lowercased. PasswordHash is a bcrypt hash and never leaves the server.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`

	// Password-recovery state. ResetToken is nil unless a reset was requested
	// and expires at ResetTokenExpiresAt.
	ResetToken          *string    `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// Principal is the authenticated identity attached to a request.
// The core trusts Email as the expense record-owner key.
type Principal struct {
	UserID uuid.UUID
	Email  string
}
