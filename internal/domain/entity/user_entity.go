package entity

import (
	"time"
)

// User is the aggregate root for the credential store.
// PasswordHash is a bcrypt hash and never leaves the core.
//
// ContactIDs is append-only: deleting a contact leaves its id in place.
type User struct {
	ID           string
	Username     string
	Name         string
	PasswordHash string
	ContactIDs   []string
	CreatedAt    time.Time
}
