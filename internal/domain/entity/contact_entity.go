package entity

import "time"

// Contact is a phonebook entry owned by exactly one User.
// OwnerID is set on creation and never reassigned.
type Contact struct {
	ID        string
	Name      string
	Number    string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
