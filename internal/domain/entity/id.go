package entity

import "github.com/google/uuid"

const canonicalIDLen = 36

// NewID returns a time-ordered UUIDv7 so stores that sort by key keep
// insertion order. It panics if the random source fails, like uuid.New.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// IsValidID reports whether s is a canonical hyphenated UUID. uuid.Parse alone
// also accepts urn and braced forms, which are not valid public ids.
func IsValidID(s string) bool {
	if len(s) != canonicalIDLen {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
