package uid

import "github.com/google/uuid"

// New returns a fresh request identifier.
func New() string {
	return uuid.New().String()
}

// IsValid reports whether id is a well-formed request identifier.
func IsValid(id string) bool {
	return uuid.Validate(id) == nil
}
