package utils

import (
	"github.com/google/uuid"
)

// NewToken returns a fresh opaque bearer token string.
func NewToken() string {
	return uuid.New().String()
}
