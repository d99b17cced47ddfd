package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewID returns a fresh 24-character hex identifier. Every backend uses the
// same format so ids stay portable between stores.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// NormalizeID trims and lowercases a client supplied id. Stored ids are
// lowercase hex, and SQL backends compare them byte for byte.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// IsValidID reports whether id is a well-formed identifier.
func IsValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}
