package user

import (
	"crypto/rand"
	"encoding/hex"
)

// User represents a user entity in the system.
type User struct {
	ID     string  // ID is a 16 character hexadecimal identifier
	Name   string  // Name is the full name of the user
	Phone  string  // Phone is the contact phone number
	Email  string  // Email is the contact email address
	Age    int64   // Age in years
	Weight float64 // Weight in kilograms
}

// NewID returns a random 16 character lowercase hexadecimal identifier.
// Identifiers are generated from 8 bytes of crypto/rand entropy; the key
// space is large enough that collisions are not checked for.
func NewID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
