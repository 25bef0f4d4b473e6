package model

import (
	"strings"
	"time"
)

// Role names the three kinds of account. A user's role never changes after
// registration.
type Role string

const (
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
	RoleAdmin  Role = "admin"
)

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleFarmer, RoleBuyer, RoleAdmin:
		return r, true
	}
	return "", false
}

// User is one entry of the `users` collection.
//
// Fields:
//
//	ID           – unique id assigned at registration.
//	Email        – login email, stored trimmed and lower-cased.
//	Role         – farmer, buyer or admin.
//	Name         – display name; copied onto listings and messages.
//	Phone        – optional contact number.
//	Aadhaar      – optional national id number.
//	Location     – optional free-form "village, district, state".
//	PasswordHash – bcrypt hash, only present when a password was supplied.
//	CreatedAt    – registration time.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Aadhaar      string    `json:"aadhaar,omitempty"`
	Location     string    `json:"location,omitempty"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
