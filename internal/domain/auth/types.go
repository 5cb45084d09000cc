package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// The string values match what the library backend returns at login.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

// Session is the record we persist for an authenticated user. ID is an
// opaque session identifier carried in the browser cookie; Token is the
// bearer credential for the library backend.
type Session struct {
	ID          string    `json:"id"`
	Token       string    `json:"token"`
	SubjectName string    `json:"subject_name"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Complete reports whether all identity fields are present and the role is
// known. A session is either complete or it is not a session at all; partial
// records must never be handed to callers.
func (s Session) Complete() bool {
	return s.Token != "" &&
		s.SubjectName != "" &&
		s.DisplayName != "" &&
		s.Role.Valid()
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// IsAdmin returns true if the session role is admin.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }
