package models

import "time"

// Session is the client-side authentication state.
type Session struct {
	Token string
	Role  Role
}

// Authenticated reports whether a token is present. Freshness is the backend's call.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// TokenClaims are the unverified claims read from a JWT session token for display.
type TokenClaims struct {
	Subject   string
	Email     string
	Role      string
	ExpiresAt *time.Time
}
