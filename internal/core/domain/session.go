package domain

import "time"

// Identity is the authenticated account as known to the client.
// It is always replaced wholesale, never patched field by field.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// Session is a point-in-time view of the client's authentication state.
type Session struct {
	Identity      *Identity `json:"identity,omitempty"`
	Credential    string    `json:"-"`
	Authenticated bool      `json:"authenticated"`
	Pending       bool      `json:"pending"`
	// ExpiresAt is read from the credential's exp claim without verifying it.
	// Zero when the credential is absent or carries no expiry.
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Anonymous reports whether no credential is held.
func (s Session) Anonymous() bool {
	return s.Credential == "" && !s.Authenticated
}

// AuthResult is what the remote service returns for a successful login or registration.
type AuthResult struct {
	AccessToken string
	UserID      string
}
