package ports

import "context"

// SessionGuard is the part of the session manager that protected controllers depend on.
type SessionGuard interface {
	IsAuthenticated() bool
	// Expire ends the session after the remote service rejected the credential mid-flight.
	Expire(ctx context.Context)
}
