package ports

import (
	"context"

	"github.com/xwanai/xwan-client/internal/core/domain"
)

// AuthGateway is the remote side of the session lifecycle.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Register(ctx context.Context, email, password, username string) (*domain.AuthResult, error)
	// Me resolves the identity behind the credential currently held in the store.
	Me(ctx context.Context) (*domain.Identity, error)
}
