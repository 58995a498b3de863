package ports

import "context"

// CredentialKey is the fixed key the bearer token is persisted under.
const CredentialKey = "access_token"

// CredentialStore is a client-local persistent key-value store for the bearer token.
// Load returns an empty string and no error when nothing is stored.
type CredentialStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
