// Package credstore provides the client-local persistent store for the bearer
// token. Every backend keeps a single value under ports.CredentialKey.
package credstore

import (
	"context"
	"fmt"

	"github.com/xwanai/xwan-client/internal/core/ports"
)

const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

var (
	_ ports.CredentialStore = (*FileStore)(nil)
	_ ports.CredentialStore = (*MemoryStore)(nil)
	_ ports.CredentialStore = (*RedisStore)(nil)
)

// Config selects and configures a backend.
type Config struct {
	Backend  string
	FilePath string
	Redis    RedisConfig
}

// Open builds the configured store. The returned close function releases any
// connection the backend holds and is always safe to call.
func Open(ctx context.Context, cfg Config) (ports.CredentialStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case "", BackendFile:
		path := cfg.FilePath
		if path == "" {
			var err error
			if path, err = DefaultFilePath(); err != nil {
				return nil, noop, err
			}
		}
		return NewFileStore(path), noop, nil
	case BackendMemory:
		return NewMemoryStore(), noop, nil
	case BackendRedis:
		client, err := ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, fmt.Errorf("credstore: %w", err)
		}
		store := NewRedisStore(client, cfg.Redis.Namespace)
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("credstore: unknown backend %q", cfg.Backend)
	}
}
