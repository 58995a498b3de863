package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/xwanai/xwan-client/internal/core/domain"
	"github.com/xwanai/xwan-client/internal/core/ports"
	"github.com/xwanai/xwan-client/internal/metrics"
)

// SessionService owns the authentication state for the life of the process.
//
//	Anonymous ──login/register ok──▶ Authenticated ──logout / checkAuth failure / expire──▶ Anonymous
//
// Pending is orthogonal: it is true while any login or register call is in flight.
type SessionService struct {
	gateway ports.AuthGateway
	store   ports.CredentialStore
	log     zerolog.Logger

	mu            sync.Mutex
	identity      *domain.Identity
	credential    string
	authenticated bool
	inFlight      int
	// epoch is bumped whenever the session is established or cleared. A
	// verification started under an older epoch is dropped.
	epoch uint64
}

// NewSessionService returns an anonymous session. Call CheckAuth to restore a persisted credential.
func NewSessionService(gateway ports.AuthGateway, store ports.CredentialStore, log zerolog.Logger) *SessionService {
	return &SessionService{gateway: gateway, store: store, log: log}
}

// Login exchanges credentials for a token. On failure the prior state is kept.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	if err := checkVar("email", email, "required,email"); err != nil {
		return err
	}
	if err := checkVar("password", password, "required"); err != nil {
		return err
	}

	s.begin()
	res, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		s.end()
		s.log.Info().Err(err).Str("email", email).Msg("login failed")
		return fmt.Errorf("login: %w", err)
	}
	return s.establish(ctx, "login", res, domain.Identity{ID: res.UserID, Email: email})
}

// Register creates an account and signs straight into it.
func (s *SessionService) Register(ctx context.Context, email, password, username string) error {
	if err := checkVar("email", email, "required,email"); err != nil {
		return err
	}
	if err := checkVar("password", password, "required,min=8"); err != nil {
		return err
	}
	if err := checkVar("username", username, "required,min=3,max=50"); err != nil {
		return err
	}

	s.begin()
	res, err := s.gateway.Register(ctx, email, password, username)
	if err != nil {
		s.end()
		s.log.Info().Err(err).Str("email", email).Msg("registration failed")
		return fmt.Errorf("register: %w", err)
	}
	return s.establish(ctx, "register", res, domain.Identity{ID: res.UserID, Email: email, Username: username})
}

// Logout clears the persisted credential and all in-memory state. It never fails
// and calling it repeatedly is harmless.
func (s *SessionService) Logout(ctx context.Context) {
	s.clear(ctx)
	metrics.SessionTransitionsTotal.WithLabelValues("logout").Inc()
	s.log.Info().Msg("logged out")
}

// Expire ends the session because the remote service rejected the credential
// on a protected call.
func (s *SessionService) Expire(ctx context.Context) {
	s.clear(ctx)
	metrics.SessionTransitionsTotal.WithLabelValues("expire").Inc()
	s.log.Warn().Msg("session expired, credential cleared")
}

// CheckAuth rebuilds the session from the persisted credential. Without a stored
// credential no call is made and the session stays anonymous. A credential the
// remote service does not accept is discarded together with all session state.
func (s *SessionService) CheckAuth(ctx context.Context) error {
	epoch := s.currentEpoch()

	token, err := s.store.Load(ctx)
	if err != nil {
		s.resetIfCurrent(epoch)
		return fmt.Errorf("check auth: load credential: %w", err)
	}
	if token == "" {
		s.resetIfCurrent(epoch)
		return nil
	}

	identity, err := s.gateway.Me(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.log.Debug().Err(err).Msg("session changed during verification, result dropped")
		return nil
	}
	if err != nil {
		s.clearLocked(ctx)
		metrics.SessionTransitionsTotal.WithLabelValues("verify_failed").Inc()
		s.log.Info().Err(err).Msg("stored credential rejected")
		return fmt.Errorf("check auth: %w", err)
	}
	id := *identity
	s.identity = &id
	s.credential = token
	s.authenticated = true
	metrics.SessionTransitionsTotal.WithLabelValues("verify").Inc()
	s.log.Debug().Str("user_id", id.ID).Msg("credential verified")
	return nil
}

// IsAuthenticated reports whether the session currently holds an accepted credential.
func (s *SessionService) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Snapshot returns a copy of the current session state.
func (s *SessionService) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.Session{
		Credential:    s.credential,
		Authenticated: s.authenticated,
		Pending:       s.inFlight > 0,
		ExpiresAt:     credentialExpiry(s.credential),
	}
	if s.identity != nil {
		id := *s.identity
		snap.Identity = &id
	}
	return snap
}

func (s *SessionService) begin() {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()
}

func (s *SessionService) end() {
	s.mu.Lock()
	s.endLocked()
	s.mu.Unlock()
}

func (s *SessionService) endLocked() {
	if s.inFlight > 0 {
		s.inFlight--
	}
}

// establish persists the token and only then switches the session to authenticated.
// The gateway reads the token back from the store, so a token that could not be
// persisted is treated as a failed login. Store and memory change under one lock.
func (s *SessionService) establish(ctx context.Context, transition string, res *domain.AuthResult, identity domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endLocked()

	if err := s.store.Save(ctx, res.AccessToken); err != nil {
		s.log.Error().Err(err).Msg("failed to persist credential")
		return fmt.Errorf("%s: persist credential: %w", transition, err)
	}
	s.identity = &identity
	s.credential = res.AccessToken
	s.authenticated = true
	s.epoch++

	metrics.SessionTransitionsTotal.WithLabelValues(transition).Inc()
	s.log.Info().Str("user_id", identity.ID).Msg(transition + " succeeded")
	return nil
}

func (s *SessionService) currentEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

func (s *SessionService) clear(ctx context.Context) {
	s.mu.Lock()
	s.clearLocked(ctx)
	s.mu.Unlock()
}

func (s *SessionService) clearLocked(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted credential")
	}
	s.resetLocked()
}

// resetIfCurrent drops in-memory state unless a login or logout happened since epoch.
func (s *SessionService) resetIfCurrent(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == epoch {
		s.resetLocked()
	}
}

func (s *SessionService) resetLocked() {
	s.identity = nil
	s.credential = ""
	s.authenticated = false
	s.epoch++
}
