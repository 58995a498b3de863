// Package backend is an in-memory implementation of the XwanAI service used
// by the stub server. It enforces the same ownership and visibility rules as
// the hosted service so the client can be exercised end to end.
package backend

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/xwanai/xwan-client/internal/core/domain"
)

// Error is a failure with a message fit for the API response. Kind is the
// domain error it belongs to.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrEmailTaken        = &Error{Kind: domain.ErrRejected, Msg: "Email already registered"}
	ErrBadLogin          = &Error{Kind: domain.ErrInvalidCredentials, Msg: "Incorrect email or password"}
	ErrProfileExists     = &Error{Kind: domain.ErrRejected, Msg: "BaZi profile already exists. Use update endpoint."}
	ErrProfileNotFound   = &Error{Kind: domain.ErrNotFound, Msg: "BaZi profile not found"}
	ErrCharacterNotFound = &Error{Kind: domain.ErrNotFound, Msg: "Character not found"}
	ErrPrivate           = &Error{Kind: domain.ErrForbidden, Msg: "This character is private"}
	ErrNotOwner          = &Error{Kind: domain.ErrForbidden, Msg: "You don't have permission to delete this character"}
	ErrBadToken          = &Error{Kind: domain.ErrSessionExpired, Msg: "Could not validate credentials"}
)

// Replier produces a character's reply to a message given prior exchanges.
type Replier func(ch Character, history []Exchange, message string) string

// Backend holds all state in memory. It is safe for concurrent use.
type Backend struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
	reply    Replier

	mu            sync.RWMutex
	users         map[string]*User // by id
	usersByEmail  map[string]string
	characters    map[string]*Character
	conversations map[string]*Conversation // by user id + character id
	profiles      map[string]*Profile      // by user id
}

// Option customises a Backend.
type Option func(*Backend)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// WithReplier overrides reply generation.
func WithReplier(r Replier) Option {
	return func(b *Backend) { b.reply = r }
}

// New returns an empty Backend that signs tokens with secret.
func New(secret string, tokenTTL time.Duration, opts ...Option) *Backend {
	b := &Backend{
		secret:        []byte(secret),
		tokenTTL:      tokenTTL,
		now:           time.Now,
		reply:         defaultReply,
		users:         make(map[string]*User),
		usersByEmail:  make(map[string]string),
		characters:    make(map[string]*Character),
		conversations: make(map[string]*Conversation),
		profiles:      make(map[string]*Profile),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) issueToken(userID string) (string, error) {
	now := b.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(b.tokenTTL)),
		ID:        uuid.NewString(),
	})
	signed, err := token.SignedString(b.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authenticate verifies a bearer token and returns the user it was issued to.
func (b *Backend) Authenticate(token string) (*User, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return b.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(b.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrBadToken
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	u, ok := b.users[claims.Subject]
	if !ok {
		return nil, ErrBadToken
	}
	clone := *u
	return &clone, nil
}

func defaultReply(ch Character, history []Exchange, message string) string {
	greeting := ch.GreetingMessage
	if len(history) > 0 || greeting == "" {
		return fmt.Sprintf("%s（%s）：关于「%s」，%s", ch.Name, ch.Chart.DayMaster, message, ch.Chart.PersonalitySummary)
	}
	return fmt.Sprintf("%s 你说「%s」，我记住了。", greeting, message)
}
