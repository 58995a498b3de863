package backend

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Register creates an account and returns a token for it.
func (b *Backend) Register(email, password, username string) (string, *User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	b.mu.Lock()
	if _, taken := b.usersByEmail[email]; taken {
		b.mu.Unlock()
		return "", nil, ErrEmailTaken
	}
	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    b.now().UTC(),
	}
	b.users[u.ID] = u
	b.usersByEmail[email] = u.ID
	b.mu.Unlock()

	token, err := b.issueToken(u.ID)
	if err != nil {
		return "", nil, err
	}
	clone := *u
	return token, &clone, nil
}

// Login checks a password and returns a fresh token.
func (b *Backend) Login(email, password string) (string, *User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	b.mu.RLock()
	id, ok := b.usersByEmail[email]
	var u User
	if ok {
		u = *b.users[id]
	}
	b.mu.RUnlock()

	if !ok {
		return "", nil, ErrBadLogin
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return "", nil, ErrBadLogin
	}

	token, err := b.issueToken(u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, &u, nil
}
