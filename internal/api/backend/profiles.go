package backend

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a user's own BaZi profile. Each user has at most one.
type Profile struct {
	ID        string
	UserID    string
	Birth     Birth
	Chart     Chart
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Backend) CreateProfile(userID string, birth Birth) (*Profile, error) {
	now := b.now().UTC()
	p := &Profile{
		ID:        uuid.NewString(),
		UserID:    userID,
		Birth:     birth,
		Chart:     computeChart(birth.Year, birth.Month, birth.Day, birth.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.profiles[userID]; exists {
		return nil, ErrProfileExists
	}
	b.profiles[userID] = p
	clone := *p
	return &clone, nil
}

func (b *Backend) Profile(userID string) (*Profile, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

// DeleteProfile removes the user's profile. Deleting a missing profile succeeds.
func (b *Backend) DeleteProfile(userID string) {
	b.mu.Lock()
	delete(b.profiles, userID)
	b.mu.Unlock()
}
