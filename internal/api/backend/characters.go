package backend

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/xwanai/xwan-client/internal/core/domain"
)

// Birth is the birth data behind a chart.
type Birth struct {
	Year, Month, Day int
	Hour, Minute     int
	Gender           domain.Gender
	Location         string
	Longitude        *float64
	Latitude         *float64
}

type Character struct {
	ID                   string
	CreatorID            string
	Name                 string
	Mode                 domain.CreationMode
	Description          string
	GreetingMessage      string
	PersonalityTraits    []string
	Tags                 []string
	Visibility           domain.Visibility
	DeepDialogueUnlocked bool
	InteractionCount     int
	FavoriteCount        int
	Birth                Birth
	Chart                Chart
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewCharacter carries the fields a creator supplies.
type NewCharacter struct {
	Name              string
	Mode              domain.CreationMode
	Description       string
	GreetingMessage   string
	PersonalityTraits []string
	Tags              []string
	Visibility        domain.Visibility
	Year, Month, Day  int
	Hour, Minute      *int
	Gender            domain.Gender
}

// Page is one slice of a character listing.
type Page struct {
	Characters []Character
	Total      int
	Page       int
	PageSize   int
}

// CreateCharacter computes the character's chart and stores it. A missing
// birth hour defaults to noon.
func (b *Backend) CreateCharacter(creatorID string, in NewCharacter) (*Character, error) {
	hour, minute := 12, 0
	if in.Hour != nil {
		hour = *in.Hour
	}
	if in.Minute != nil {
		minute = *in.Minute
	}
	if in.Gender == "" {
		in.Gender = domain.GenderOther
	}
	if in.Visibility == "" {
		in.Visibility = domain.VisibilityPrivate
	}

	chart := computeChart(in.Year, in.Month, in.Day, hour)
	greeting := in.GreetingMessage
	if greeting == "" {
		greeting = "你好，我是" + in.Name + "。" + chart.PersonalitySummary
	}
	now := b.now().UTC()
	ch := &Character{
		ID:                   uuid.NewString(),
		CreatorID:            creatorID,
		Name:                 in.Name,
		Mode:                 in.Mode,
		Description:          in.Description,
		GreetingMessage:      greeting,
		PersonalityTraits:    nonNil(in.PersonalityTraits),
		Tags:                 nonNil(in.Tags),
		Visibility:           in.Visibility,
		DeepDialogueUnlocked: in.Visibility != domain.VisibilityPublic,
		Birth:                Birth{Year: in.Year, Month: in.Month, Day: in.Day, Hour: hour, Minute: minute, Gender: in.Gender},
		Chart:                chart,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	b.mu.Lock()
	b.characters[ch.ID] = ch
	b.mu.Unlock()

	clone := *ch
	return &clone, nil
}

// Character returns a character the viewer may see. Private characters are
// visible to their creator only.
func (b *Backend) Character(viewerID, id string) (*Character, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ch, ok := b.characters[id]
	if !ok {
		return nil, ErrCharacterNotFound
	}
	if ch.Visibility == domain.VisibilityPrivate && ch.CreatorID != viewerID {
		return nil, ErrPrivate
	}
	clone := *ch
	return &clone, nil
}

// ListOwned returns the creator's characters, newest first.
func (b *Backend) ListOwned(creatorID string, page, pageSize int) Page {
	return b.list(page, pageSize, func(c *Character) bool { return c.CreatorID == creatorID })
}

// ListPublic returns public and synced characters, newest first.
func (b *Backend) ListPublic(page, pageSize int) Page {
	return b.list(page, pageSize, func(c *Character) bool { return c.Visibility != domain.VisibilityPrivate })
}

func (b *Backend) list(page, pageSize int, keep func(*Character) bool) Page {
	b.mu.RLock()
	matched := make([]Character, 0, len(b.characters))
	for _, c := range b.characters {
		if keep(c) {
			matched = append(matched, *c)
		}
	}
	b.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return Page{Characters: matched[start:end], Total: len(matched), Page: page, PageSize: pageSize}
}

// DeleteCharacter removes a character and its conversations. Only the creator may delete.
func (b *Backend) DeleteCharacter(userID, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.characters[id]
	if !ok {
		return ErrCharacterNotFound
	}
	if ch.CreatorID != userID {
		return ErrNotOwner
	}
	delete(b.characters, id)
	for key, conv := range b.conversations {
		if conv.CharacterID == id {
			delete(b.conversations, key)
		}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string(nil), s...)
}
