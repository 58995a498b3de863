package ports

import (
	"context"

	"github.com/xwanai/xwan-client/internal/core/domain"
)

// ListCharactersFilter selects one page of a character listing.
type ListCharactersFilter struct {
	Page     int // 1-based
	PageSize int
}

// CreateCharacterInput carries everything needed to create a character.
type CreateCharacterInput struct {
	Name              string              `validate:"required,min=1,max=100"`
	Mode              domain.CreationMode `validate:"required,oneof=real_person original concept virtual_ip"`
	Description       string              `validate:"max=2000"`
	BirthYear         int                 `validate:"gte=1900,lte=2100"`
	BirthMonth        int                 `validate:"gte=1,lte=12"`
	BirthDay          int                 `validate:"gte=1,lte=31"`
	BirthHour         *int                `validate:"omitempty,gte=0,lte=23"`
	BirthMinute       *int                `validate:"omitempty,gte=0,lte=59"`
	Gender            domain.Gender       `validate:"omitempty,oneof=male female other"`
	GreetingMessage   string              `validate:"max=500"`
	PersonalityTraits []string
	Tags              []string
	Visibility        domain.Visibility `validate:"omitempty,oneof=private public synced"`
}

// CharacterGateway is the remote side of the character directory.
type CharacterGateway interface {
	ListOwned(ctx context.Context, filter ListCharactersFilter) (*domain.CharacterPage, error)
	ListPublic(ctx context.Context, filter ListCharactersFilter) (*domain.CharacterPage, error)
	Get(ctx context.Context, id string) (*domain.Character, error)
	Create(ctx context.Context, input CreateCharacterInput) (*domain.Character, error)
	Delete(ctx context.Context, id string) error
}
