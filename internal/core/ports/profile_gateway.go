package ports

import (
	"context"

	"github.com/xwanai/xwan-client/internal/core/domain"
)

// CreateProfileInput carries the user's birth data.
type CreateProfileInput struct {
	BirthYear        int           `validate:"gte=1900,lte=2100"`
	BirthMonth       int           `validate:"gte=1,lte=12"`
	BirthDay         int           `validate:"gte=1,lte=31"`
	BirthHour        int           `validate:"gte=0,lte=23"`
	BirthMinute      int           `validate:"gte=0,lte=59"`
	Gender           domain.Gender `validate:"required,oneof=male female other"`
	BirthLocation    string
	Longitude        *float64 `validate:"omitempty,gte=-180,lte=180"`
	Latitude         *float64 `validate:"omitempty,gte=-90,lte=90"`
	UseTrueSolarTime bool
}

// ProfileGateway is the remote side of the user's BaZi profile.
type ProfileGateway interface {
	CreateProfile(ctx context.Context, input CreateProfileInput) (*domain.BaZiProfile, error)
	MyProfile(ctx context.Context) (*domain.BaZiProfile, error)
	DeleteProfile(ctx context.Context) error
}
