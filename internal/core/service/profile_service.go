package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xwanai/xwan-client/internal/core/domain"
	"github.com/xwanai/xwan-client/internal/core/ports"
)

// ProfileService manages the user's own BaZi profile.
type ProfileService struct {
	gateway ports.ProfileGateway
	session ports.SessionGuard
	log     zerolog.Logger
}

func NewProfileService(gateway ports.ProfileGateway, session ports.SessionGuard, log zerolog.Logger) *ProfileService {
	return &ProfileService{gateway: gateway, session: session, log: log}
}

func (s *ProfileService) Create(ctx context.Context, input ports.CreateProfileInput) (*domain.BaZiProfile, error) {
	if err := checkStruct(input); err != nil {
		return nil, err
	}
	if !s.session.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	p, err := s.gateway.CreateProfile(ctx, input)
	if err != nil {
		expireOnRejection(ctx, s.session, err)
		return nil, fmt.Errorf("create profile: %w", err)
	}
	s.log.Info().Str("bazi", p.BaziString).Msg("bazi profile created")
	return p, nil
}

func (s *ProfileService) Mine(ctx context.Context) (*domain.BaZiProfile, error) {
	if !s.session.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	p, err := s.gateway.MyProfile(ctx)
	if err != nil {
		expireOnRejection(ctx, s.session, err)
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) Delete(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}
	if err := s.gateway.DeleteProfile(ctx); err != nil {
		expireOnRejection(ctx, s.session, err)
		return fmt.Errorf("delete profile: %w", err)
	}
	s.log.Info().Msg("bazi profile deleted")
	return nil
}
