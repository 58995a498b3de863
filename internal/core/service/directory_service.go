package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/xwanai/xwan-client/internal/core/domain"
	"github.com/xwanai/xwan-client/internal/core/ports"
	"github.com/xwanai/xwan-client/internal/metrics"
)

const (
	// DefaultOwnedPageSize is the size of the owned listing when none is configured.
	DefaultOwnedPageSize = 20
	// DefaultPublicPageSize is the gallery page size used when the caller has none.
	// It matches the XWAN_PUBLIC_PAGE_SIZE default in internal/pkg/config.
	DefaultPublicPageSize = 12
	maxPageSize           = 100
)

// DirectoryService keeps the owned and public character listings a view is showing.
type DirectoryService struct {
	gateway       ports.CharacterGateway
	session       ports.SessionGuard
	ownedPageSize int
	log           zerolog.Logger

	mu     sync.Mutex
	owned  *domain.CharacterPage
	public *domain.CharacterPage
}

// NewDirectoryService returns a DirectoryService. ownedPageSize <= 0 selects DefaultOwnedPageSize.
func NewDirectoryService(gateway ports.CharacterGateway, session ports.SessionGuard, ownedPageSize int, log zerolog.Logger) *DirectoryService {
	if ownedPageSize <= 0 || ownedPageSize > maxPageSize {
		ownedPageSize = DefaultOwnedPageSize
	}
	return &DirectoryService{gateway: gateway, session: session, ownedPageSize: ownedPageSize, log: log}
}

// ListOwned fetches the first page of the user's own characters.
func (s *DirectoryService) ListOwned(ctx context.Context) (domain.CharacterPage, error) {
	if !s.session.IsAuthenticated() {
		return domain.CharacterPage{}, domain.ErrNotAuthenticated
	}

	page, err := s.gateway.ListOwned(ctx, ports.ListCharactersFilter{Page: 1, PageSize: s.ownedPageSize})
	if err != nil {
		expireOnRejection(ctx, s.session, err)
		s.log.Warn().Err(err).Msg("failed to list owned characters")
		return domain.CharacterPage{}, fmt.Errorf("list owned characters: %w", err)
	}

	s.mu.Lock()
	s.owned = clonePage(page)
	s.mu.Unlock()
	return *clonePage(page), nil
}

// ListPublic fetches one page of the public gallery. page is 1-based.
func (s *DirectoryService) ListPublic(ctx context.Context, page, pageSize int) (domain.CharacterPage, error) {
	if err := checkVar("page", page, "gte=1"); err != nil {
		return domain.CharacterPage{}, err
	}
	if err := checkVar("page_size", pageSize, fmt.Sprintf("gte=1,lte=%d", maxPageSize)); err != nil {
		return domain.CharacterPage{}, err
	}

	res, err := s.gateway.ListPublic(ctx, ports.ListCharactersFilter{Page: page, PageSize: pageSize})
	if err != nil {
		s.log.Warn().Err(err).Int("page", page).Msg("failed to list public characters")
		return domain.CharacterPage{}, fmt.Errorf("list public characters: %w", err)
	}

	s.mu.Lock()
	s.public = clonePage(res)
	s.mu.Unlock()
	return *clonePage(res), nil
}

// Get fetches one character with its full profile.
func (s *DirectoryService) Get(ctx context.Context, id string) (*domain.Character, error) {
	if err := checkVar("character_id", id, "required"); err != nil {
		return nil, err
	}
	ch, err := s.gateway.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get character: %w", err)
	}
	return ch, nil
}

// Create asks the remote service to create a character. Listings are not touched;
// reload them to see the new entry.
func (s *DirectoryService) Create(ctx context.Context, input ports.CreateCharacterInput) (*domain.Character, error) {
	if err := checkStruct(input); err != nil {
		return nil, err
	}
	if !s.session.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	ch, err := s.gateway.Create(ctx, input)
	if err != nil {
		expireOnRejection(ctx, s.session, err)
		s.log.Warn().Err(err).Str("name", input.Name).Msg("failed to create character")
		return nil, fmt.Errorf("create character: %w", err)
	}
	s.log.Info().Str("character_id", ch.ID).Msg("character created")
	return ch, nil
}

// Delete removes a character. The caller is expected to have confirmed the
// action. Local listings change only after the remote service acknowledges it.
func (s *DirectoryService) Delete(ctx context.Context, id string) error {
	if err := checkVar("character_id", id, "required"); err != nil {
		return err
	}
	if !s.session.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}

	if err := s.gateway.Delete(ctx, id); err != nil {
		expireOnRejection(ctx, s.session, err)
		s.log.Warn().Err(err).Str("character_id", id).Msg("failed to delete character")
		return fmt.Errorf("delete character: %w", err)
	}

	s.mu.Lock()
	removeFromPage(s.owned, id)
	removeFromPage(s.public, id)
	s.mu.Unlock()

	metrics.CharactersDeletedTotal.Inc()
	s.log.Info().Str("character_id", id).Msg("character deleted")
	return nil
}

// Owned returns the last loaded page of owned characters.
func (s *DirectoryService) Owned() (domain.CharacterPage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owned == nil {
		return domain.CharacterPage{}, false
	}
	return *clonePage(s.owned), true
}

// Public returns the last loaded page of the public gallery.
func (s *DirectoryService) Public() (domain.CharacterPage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.public == nil {
		return domain.CharacterPage{}, false
	}
	return *clonePage(s.public), true
}

func clonePage(p *domain.CharacterPage) *domain.CharacterPage {
	clone := *p
	clone.Characters = make([]domain.Character, len(p.Characters))
	copy(clone.Characters, p.Characters)
	return &clone
}

func removeFromPage(p *domain.CharacterPage, id string) {
	if p == nil {
		return
	}
	for i, c := range p.Characters {
		if c.ID == id {
			p.Characters = append(p.Characters[:i:i], p.Characters[i+1:]...)
			if p.Total > 0 {
				p.Total--
			}
			return
		}
	}
}
