package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/xwanai/xwan-client/internal/core/domain"
	"github.com/xwanai/xwan-client/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Credential store
// ---------------------------------------------------------------------------

type stubStore struct {
	mu      sync.Mutex
	token   string
	saveErr error
	loadErr error
	loads   int
}

func (s *stubStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return "", s.loadErr
	}
	return s.token, nil
}

func (s *stubStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	return nil
}

func (s *stubStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

func (s *stubStore) stored() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// ---------------------------------------------------------------------------
// Auth gateway
// ---------------------------------------------------------------------------

type stubAuthGateway struct {
	mu         sync.Mutex
	calls      int
	loginFn    func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	registerFn func(ctx context.Context, email, password, username string) (*domain.AuthResult, error)
	meFn       func(ctx context.Context) (*domain.Identity, error)
}

func (g *stubAuthGateway) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func (g *stubAuthGateway) inc() {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
}

func (g *stubAuthGateway) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	g.inc()
	return g.loginFn(ctx, email, password)
}

func (g *stubAuthGateway) Register(ctx context.Context, email, password, username string) (*domain.AuthResult, error) {
	g.inc()
	return g.registerFn(ctx, email, password, username)
}

func (g *stubAuthGateway) Me(ctx context.Context) (*domain.Identity, error) {
	g.inc()
	return g.meFn(ctx)
}

// ---------------------------------------------------------------------------
// Session guard
// ---------------------------------------------------------------------------

type stubGuard struct {
	mu            sync.Mutex
	authenticated bool
	expired       int
}

func (g *stubGuard) IsAuthenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authenticated
}

func (g *stubGuard) Expire(_ context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.authenticated = false
	g.expired++
}

func (g *stubGuard) expiredCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.expired
}

// ---------------------------------------------------------------------------
// Chat gateway
// ---------------------------------------------------------------------------

type stubChatGateway struct {
	mu              sync.Mutex
	sends           int
	loads           int
	conversationFn  func(ctx context.Context, characterID string) ([]domain.Message, error)
	sendFn          func(ctx context.Context, characterID, text string) (*domain.Message, error)
	conversationsFn func(ctx context.Context) ([]domain.ConversationSummary, error)
}

func (g *stubChatGateway) Conversation(ctx context.Context, characterID string) ([]domain.Message, error) {
	g.mu.Lock()
	g.loads++
	g.mu.Unlock()
	return g.conversationFn(ctx, characterID)
}

func (g *stubChatGateway) Send(ctx context.Context, characterID, text string) (*domain.Message, error) {
	g.mu.Lock()
	g.sends++
	g.mu.Unlock()
	return g.sendFn(ctx, characterID, text)
}

func (g *stubChatGateway) Conversations(ctx context.Context) ([]domain.ConversationSummary, error) {
	return g.conversationsFn(ctx)
}

func (g *stubChatGateway) sendCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sends
}

func (g *stubChatGateway) loadCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loads
}

// ---------------------------------------------------------------------------
// Character gateway
// ---------------------------------------------------------------------------

type stubCharacterGateway struct {
	owned      []domain.Character
	public     []domain.Character
	deleteErr  error
	createErr  error
	lastFilter ports.ListCharactersFilter
	deleted    []string
}

func paginate(all []domain.Character, f ports.ListCharactersFilter) *domain.CharacterPage {
	skip := (f.Page - 1) * f.PageSize
	if skip > len(all) {
		skip = len(all)
	}
	end := skip + f.PageSize
	if end > len(all) {
		end = len(all)
	}
	items := make([]domain.Character, end-skip)
	copy(items, all[skip:end])
	return &domain.CharacterPage{Characters: items, Total: len(all), Page: f.Page, PageSize: f.PageSize}
}

func (g *stubCharacterGateway) ListOwned(_ context.Context, f ports.ListCharactersFilter) (*domain.CharacterPage, error) {
	g.lastFilter = f
	return paginate(g.owned, f), nil
}

func (g *stubCharacterGateway) ListPublic(_ context.Context, f ports.ListCharactersFilter) (*domain.CharacterPage, error) {
	g.lastFilter = f
	return paginate(g.public, f), nil
}

func (g *stubCharacterGateway) Get(_ context.Context, id string) (*domain.Character, error) {
	for _, c := range append(g.owned, g.public...) {
		if c.ID == id {
			clone := c
			return &clone, nil
		}
	}
	return nil, &domain.RemoteError{Op: "get character", Status: 404, Detail: "Character not found", Kind: domain.ErrNotFound}
}

func (g *stubCharacterGateway) Create(_ context.Context, in ports.CreateCharacterInput) (*domain.Character, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	c := domain.Character{ID: "new-" + in.Name, Name: in.Name, Visibility: in.Visibility}
	g.owned = append(g.owned, c)
	return &c, nil
}

func (g *stubCharacterGateway) Delete(_ context.Context, id string) error {
	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.deleted = append(g.deleted, id)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func characters(ids ...string) []domain.Character {
	out := make([]domain.Character, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Character{ID: id, Name: "name-" + id, Visibility: domain.VisibilityPublic})
	}
	return out
}
