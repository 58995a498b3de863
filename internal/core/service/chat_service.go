package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xwanai/xwan-client/internal/core/domain"
	"github.com/xwanai/xwan-client/internal/core/ports"
	"github.com/xwanai/xwan-client/internal/metrics"
)

// ChatService hands out one ChatController per chat view and serves the
// cross-conversation listing.
type ChatService struct {
	gateway ports.ChatGateway
	session ports.SessionGuard
	log     zerolog.Logger
}

// NewChatService returns a ChatService.
func NewChatService(gateway ports.ChatGateway, session ports.SessionGuard, log zerolog.Logger) *ChatService {
	return &ChatService{gateway: gateway, session: session, log: log}
}

// Open starts a new chat view. Close the returned controller when the view goes away.
func (s *ChatService) Open() *ChatController {
	viewCtx, cancel := context.WithCancel(context.Background())
	return &ChatController{
		gateway: s.gateway,
		session: s.session,
		log:     s.log,
		now:     time.Now,
		viewCtx: viewCtx,
		cancel:  cancel,
	}
}

// Conversations lists the user's conversations, most recently active first.
func (s *ChatService) Conversations(ctx context.Context) ([]domain.ConversationSummary, error) {
	if !s.session.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	list, err := s.gateway.Conversations(ctx)
	if err != nil {
		expireOnRejection(ctx, s.session, err)
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return list, nil
}

// ChatController holds the state of one chat view: the conversation with a
// single character, the composition draft and at most one in-flight send.
//
// Replies are appended only after the remote service acknowledges them. Results
// that arrive after Close, or after another character was loaded, are discarded.
type ChatController struct {
	gateway ports.ChatGateway
	session ports.SessionGuard
	log     zerolog.Logger
	now     func() time.Time

	viewCtx context.Context
	cancel  context.CancelFunc

	mu          sync.Mutex
	closed      bool
	generation  uint64
	characterID string
	messages    []domain.Message
	draft       string
	inflight    *domain.PendingSend
	last        *domain.PendingSend
}

// LoadConversation fetches the full history with characterID and replaces the
// local conversation with it. The session must already be authenticated.
func (c *ChatController) LoadConversation(ctx context.Context, characterID string) error {
	if err := checkVar("character_id", characterID, "required"); err != nil {
		return err
	}
	if !c.session.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrViewClosed
	}
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	callCtx, done := c.bind(ctx)
	msgs, err := c.gateway.Conversation(callCtx, characterID)
	done()

	if err != nil {
		expireOnRejection(ctx, c.session, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		c.log.Debug().Str("character_id", characterID).Msg("conversation load superseded, result dropped")
		return domain.ErrViewClosed
	}
	if err != nil {
		c.log.Warn().Err(err).Str("character_id", characterID).Msg("failed to load conversation")
		return fmt.Errorf("load conversation: %w", err)
	}

	if c.characterID != characterID {
		c.draft = ""
	}
	c.characterID = characterID
	c.messages = append(make([]domain.Message, 0, len(msgs)+8), msgs...)
	c.log.Debug().Str("character_id", characterID).Int("messages", len(msgs)).Msg("conversation loaded")
	return nil
}

// SendMessage submits text to the loaded conversation. The draft is cleared at
// once; the exchange is appended only when the reply arrives. On failure the
// draft is restored to text and the conversation is left as it was.
func (c *ChatController) SendMessage(ctx context.Context, characterID, text string) (domain.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.Message{}, domain.ErrEmptyMessage
	}
	if utf8.RuneCountInString(trimmed) > domain.MaxMessageLength {
		return domain.Message{}, domain.ErrMessageTooLong
	}
	if !c.session.IsAuthenticated() {
		return domain.Message{}, domain.ErrNotAuthenticated
	}

	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return domain.Message{}, domain.ErrViewClosed
	case c.characterID == "" || c.characterID != characterID:
		c.mu.Unlock()
		return domain.Message{}, domain.ErrConversationMismatch
	case c.inflight != nil:
		c.mu.Unlock()
		return domain.Message{}, domain.ErrSendInFlight
	}
	pending := &domain.PendingSend{
		ID:          uuid.NewString(),
		CharacterID: characterID,
		Text:        text,
		State:       domain.SendPending,
		StartedAt:   c.now(),
	}
	c.inflight = pending
	c.draft = ""
	gen := c.generation
	c.mu.Unlock()

	callCtx, done := c.bind(ctx)
	msg, err := c.gateway.Send(callCtx, characterID, trimmed)
	done()

	if err != nil {
		expireOnRejection(ctx, c.session, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight == pending {
		c.inflight = nil
	}

	if c.closed || gen != c.generation {
		c.resolve(pending, domain.SendDiscarded, err)
		c.log.Debug().Str("send_id", pending.ID).Msg("reply arrived after view change, discarded")
		return domain.Message{}, domain.ErrViewClosed
	}
	if err != nil {
		c.resolve(pending, domain.SendRolledBack, err)
		c.draft = text
		c.log.Warn().Err(err).Str("send_id", pending.ID).Str("character_id", characterID).Msg("send failed, draft restored")
		return domain.Message{}, fmt.Errorf("send message: %w", err)
	}

	c.messages = append(c.messages, *msg)
	c.resolve(pending, domain.SendCommitted, nil)
	c.log.Debug().Str("send_id", pending.ID).Str("message_id", msg.ID).Msg("message committed")
	return *msg, nil
}

// Close marks the view as gone and cancels anything still in flight.
func (c *ChatController) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}

// Messages returns a copy of the conversation, oldest first.
func (c *ChatController) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// CharacterID returns the character whose conversation is loaded.
func (c *ChatController) CharacterID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.characterID
}

// Draft returns the composition field.
func (c *ChatController) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft replaces the composition field.
func (c *ChatController) SetDraft(text string) {
	c.mu.Lock()
	c.draft = text
	c.mu.Unlock()
}

// Sending reports whether a send is in flight; submission should be disabled meanwhile.
func (c *ChatController) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight != nil
}

// Pending returns the in-flight send, if any.
func (c *ChatController) Pending() (domain.PendingSend, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight == nil {
		return domain.PendingSend{}, false
	}
	return *c.inflight, true
}

// LastSend returns the most recently resolved send, if any.
func (c *ChatController) LastSend() (domain.PendingSend, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return domain.PendingSend{}, false
	}
	return *c.last, true
}

// resolve moves a pending send to its terminal state. Callers hold c.mu.
func (c *ChatController) resolve(p *domain.PendingSend, state domain.SendState, err error) {
	if !p.State.CanTransitionTo(state) {
		return
	}
	p.State = state
	p.Err = err
	c.last = p
	metrics.MessageSendsTotal.WithLabelValues(string(state)).Inc()
}

// bind derives a call context that also ends when the view is closed.
func (c *ChatController) bind(ctx context.Context) (context.Context, func()) {
	callCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.viewCtx, cancel)
	return callCtx, func() {
		stop()
		cancel()
	}
}

// expireOnRejection ends the session when the remote service rejected the credential.
func expireOnRejection(ctx context.Context, guard ports.SessionGuard, err error) {
	if errors.Is(err, domain.ErrSessionExpired) {
		guard.Expire(context.WithoutCancel(ctx))
	}
}
