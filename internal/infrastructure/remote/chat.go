package remote

import (
	"context"
	"net/http"

	"github.com/xwanai/xwan-client/internal/core/domain"
)

// Conversation calls GET /chat/conversation/{characterID}. A character the
// user never talked to yields an empty history.
func (c *Client) Conversation(ctx context.Context, characterID string) ([]domain.Message, error) {
	var out conversationResponse
	err := c.do(ctx, call{
		op:     "load conversation",
		method: http.MethodGet,
		path:   []string{"chat", "conversation", characterID},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	msgs := make([]domain.Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		msgs = append(msgs, toMessage(m))
	}
	return msgs, nil
}

// Send calls POST /chat/send and returns the persisted exchange.
func (c *Client) Send(ctx context.Context, characterID, text string) (*domain.Message, error) {
	var out chatMessageResponse
	err := c.do(ctx, call{
		op:     "send message",
		method: http.MethodPost,
		path:   []string{"chat", "send"},
		body:   sendMessageRequest{CharacterID: characterID, Message: text},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	msg := toMessage(out)
	return &msg, nil
}

// Conversations calls GET /chat/my-conversations.
func (c *Client) Conversations(ctx context.Context) ([]domain.ConversationSummary, error) {
	var out conversationListResponse
	err := c.do(ctx, call{
		op:     "list conversations",
		method: http.MethodGet,
		path:   []string{"chat", "my-conversations"},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	list := make([]domain.ConversationSummary, 0, len(out.Conversations))
	for _, v := range out.Conversations {
		s := domain.ConversationSummary{ID: v.ID, CharacterID: v.CharacterID, UpdatedAt: v.UpdatedAt.Time}
		if v.Characters != nil {
			s.CharacterName = v.Characters.CharacterName
		}
		list = append(list, s)
	}
	return list, nil
}
