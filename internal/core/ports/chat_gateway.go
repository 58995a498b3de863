package ports

import (
	"context"

	"github.com/xwanai/xwan-client/internal/core/domain"
)

// ChatGateway is the remote side of a conversation.
type ChatGateway interface {
	// Conversation returns the full history with a character, oldest first.
	Conversation(ctx context.Context, characterID string) ([]domain.Message, error)
	// Send submits text and blocks until the character's reply has been generated.
	Send(ctx context.Context, characterID, text string) (*domain.Message, error)
	Conversations(ctx context.Context) ([]domain.ConversationSummary, error)
}
