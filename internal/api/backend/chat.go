package backend

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// historyWindow bounds how many prior exchanges are handed to the replier.
const historyWindow = 20

// Exchange is one user message with the character's reply.
type Exchange struct {
	ID             string
	ConversationID string
	CharacterID    string
	UserID         string
	Message        string
	Response       string
	CreatedAt      time.Time
}

type Conversation struct {
	ID            string
	CharacterID   string
	CharacterName string
	UserID        string
	Exchanges     []Exchange
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func conversationKey(userID, characterID string) string {
	return userID + "/" + characterID
}

// Send records a message to a character and its reply. Private characters
// only talk to their creator.
func (b *Backend) Send(userID, characterID, message string) (*Exchange, error) {
	ch, err := b.Character(userID, characterID)
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	var history []Exchange
	if conv, ok := b.conversations[conversationKey(userID, characterID)]; ok {
		history = append(history, conv.Exchanges...)
	}
	b.mu.RUnlock()
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	response := b.reply(*ch, history, message)
	now := b.now().UTC()

	b.mu.Lock()
	defer b.mu.Unlock()
	stored, ok := b.characters[characterID]
	if !ok {
		// Deleted while the reply was being generated.
		return nil, ErrCharacterNotFound
	}
	key := conversationKey(userID, characterID)
	conv, ok := b.conversations[key]
	if !ok {
		conv = &Conversation{
			ID:          uuid.NewString(),
			CharacterID: characterID,
			UserID:      userID,
			CreatedAt:   now,
		}
		b.conversations[key] = conv
	}
	conv.CharacterName = stored.Name
	ex := Exchange{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		CharacterID:    characterID,
		UserID:         userID,
		Message:        message,
		Response:       response,
		CreatedAt:      now,
	}
	conv.Exchanges = append(conv.Exchanges, ex)
	conv.UpdatedAt = now
	stored.InteractionCount++
	return &ex, nil
}

// Conversation returns the user's conversation with a character. A character
// the user never talked to yields an empty conversation.
func (b *Backend) Conversation(userID, characterID string) Conversation {
	b.mu.RLock()
	defer b.mu.RUnlock()
	conv, ok := b.conversations[conversationKey(userID, characterID)]
	if !ok {
		now := b.now().UTC()
		return Conversation{CharacterID: characterID, UserID: userID, Exchanges: []Exchange{}, CreatedAt: now, UpdatedAt: now}
	}
	clone := *conv
	clone.Exchanges = append([]Exchange{}, conv.Exchanges...)
	return clone
}

// Conversations lists the user's conversations, most recently active first.
func (b *Backend) Conversations(userID string) []Conversation {
	b.mu.RLock()
	out := make([]Conversation, 0)
	for _, conv := range b.conversations {
		if conv.UserID == userID {
			clone := *conv
			clone.Exchanges = nil
			out = append(out, clone)
		}
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}
