package domain

import "time"

// Message bundles one user utterance with the character's reply.
type Message struct {
	ID           string    `json:"id"`
	UserText     string    `json:"user_text"`
	ResponseText string    `json:"response_text"`
	CreatedAt    time.Time `json:"created_at"`
}

// ConversationSummary describes one of the user's conversations.
type ConversationSummary struct {
	ID            string    `json:"id"`
	CharacterID   string    `json:"character_id"`
	CharacterName string    `json:"character_name,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SendState is the phase of an in-flight message send.
type SendState string

const (
	SendPending    SendState = "pending"
	SendCommitted  SendState = "committed"
	SendRolledBack SendState = "rolled_back"
	// SendDiscarded marks a send whose view went away before the reply arrived.
	SendDiscarded SendState = "discarded"
)

// validSendTransitions mirrors the two-phase send: pending resolves exactly once.
var validSendTransitions = map[SendState][]SendState{
	SendPending: {SendCommitted, SendRolledBack, SendDiscarded},
}

// CanTransitionTo reports whether a send may move from s to next.
func (s SendState) CanTransitionTo(next SendState) bool {
	for _, allowed := range validSendTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the send has resolved.
func (s SendState) Terminal() bool {
	return s != SendPending
}

// PendingSend tracks one message from submission until it is committed or rolled back.
type PendingSend struct {
	ID          string
	CharacterID string
	Text        string
	State       SendState
	StartedAt   time.Time
	Err         error
}
