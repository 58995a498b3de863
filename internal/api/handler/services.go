package handler

import "github.com/xwanai/xwan-client/internal/api/backend"

// The handlers depend on these narrow views of the backend.

type AccountService interface {
	Register(email, password, username string) (string, *backend.User, error)
	Login(email, password string) (string, *backend.User, error)
}

type CharacterService interface {
	CreateCharacter(creatorID string, in backend.NewCharacter) (*backend.Character, error)
	Character(viewerID, id string) (*backend.Character, error)
	ListOwned(creatorID string, page, pageSize int) backend.Page
	ListPublic(page, pageSize int) backend.Page
	DeleteCharacter(userID, id string) error
}

type ChatService interface {
	Send(userID, characterID, message string) (*backend.Exchange, error)
	Conversation(userID, characterID string) backend.Conversation
	Conversations(userID string) []backend.Conversation
}

type ProfileService interface {
	CreateProfile(userID string, birth backend.Birth) (*backend.Profile, error)
	Profile(userID string) (*backend.Profile, error)
	DeleteProfile(userID string)
}
