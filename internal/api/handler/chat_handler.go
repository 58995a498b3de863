package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type ChatHandler struct {
	chat ChatService
}

func NewChatHandler(chat ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Send stores the message and answers with the character's reply once it is generated.
func (h *ChatHandler) Send(c echo.Context) error {
	u, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req sendMessageRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	ex, err := h.chat.Send(u.ID, req.CharacterID, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toChatMessageResponse(*ex))
}

func (h *ChatHandler) Conversation(c echo.Context) error {
	u, err := ctxUser(c)
	if err != nil {
		return err
	}
	conv := h.chat.Conversation(u.ID, c.Param("characterId"))
	resp := conversationResponse{
		ID:          conv.ID,
		CharacterID: conv.CharacterID,
		UserID:      conv.UserID,
		Messages:    make([]chatMessageResponse, 0, len(conv.Exchanges)),
		CreatedAt:   isoTime(conv.CreatedAt),
		UpdatedAt:   isoTime(conv.UpdatedAt),
	}
	for _, ex := range conv.Exchanges {
		resp.Messages = append(resp.Messages, toChatMessageResponse(ex))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) MyConversations(c echo.Context) error {
	u, err := ctxUser(c)
	if err != nil {
		return err
	}
	convs := h.chat.Conversations(u.ID)
	resp := conversationListResponse{Conversations: make([]conversationSummary, 0, len(convs))}
	for _, conv := range convs {
		s := conversationSummary{
			ID:          conv.ID,
			CharacterID: conv.CharacterID,
			UserID:      conv.UserID,
			CreatedAt:   isoTime(conv.CreatedAt),
			UpdatedAt:   isoTime(conv.UpdatedAt),
		}
		s.Characters.CharacterName = conv.CharacterName
		resp.Conversations = append(resp.Conversations, s)
	}
	return c.JSON(http.StatusOK, resp)
}
