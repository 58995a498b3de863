package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xwanai/xwan-client/internal/api/backend"
	"github.com/xwanai/xwan-client/internal/core/domain"
)

const defaultPageSize = 20

type CharacterHandler struct {
	characters CharacterService
}

func NewCharacterHandler(characters CharacterService) *CharacterHandler {
	return &CharacterHandler{characters: characters}
}

func (h *CharacterHandler) Create(c echo.Context) error {
	u, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req createCharacterRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	ch, err := h.characters.CreateCharacter(u.ID, backend.NewCharacter{
		Name:              req.CharacterName,
		Mode:              domain.CreationMode(req.CreationMode),
		Description:       req.Description,
		GreetingMessage:   req.GreetingMessage,
		PersonalityTraits: req.PersonalityTraits,
		Tags:              req.Tags,
		Visibility:        domain.Visibility(req.VisibilityStatus),
		Year:              req.BirthYear,
		Month:             req.BirthMonth,
		Day:               req.BirthDay,
		Hour:              req.BirthHour,
		Minute:            req.BirthMinute,
		Gender:            domain.Gender(req.Gender),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCharacterResponse(ch))
}

func (h *CharacterHandler) ListOwned(c echo.Context) error {
	u, err := ctxUser(c)
	if err != nil {
		return err
	}
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(h.characters.ListOwned(u.ID, page, size)))
}

// ListPublic does not require authentication.
func (h *CharacterHandler) ListPublic(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(h.characters.ListPublic(page, size)))
}

// Get serves public characters to anyone and private ones to their creator.
func (h *CharacterHandler) Get(c echo.Context) error {
	viewer := ""
	if u, err := ctxUser(c); err == nil {
		viewer = u.ID
	}
	ch, err := h.characters.Character(viewer, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCharacterResponse(ch))
}

func (h *CharacterHandler) Delete(c echo.Context) error {
	u, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.characters.DeleteCharacter(u.ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Character deleted successfully"})
}

func pageParams(c echo.Context) (page, size int, err error) {
	page, size = 1, defaultPageSize
	if err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("page_size", &size).
		BindError(); err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "page and page_size must be integers")
	}
	if page < 1 {
		return 0, 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "page: ensure this value is greater than or equal to 1")
	}
	if size < 1 || size > 100 {
		return 0, 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "page_size: ensure this value is between 1 and 100")
	}
	return page, size, nil
}

func toListResponse(p backend.Page) characterListResponse {
	out := characterListResponse{
		Characters: make([]characterResponse, 0, len(p.Characters)),
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
	}
	for i := range p.Characters {
		out.Characters = append(out.Characters, toCharacterResponse(&p.Characters[i]))
	}
	return out
}
