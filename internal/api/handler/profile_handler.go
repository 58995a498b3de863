package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xwanai/xwan-client/internal/api/backend"
	"github.com/xwanai/xwan-client/internal/core/domain"
)

type ProfileHandler struct {
	profiles ProfileService
}

func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Create(c echo.Context) error {
	u, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req createProfileRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	p, err := h.profiles.CreateProfile(u.ID, backend.Birth{
		Year:      req.BirthYear,
		Month:     req.BirthMonth,
		Day:       req.BirthDay,
		Hour:      req.BirthHour,
		Minute:    req.BirthMinute,
		Gender:    domain.Gender(req.Gender),
		Location:  req.BirthLocation,
		Longitude: req.Longitude,
		Latitude:  req.Latitude,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toProfileResponse(p))
}

func (h *ProfileHandler) Mine(c echo.Context) error {
	u, err := ctxUser(c)
	if err != nil {
		return err
	}
	p, err := h.profiles.Profile(u.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}

func (h *ProfileHandler) Delete(c echo.Context) error {
	u, err := ctxUser(c)
	if err != nil {
		return err
	}
	h.profiles.DeleteProfile(u.ID)
	return c.JSON(http.StatusOK, messageResponse{Message: "BaZi profile deleted successfully"})
}
