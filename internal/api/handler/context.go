package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xwanai/xwan-client/internal/api/backend"
)

// Context keys set by the Auth middleware.
const (
	CtxUser   = "user"
	CtxUserID = "user_id"
)

// ctxUser returns the user injected by the Auth middleware.
func ctxUser(c echo.Context) (*backend.User, error) {
	u, _ := c.Get(CtxUser).(*backend.User)
	if u == nil || u.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
	}
	return u, nil
}

// bindValid decodes the JSON body into req and validates it. Both failures
// answer 422 like the hosted service.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
