package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xwanai/xwan-client/internal/api/backend"
	"github.com/xwanai/xwan-client/internal/api/handler"
)

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(token string) (*backend.User, error)
}

// Auth validates the bearer token and injects the user into the context.
func Auth(authn Authenticator) echo.MiddlewareFunc {
	return auth(authn, false)
}

// OptionalAuth injects the user when a valid bearer token is present and
// lets anonymous requests through otherwise.
func OptionalAuth(authn Authenticator) echo.MiddlewareFunc {
	return auth(authn, true)
}

func auth(authn Authenticator, optional bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				if optional {
					return next(c)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				if optional {
					return next(c)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			u, err := authn.Authenticate(parts[1])
			if err != nil {
				if optional {
					return next(c)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
			}

			c.Set(handler.CtxUser, u)
			c.Set(handler.CtxUserID, u.ID)
			return next(c)
		}
	}
}
