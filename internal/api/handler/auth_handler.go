package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	accounts AccountService
}

func NewAuthHandler(accounts AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register creates an account and signs it in.
//
//	POST /api/auth/register  →  201 {"access_token", "token_type", "user_id"}
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	token, user, err := h.accounts.Register(req.Email, req.Password, req.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tokenResponse{AccessToken: token, TokenType: "bearer", UserID: user.ID})
}

// Login exchanges credentials for a bearer token.
//
//	POST /api/auth/login  →  200 {"access_token", "token_type", "user_id"}
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	token, user, err := h.accounts.Login(req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", UserID: user.ID})
}

// Logout acknowledges the request. Tokens are stateless and stay valid until they expire.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// Me returns the identity behind the bearer token.
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{ID: u.ID, Email: u.Email, Username: u.Username})
}
