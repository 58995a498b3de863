package remote

import (
	"context"
	"net/http"

	"github.com/xwanai/xwan-client/internal/core/domain"
)

// Login calls POST /auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	var out tokenResponse
	err := c.do(ctx, call{
		op:     "login",
		method: http.MethodPost,
		path:   []string{"auth", "login"},
		body:   loginRequest{Email: email, Password: password},
		out:    &out,
		authOp: true,
	})
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{AccessToken: out.AccessToken, UserID: out.UserID}, nil
}

// Register calls POST /auth/register. The service signs the new account in.
func (c *Client) Register(ctx context.Context, email, password, username string) (*domain.AuthResult, error) {
	var out tokenResponse
	err := c.do(ctx, call{
		op:     "register",
		method: http.MethodPost,
		path:   []string{"auth", "register"},
		body:   registerRequest{Email: email, Password: password, Username: username},
		out:    &out,
		authOp: true,
	})
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{AccessToken: out.AccessToken, UserID: out.UserID}, nil
}

// Me calls GET /auth/me with the persisted credential.
func (c *Client) Me(ctx context.Context) (*domain.Identity, error) {
	var out meResponse
	err := c.do(ctx, call{
		op:     "current user",
		method: http.MethodGet,
		path:   []string{"auth", "me"},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	id := out.normalize()
	if err := c.validate.Struct(id); err != nil {
		return nil, &domain.RemoteError{Op: "current user", Status: http.StatusOK, Detail: err.Error(), Kind: domain.ErrMalformedResponse}
	}
	return &domain.Identity{ID: id.ID, Email: id.Email, Username: id.Username}, nil
}
