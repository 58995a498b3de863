package remote

import (
	"context"
	"net/http"

	"github.com/xwanai/xwan-client/internal/core/domain"
	"github.com/xwanai/xwan-client/internal/core/ports"
)

func (c *Client) CreateProfile(ctx context.Context, in ports.CreateProfileInput) (*domain.BaZiProfile, error) {
	var out profileResponse
	err := c.do(ctx, call{
		op:     "create profile",
		method: http.MethodPost,
		path:   []string{"profile", "bazi"},
		body:   toCreateProfileRequest(in),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return c.checkProfile("create profile", out)
}

func (c *Client) MyProfile(ctx context.Context) (*domain.BaZiProfile, error) {
	var out profileResponse
	err := c.do(ctx, call{
		op:     "get profile",
		method: http.MethodGet,
		path:   []string{"profile", "bazi", "me"},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return c.checkProfile("get profile", out)
}

func (c *Client) DeleteProfile(ctx context.Context) error {
	return c.do(ctx, call{
		op:     "delete profile",
		method: http.MethodDelete,
		path:   []string{"profile", "bazi", "me"},
	})
}

func (c *Client) checkProfile(op string, out profileResponse) (*domain.BaZiProfile, error) {
	if err := c.validate.Var(out.ID, "required"); err != nil {
		return nil, &domain.RemoteError{Op: op, Status: http.StatusOK, Detail: "profile id missing", Kind: domain.ErrMalformedResponse}
	}
	return toProfile(out), nil
}
