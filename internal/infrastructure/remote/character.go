package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/xwanai/xwan-client/internal/core/domain"
	"github.com/xwanai/xwan-client/internal/core/ports"
)

func pageQuery(f ports.ListCharactersFilter) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("page_size", strconv.Itoa(f.PageSize))
	return q
}

// ListOwned calls GET /character/my-characters.
func (c *Client) ListOwned(ctx context.Context, f ports.ListCharactersFilter) (*domain.CharacterPage, error) {
	var out characterListResponse
	err := c.do(ctx, call{
		op:     "list owned characters",
		method: http.MethodGet,
		path:   []string{"character", "my-characters"},
		query:  pageQuery(f),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return toCharacterPage(out, f), nil
}

// ListPublic calls GET /character/public.
func (c *Client) ListPublic(ctx context.Context, f ports.ListCharactersFilter) (*domain.CharacterPage, error) {
	var out characterListResponse
	err := c.do(ctx, call{
		op:     "list public characters",
		method: http.MethodGet,
		path:   []string{"character", "public"},
		query:  pageQuery(f),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return toCharacterPage(out, f), nil
}

// Get calls GET /character/{id}.
func (c *Client) Get(ctx context.Context, id string) (*domain.Character, error) {
	var out characterResponse
	err := c.do(ctx, call{
		op:     "get character",
		method: http.MethodGet,
		path:   []string{"character", id},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	ch := toCharacter(out)
	return &ch, nil
}

// Create calls POST /character/create.
func (c *Client) Create(ctx context.Context, in ports.CreateCharacterInput) (*domain.Character, error) {
	var out characterResponse
	err := c.do(ctx, call{
		op:     "create character",
		method: http.MethodPost,
		path:   []string{"character", "create"},
		body:   toCreateCharacterRequest(in),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	ch := toCharacter(out)
	return &ch, nil
}

// Delete calls DELETE /character/{id}. Any 2xx is an acknowledgement.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, call{
		op:     "delete character",
		method: http.MethodDelete,
		path:   []string{"character", id},
	})
}
