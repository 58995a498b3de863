// Package remote is the gateway to the XwanAI HTTP API. It translates between
// the wire schemas and domain types and maps HTTP failures onto domain errors.
// It holds no business state.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xwanai/xwan-client/internal/core/domain"
	"github.com/xwanai/xwan-client/internal/core/ports"
	"github.com/xwanai/xwan-client/internal/metrics"
)

const (
	DefaultBaseURL = "http://localhost:8000/api"
	DefaultTimeout = 60 * time.Second

	maxBodyBytes = 4 << 20
)

var (
	_ ports.AuthGateway      = (*Client)(nil)
	_ ports.CharacterGateway = (*Client)(nil)
	_ ports.ChatGateway      = (*Client)(nil)
	_ ports.ProfileGateway   = (*Client)(nil)
)

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout bounds each call. Chat replies are generated synchronously, so keep it generous.
	Timeout   time.Duration
	Store     ports.CredentialStore
	Transport http.RoundTripper
	Log       zerolog.Logger
}

// Client implements every gateway port over one *http.Client.
type Client struct {
	base     *url.URL
	http     *http.Client
	validate *validator.Validate
	log      zerolog.Logger
}

// New returns a Client. Store is required; it is read on every request.
func New(opts Options) (*Client, error) {
	if opts.Store == nil {
		return nil, errors.New("remote: credential store is required")
	}
	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("remote: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("remote: base url %q must be http or https", raw)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: &bearerTransport{base: transport, store: opts.Store},
		},
		validate: validator.New(),
		log:      opts.Log,
	}, nil
}

// BaseURL returns the resolved API base address.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// call describes one request. authOp marks login and register, where a
// rejection means bad credentials rather than an expired session.
type call struct {
	op     string
	method string
	path   []string
	query  url.Values
	body   any
	out    any
	authOp bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	var body io.Reader
	if cl.body != nil {
		if err := c.validate.Struct(cl.body); err != nil {
			return fmt.Errorf("%s: %w: %v", cl.op, domain.ErrValidation, err)
		}
		buf, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", cl.op, err)
		}
		body = bytes.NewReader(buf)
	}

	u := c.base.JoinPath(cl.path...)
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", cl.op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set(requestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RemoteRequestDuration.WithLabelValues(cl.op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(cl.op, "transport_error").Inc()
		c.log.Debug().Err(err).Str("op", cl.op).Str("request_id", reqID).Msg("remote call failed")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", cl.op, ctxErr)
		}
		return &domain.RemoteError{Op: cl.op, Detail: err.Error(), Kind: domain.ErrUnavailable}
	}
	defer resp.Body.Close()

	metrics.RemoteRequestsTotal.WithLabelValues(cl.op, strconv.Itoa(resp.StatusCode)).Inc()
	c.log.Debug().
		Str("op", cl.op).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("remote call")

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &domain.RemoteError{Op: cl.op, Status: resp.StatusCode, Detail: err.Error(), Kind: domain.ErrUnavailable}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(cl.op, resp.StatusCode, payload, cl.authOp)
	}
	if cl.out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, cl.out); err != nil {
		return &domain.RemoteError{Op: cl.op, Status: resp.StatusCode, Detail: err.Error(), Kind: domain.ErrMalformedResponse}
	}
	if err := c.validate.Struct(cl.out); err != nil {
		return &domain.RemoteError{Op: cl.op, Status: resp.StatusCode, Detail: err.Error(), Kind: domain.ErrMalformedResponse}
	}
	return nil
}

// statusError maps a non-2xx response onto the domain error taxonomy.
func statusError(op string, status int, payload []byte, authOp bool) error {
	var body errorResponse
	detail := ""
	if err := json.Unmarshal(payload, &body); err == nil {
		detail = body.message()
	}
	if detail == "" {
		detail = strings.TrimSpace(string(payload))
		if r := []rune(detail); len(r) > 200 {
			detail = string(r[:200])
		}
	}

	var kind error
	switch {
	case authOp && (status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusUnprocessableEntity):
		kind = domain.ErrInvalidCredentials
	case status == http.StatusUnauthorized:
		kind = domain.ErrSessionExpired
	case status == http.StatusForbidden:
		kind = domain.ErrForbidden
	case status == http.StatusNotFound:
		kind = domain.ErrNotFound
	case status == http.StatusUnprocessableEntity:
		kind = domain.ErrValidation
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
		kind = domain.ErrUnavailable
	default:
		kind = domain.ErrRejected
	}
	return &domain.RemoteError{Op: op, Status: status, Detail: detail, Kind: kind}
}
