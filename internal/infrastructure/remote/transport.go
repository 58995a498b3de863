package remote

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/xwanai/xwan-client/internal/core/ports"
)

const requestIDHeader = "X-Request-ID"

// bearerTransport attaches JSON negotiation headers, a request ID and, when a
// credential is persisted, the bearer token. The store is read on every request
// so a login or logout takes effect on the next call.
type bearerTransport struct {
	base  http.RoundTripper
	store ports.CredentialStore
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.store.Load(req.Context())
	if err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, fmt.Errorf("read credential: %w", err)
	}

	r := req.Clone(req.Context())
	r.Header.Set("Accept", "application/json")
	if r.Body != nil && r.Header.Get("Content-Type") == "" {
		r.Header.Set("Content-Type", "application/json")
	}
	if r.Header.Get(requestIDHeader) == "" {
		r.Header.Set(requestIDHeader, uuid.NewString())
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return t.base.RoundTrip(r)
}
