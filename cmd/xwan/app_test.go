package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/xwanai/xwan-client/internal/api"
	"github.com/xwanai/xwan-client/internal/api/backend"
	"github.com/xwanai/xwan-client/internal/core/domain"
	"github.com/xwanai/xwan-client/internal/core/ports"
	"github.com/xwanai/xwan-client/internal/core/service"
	"github.com/xwanai/xwan-client/internal/infrastructure/credstore"
	"github.com/xwanai/xwan-client/internal/infrastructure/remote"
)

type harness struct {
	t       *testing.T
	baseURL string
	store   ports.CredentialStore
	// pageSize is the configured public page size handed to each app.
	pageSize int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := backend.New("cli-secret", time.Hour, backend.WithReplier(
		func(ch backend.Character, history []backend.Exchange, message string) string {
			return "echo: " + message
		}))
	srv := httptest.NewServer(api.NewRouter(b, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return &harness{t: t, baseURL: srv.URL + "/api", store: credstore.NewMemoryStore(), pageSize: service.DefaultPublicPageSize}
}

// exec runs one CLI invocation in a fresh process-like app sharing the credential store.
func (h *harness) exec(stdin string, args ...string) (string, error) {
	h.t.Helper()
	log := zerolog.Nop()
	client, err := remote.New(remote.Options{BaseURL: h.baseURL, Timeout: 5 * time.Second, Store: h.store, Log: log})
	if err != nil {
		h.t.Fatalf("remote client: %v", err)
	}
	session := service.NewSessionService(client, h.store, log)
	var out bytes.Buffer
	a := &app{
		session:        session,
		chat:           service.NewChatService(client, session, log),
		directory:      service.NewDirectoryService(client, session, 0, log),
		profiles:       service.NewProfileService(client, session, log),
		publicPageSize: h.pageSize,
		in:             strings.NewReader(stdin),
		out:            &out,
	}
	err = a.run(context.Background(), args)
	return out.String(), err
}

func (h *harness) mustExec(stdin string, args ...string) string {
	h.t.Helper()
	out, err := h.exec(stdin, args...)
	if err != nil {
		h.t.Fatalf("xwan %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

var createdID = regexp.MustCompile(`\(([0-9a-f-]{36})\)`)

func TestCLI_Session(t *testing.T) {
	h := newHarness(t)

	if _, err := h.exec("", "whoami"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("whoami before login: %v", err)
	}
	h.mustExec("", "register", "-email", "a@b.com", "-password", "pw123456", "-username", "alice")
	h.mustExec("", "logout")

	out := h.mustExec("pw123456\n", "login", "-email", "a@b.com")
	if !strings.Contains(out, "logged in as a@b.com") {
		t.Fatalf("login output: %q", out)
	}

	out = h.mustExec("", "whoami")
	if !strings.Contains(out, "email:    a@b.com") || !strings.Contains(out, "expires:") {
		t.Fatalf("whoami output: %q", out)
	}

	_, err := h.exec("", "login", "-email", "a@b.com", "-password", "wrong-password")
	if !errors.Is(err, domain.ErrInvalidCredentials) || !strings.HasPrefix(describe(err), "login failed:") {
		t.Fatalf("bad login: %v", err)
	}
}

func TestCLI_CharactersAndChat(t *testing.T) {
	h := newHarness(t)
	h.mustExec("", "register", "-email", "a@b.com", "-password", "pw123456", "-username", "alice")

	out := h.mustExec("", "create", "-name", "Lin", "-birth", "2000-01-01", "-hour", "0",
		"-visibility", "public", "-tags", "poet, tea", "-greeting", "你好")
	m := createdID.FindStringSubmatch(out)
	if m == nil || !strings.Contains(out, "庚辰 戊寅 戊午 壬子") {
		t.Fatalf("create output: %q", out)
	}
	id := m[1]

	if out := h.mustExec("", "characters"); !strings.Contains(out, id) || !strings.Contains(out, "page 1, 1 total") {
		t.Fatalf("public listing: %q", out)
	}
	if out := h.mustExec("", "mine"); !strings.Contains(out, "Lin") {
		t.Fatalf("owned listing: %q", out)
	}
	if out := h.mustExec("", "show", id); !strings.Contains(out, "tags:        poet, tea") {
		t.Fatalf("show: %q", out)
	}

	out = h.mustExec("hello\n\n/quit\n", "chat", id)
	if !strings.Contains(out, "Lin: 你好") || !strings.Contains(out, "< echo: hello") {
		t.Fatalf("chat transcript: %q", out)
	}
	out = h.mustExec("", "chat", id)
	if !strings.Contains(out, "> hello\n< echo: hello") {
		t.Fatalf("history not replayed: %q", out)
	}
	if out := h.mustExec("", "conversations"); !strings.Contains(out, "Lin") {
		t.Fatalf("conversations: %q", out)
	}

	if _, err := h.exec("", "delete", id); !errors.Is(err, errUsage) {
		t.Fatalf("delete without -yes: %v", err)
	}
	h.mustExec("", "delete", "-yes", id)
	if out := h.mustExec("", "mine"); !strings.Contains(out, "no characters") {
		t.Fatalf("character survived delete: %q", out)
	}
}

func TestCLI_CharactersUnconfiguredPageSize(t *testing.T) {
	h := newHarness(t)
	h.pageSize = 0

	out := h.mustExec("", "characters")
	if !strings.Contains(out, "no characters") {
		t.Fatalf("public listing: %q", out)
	}
	if _, err := h.exec("", "characters", "-size", "0"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("explicit zero page size: %v", err)
	}
}

func TestCLI_ChatRejectsLongMessage(t *testing.T) {
	h := newHarness(t)
	h.mustExec("", "register", "-email", "a@b.com", "-password", "pw123456", "-username", "alice")
	out := h.mustExec("", "create", "-name", "Lin", "-birth", "1990-05-17")
	id := createdID.FindStringSubmatch(out)[1]

	long := strings.Repeat("长", domain.MaxMessageLength+1)
	out = h.mustExec(long+"\nok\n", "chat", id)
	if !strings.Contains(out, "invalid input") || !strings.Contains(out, "< echo: ok") {
		t.Fatalf("transcript: %q", out)
	}
}

func TestCLI_Profile(t *testing.T) {
	h := newHarness(t)
	h.mustExec("", "register", "-email", "a@b.com", "-password", "pw123456", "-username", "alice")

	if _, err := h.exec("", "profile"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("profile before create: %v", err)
	}
	out := h.mustExec("", "profile", "create", "-birth", "2000-01-01 00:30", "-gender", "female")
	if !strings.Contains(out, "day master: 戊") {
		t.Fatalf("profile create: %q", out)
	}
	h.mustExec("", "profile", "delete")
	if _, err := h.exec("", "profile", "show"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("profile after delete: %v", err)
	}
}

func TestCLI_Usage(t *testing.T) {
	h := newHarness(t)
	out := h.mustExec("", "help")
	if !strings.Contains(out, "chat ID") {
		t.Fatalf("usage: %q", out)
	}
	if _, err := h.exec("", "frobnicate"); !errors.Is(err, errUsage) || exitCode(err) != 2 {
		t.Fatalf("unknown command: %v", err)
	}
	if _, err := h.exec("", "mine"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("mine while logged out: %v", err)
	}
	if got := describe(domain.ErrNotAuthenticated); got != "not logged in, run: xwan login" {
		t.Fatalf("describe: %q", got)
	}
}
