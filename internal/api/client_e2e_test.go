package api_test

import (
	"context"
	"errors"
	"net/http/httptest"
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

type app struct {
	store     *credstore.MemoryStore
	session   *service.SessionService
	chat      *service.ChatService
	directory *service.DirectoryService
	profiles  *service.ProfileService
}

func newApp(t *testing.T, baseURL string, store *credstore.MemoryStore) *app {
	t.Helper()
	log := zerolog.Nop()
	client, err := remote.New(remote.Options{BaseURL: baseURL, Timeout: 5 * time.Second, Store: store, Log: log})
	if err != nil {
		t.Fatalf("remote client: %v", err)
	}
	session := service.NewSessionService(client, store, log)
	return &app{
		store:     store,
		session:   session,
		chat:      service.NewChatService(client, session, log),
		directory: service.NewDirectoryService(client, session, 0, log),
		profiles:  service.NewProfileService(client, session, log),
	}
}

func startServer(t *testing.T) string {
	t.Helper()
	b := backend.New("e2e-secret", time.Hour, backend.WithReplier(
		func(ch backend.Character, history []backend.Exchange, message string) string {
			return "hi there"
		}))
	srv := httptest.NewServer(api.NewRouter(b, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

func TestEndToEnd_LoginChatAndRestore(t *testing.T) {
	ctx := context.Background()
	baseURL := startServer(t)
	a := newApp(t, baseURL, credstore.NewMemoryStore())

	if err := a.session.CheckAuth(ctx); err != nil || a.session.IsAuthenticated() {
		t.Fatalf("fresh start should be anonymous: %v", err)
	}

	if err := a.session.Register(ctx, "a@b.com", "pw123456", "alice"); err != nil {
		t.Fatalf("register: %v", err)
	}
	a.session.Logout(ctx)
	if err := a.session.Login(ctx, "a@b.com", "pw123456"); err != nil {
		t.Fatalf("login: %v", err)
	}
	snap := a.session.Snapshot()
	if !snap.Authenticated || snap.Identity == nil || snap.Identity.Email != "a@b.com" {
		t.Fatalf("unexpected session: %+v", snap)
	}
	if stored, _ := a.store.Load(ctx); stored == "" || stored != snap.Credential {
		t.Fatalf("credential not persisted")
	}
	if snap.ExpiresAt.IsZero() || time.Until(snap.ExpiresAt) <= 0 {
		t.Fatalf("expiry not decoded from token: %v", snap.ExpiresAt)
	}

	ch, err := a.directory.Create(ctx, ports.CreateCharacterInput{
		Name: "C1", Mode: domain.ModeOriginal, BirthYear: 1990, BirthMonth: 5, BirthDay: 17,
	})
	if err != nil {
		t.Fatalf("create character: %v", err)
	}
	if ch.Visibility != domain.VisibilityPrivate || ch.Profile.BaziString == "" {
		t.Fatalf("unexpected character: %+v", ch)
	}

	view := a.chat.Open()
	defer view.Close()
	if err := view.LoadConversation(ctx, ch.ID); err != nil {
		t.Fatalf("load conversation: %v", err)
	}
	if msgs := view.Messages(); len(msgs) != 0 {
		t.Fatalf("expected empty conversation, got %+v", msgs)
	}
	msg, err := view.SendMessage(ctx, ch.ID, "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.UserText != "hello" || msg.ResponseText != "hi there" || msg.CreatedAt.IsZero() {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msgs := view.Messages(); len(msgs) != 1 || msgs[0].ID != msg.ID {
		t.Fatalf("conversation not updated: %+v", msgs)
	}

	// A second process sharing the credential store restores the session.
	restored := newApp(t, baseURL, a.store)
	if err := restored.session.CheckAuth(ctx); err != nil || !restored.session.IsAuthenticated() {
		t.Fatalf("restore: %v", err)
	}
	if id := restored.session.Snapshot().Identity; id == nil || id.ID != snap.Identity.ID {
		t.Fatalf("restored identity mismatch: %+v", id)
	}
	reopened := restored.chat.Open()
	defer reopened.Close()
	if err := reopened.LoadConversation(ctx, ch.ID); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if msgs := reopened.Messages(); len(msgs) != 1 || msgs[0].ResponseText != "hi there" {
		t.Fatalf("history not persisted server-side: %+v", msgs)
	}
	convs, err := restored.chat.Conversations(ctx)
	if err != nil || len(convs) != 1 || convs[0].CharacterName != "C1" {
		t.Fatalf("conversations: %v %+v", err, convs)
	}
}

func TestEndToEnd_DirectoryAndOwnership(t *testing.T) {
	ctx := context.Background()
	baseURL := startServer(t)
	alice := newApp(t, baseURL, credstore.NewMemoryStore())
	bob := newApp(t, baseURL, credstore.NewMemoryStore())
	if err := alice.session.Register(ctx, "alice@example.com", "password123", "alice"); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if err := bob.session.Register(ctx, "bob@example.com", "password123", "bob"); err != nil {
		t.Fatalf("register bob: %v", err)
	}

	public, err := alice.directory.Create(ctx, ports.CreateCharacterInput{
		Name: "Open", Mode: domain.ModeConcept, Visibility: domain.VisibilityPublic,
		BirthYear: 2000, BirthMonth: 1, BirthDay: 1, Tags: []string{"poet"},
	})
	if err != nil {
		t.Fatalf("create public: %v", err)
	}
	private, err := alice.directory.Create(ctx, ports.CreateCharacterInput{
		Name: "Secret", Mode: domain.ModeOriginal, BirthYear: 1990, BirthMonth: 1, BirthDay: 1,
	})
	if err != nil {
		t.Fatalf("create private: %v", err)
	}

	owned, err := alice.directory.ListOwned(ctx)
	if err != nil || owned.Total != 2 {
		t.Fatalf("alice owned: %v %+v", err, owned)
	}
	gallery, err := bob.directory.ListPublic(ctx, 1, service.DefaultPublicPageSize)
	if err != nil || gallery.Total != 1 || gallery.Characters[0].ID != public.ID {
		t.Fatalf("public gallery: %v %+v", err, gallery)
	}

	if _, err := bob.directory.Get(ctx, private.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("bob fetched a private character: %v", err)
	}
	if err := bob.directory.Delete(ctx, public.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("bob deleted alice's character: %v", err)
	}
	if !bob.session.IsAuthenticated() {
		t.Fatalf("a forbidden call must not end the session")
	}
	if err := alice.directory.Delete(ctx, private.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if page, _ := alice.directory.Owned(); page.Total != 1 || len(page.Characters) != 1 {
		t.Fatalf("owned listing not updated: %+v", page)
	}
	if _, err := alice.directory.Get(ctx, private.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEndToEnd_Failures(t *testing.T) {
	ctx := context.Background()
	baseURL := startServer(t)
	a := newApp(t, baseURL, credstore.NewMemoryStore())

	err := a.session.Login(ctx, "ghost@example.com", "password123")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if !strings.Contains(domain.Detail(err), "Incorrect email or password") {
		t.Fatalf("server detail lost: %q", domain.Detail(err))
	}
	if a.session.IsAuthenticated() {
		t.Fatalf("failed login must not authenticate")
	}

	if err := a.store.Save(ctx, "stale-token"); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	if err := a.session.CheckAuth(ctx); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
	if token, _ := a.store.Load(ctx); token != "" {
		t.Fatalf("rejected credential not cleared")
	}

	if err := a.session.Register(ctx, "a@b.com", "pw123456", "alice"); err != nil {
		t.Fatalf("register: %v", err)
	}
	view := a.chat.Open()
	defer view.Close()
	if err := view.LoadConversation(ctx, "missing"); err != nil {
		t.Fatalf("unknown character yields an empty conversation: %v", err)
	}
	view.SetDraft("hello")
	if _, err := view.SendMessage(ctx, "missing", "hello"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if view.Draft() != "hello" || len(view.Messages()) != 0 {
		t.Fatalf("failed send should restore the draft: %q %v", view.Draft(), view.Messages())
	}

	// The server forgets everything; the stored token no longer verifies.
	other := newApp(t, startServer(t), a.store)
	if _, err := other.directory.ListOwned(ctx); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("list before restore: %v", err)
	}
	if err := other.session.CheckAuth(ctx); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("token from another server accepted: %v", err)
	}
}

func TestEndToEnd_Profile(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, startServer(t), credstore.NewMemoryStore())
	if err := a.session.Register(ctx, "a@b.com", "pw123456", "alice"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := a.profiles.Mine(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected no profile yet, got %v", err)
	}
	p, err := a.profiles.Create(ctx, ports.CreateProfileInput{
		BirthYear: 2000, BirthMonth: 1, BirthDay: 1, BirthHour: 0, Gender: domain.GenderFemale,
	})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if p.BaziString != "庚辰 戊寅 戊午 壬子" || p.DayMaster != "戊" {
		t.Fatalf("unexpected chart: %+v", p)
	}
	if _, err := a.profiles.Create(ctx, ports.CreateProfileInput{
		BirthYear: 2000, BirthMonth: 1, BirthDay: 1, Gender: domain.GenderFemale,
	}); !errors.Is(err, domain.ErrRejected) {
		t.Fatalf("duplicate profile: %v", err)
	}
	if err := a.profiles.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := a.profiles.Mine(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("profile survived delete: %v", err)
	}
}
