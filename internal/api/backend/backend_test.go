package backend

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xwanai/xwan-client/internal/core/domain"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestBackend() (*Backend, *clock) {
	clk := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	return New("test-secret", time.Hour, WithClock(clk.now)), clk
}

func mustRegister(t *testing.T, b *Backend, email string) (string, *User) {
	t.Helper()
	token, u, err := b.Register(email, "password123", strings.Split(email, "@")[0])
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return token, u
}

func TestAccounts(t *testing.T) {
	b, _ := newTestBackend()
	token, u := mustRegister(t, b, "Alice@Example.com")

	if u.Email != "alice@example.com" {
		t.Fatalf("email not normalised: %s", u.Email)
	}
	got, err := b.Authenticate(token)
	if err != nil || got.ID != u.ID {
		t.Fatalf("authenticate: %v %+v", err, got)
	}

	if _, _, err := b.Register("alice@example.com", "password123", "other"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, _, err := b.Login("alice@example.com", "wrong-password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, _, err := b.Login("nobody@example.com", "password123"); !errors.Is(err, ErrBadLogin) {
		t.Fatalf("expected ErrBadLogin for unknown user, got %v", err)
	}
	token2, u2, err := b.Login(" ALICE@example.com ", "password123")
	if err != nil || u2.ID != u.ID || token2 == "" {
		t.Fatalf("login: %v", err)
	}
}

func TestAuthenticate_Rejects(t *testing.T) {
	b, clk := newTestBackend()
	token, _ := mustRegister(t, b, "alice@example.com")

	if _, err := b.Authenticate("not-a-jwt"); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("garbage token: %v", err)
	}

	other := New("other-secret", time.Hour, WithClock(clk.now))
	forged, _, _ := other.Register("alice@example.com", "password123", "alice")
	if _, err := b.Authenticate(forged); !errors.Is(err, ErrBadToken) {
		t.Fatalf("foreign signature accepted: %v", err)
	}

	clk.t = clk.t.Add(2 * time.Hour)
	if _, err := b.Authenticate(token); !errors.Is(err, ErrBadToken) {
		t.Fatalf("expired token accepted: %v", err)
	}
}

func hour(h int) *int { return &h }

func TestCharacters_Visibility(t *testing.T) {
	b, _ := newTestBackend()
	_, alice := mustRegister(t, b, "alice@example.com")
	_, bob := mustRegister(t, b, "bob@example.com")

	private, err := b.CreateCharacter(alice.ID, NewCharacter{Name: "Secret", Mode: domain.ModeOriginal, Year: 1990, Month: 5, Day: 17})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if private.Visibility != domain.VisibilityPrivate || private.Birth.Gender != domain.GenderOther {
		t.Fatalf("defaults not applied: %+v", private)
	}
	if private.Birth.Hour != 12 || !private.DeepDialogueUnlocked {
		t.Fatalf("unexpected defaults: hour=%d unlocked=%v", private.Birth.Hour, private.DeepDialogueUnlocked)
	}
	if private.GreetingMessage == "" || private.Tags == nil {
		t.Fatalf("greeting and tags should be filled: %+v", private)
	}

	public, _ := b.CreateCharacter(alice.ID, NewCharacter{Name: "Open", Mode: domain.ModeConcept, Visibility: domain.VisibilityPublic, Year: 2000, Month: 1, Day: 1, Hour: hour(0)})
	if public.Chart.BaziString != "庚辰 戊寅 戊午 壬子" {
		t.Fatalf("chart: %s", public.Chart.BaziString)
	}

	if _, err := b.Character(bob.ID, private.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("bob saw a private character: %v", err)
	}
	if _, err := b.Character("", private.ID); !errors.Is(err, ErrPrivate) {
		t.Fatalf("anonymous saw a private character: %v", err)
	}
	if _, err := b.Character(alice.ID, private.ID); err != nil {
		t.Fatalf("creator denied: %v", err)
	}
	if _, err := b.Character("", public.ID); err != nil {
		t.Fatalf("public denied: %v", err)
	}
	if _, err := b.Character(alice.ID, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if page := b.ListOwned(alice.ID, 1, 20); page.Total != 2 {
		t.Fatalf("alice owns %d", page.Total)
	}
	if page := b.ListOwned(bob.ID, 1, 20); page.Total != 0 || len(page.Characters) != 0 {
		t.Fatalf("bob owns %d", page.Total)
	}
	pub := b.ListPublic(1, 20)
	if pub.Total != 1 || pub.Characters[0].ID != public.ID {
		t.Fatalf("public listing: %+v", pub)
	}
}

func TestCharacters_Paging(t *testing.T) {
	b, clk := newTestBackend()
	_, alice := mustRegister(t, b, "alice@example.com")
	var ids []string
	for i := 0; i < 5; i++ {
		clk.t = clk.t.Add(time.Minute)
		ch, _ := b.CreateCharacter(alice.ID, NewCharacter{Name: "C", Mode: domain.ModeOriginal, Year: 1990, Month: 1, Day: 1})
		ids = append(ids, ch.ID)
	}

	first := b.ListOwned(alice.ID, 1, 2)
	if first.Total != 5 || len(first.Characters) != 2 || first.Characters[0].ID != ids[4] {
		t.Fatalf("first page not newest first: %+v", first)
	}
	last := b.ListOwned(alice.ID, 3, 2)
	if len(last.Characters) != 1 || last.Characters[0].ID != ids[0] {
		t.Fatalf("last page: %+v", last)
	}
	if beyond := b.ListOwned(alice.ID, 9, 2); len(beyond.Characters) != 0 || beyond.Total != 5 {
		t.Fatalf("page past the end: %+v", beyond)
	}
}

func TestDeleteCharacter(t *testing.T) {
	b, _ := newTestBackend()
	_, alice := mustRegister(t, b, "alice@example.com")
	_, bob := mustRegister(t, b, "bob@example.com")
	ch, _ := b.CreateCharacter(alice.ID, NewCharacter{Name: "Lin", Mode: domain.ModeOriginal, Visibility: domain.VisibilityPublic, Year: 1990, Month: 1, Day: 1})
	if _, err := b.Send(bob.ID, ch.ID, "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := b.DeleteCharacter(bob.ID, ch.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("bob deleted alice's character: %v", err)
	}
	if err := b.DeleteCharacter(alice.ID, ch.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := b.DeleteCharacter(alice.ID, ch.ID); !errors.Is(err, ErrCharacterNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	if convs := b.Conversations(bob.ID); len(convs) != 0 {
		t.Fatalf("conversations survived the character: %+v", convs)
	}
}

func TestChat(t *testing.T) {
	b, clk := newTestBackend()
	var seen []int
	b.reply = func(ch Character, history []Exchange, message string) string {
		seen = append(seen, len(history))
		return "re: " + message
	}
	_, alice := mustRegister(t, b, "alice@example.com")
	_, bob := mustRegister(t, b, "bob@example.com")
	mine, _ := b.CreateCharacter(alice.ID, NewCharacter{Name: "Lin", Mode: domain.ModeOriginal, Year: 1990, Month: 1, Day: 1})
	other, _ := b.CreateCharacter(alice.ID, NewCharacter{Name: "Mei", Mode: domain.ModeOriginal, Visibility: domain.VisibilityPublic, Year: 1990, Month: 1, Day: 1})

	if conv := b.Conversation(alice.ID, mine.ID); len(conv.Exchanges) != 0 || conv.ID != "" {
		t.Fatalf("expected empty conversation, got %+v", conv)
	}

	ex, err := b.Send(alice.ID, mine.ID, "hello")
	if err != nil || ex.Response != "re: hello" {
		t.Fatalf("send: %v %+v", err, ex)
	}
	clk.t = clk.t.Add(time.Minute)
	if _, err := b.Send(alice.ID, mine.ID, "again"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 1 {
		t.Fatalf("history not passed to replier: %v", seen)
	}

	conv := b.Conversation(alice.ID, mine.ID)
	if len(conv.Exchanges) != 2 || conv.Exchanges[0].Message != "hello" || conv.Exchanges[1].ConversationID != conv.ID {
		t.Fatalf("conversation: %+v", conv)
	}
	if got, _ := b.Character(alice.ID, mine.ID); got.InteractionCount != 2 {
		t.Fatalf("interaction count: %d", got.InteractionCount)
	}

	if _, err := b.Send(bob.ID, mine.ID, "let me in"); !errors.Is(err, ErrPrivate) {
		t.Fatalf("bob chatted with a private character: %v", err)
	}
	if _, err := b.Send(alice.ID, "missing", "hi"); !errors.Is(err, ErrCharacterNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	clk.t = clk.t.Add(time.Minute)
	if _, err := b.Send(alice.ID, other.ID, "newest"); err != nil {
		t.Fatalf("send: %v", err)
	}
	convs := b.Conversations(alice.ID)
	if len(convs) != 2 || convs[0].CharacterID != other.ID || convs[0].CharacterName != "Mei" {
		t.Fatalf("conversations not newest first: %+v", convs)
	}
	if convs[0].Exchanges != nil {
		t.Fatalf("summaries should not carry messages")
	}
}

func TestDefaultReply(t *testing.T) {
	ch := Character{Name: "Lin", GreetingMessage: "你好", Chart: computeChart(2000, 1, 1, 0)}
	first := defaultReply(ch, nil, "在吗")
	if !strings.HasPrefix(first, "你好") {
		t.Fatalf("first reply should greet: %s", first)
	}
	later := defaultReply(ch, []Exchange{{}}, "在吗")
	if !strings.Contains(later, "Lin（戊）") {
		t.Fatalf("later reply: %s", later)
	}
}

func TestProfiles(t *testing.T) {
	b, _ := newTestBackend()
	_, alice := mustRegister(t, b, "alice@example.com")

	if _, err := b.Profile(alice.ID); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	p, err := b.CreateProfile(alice.ID, Birth{Year: 2000, Month: 1, Day: 1, Hour: 0, Gender: domain.GenderFemale})
	if err != nil || p.Chart.DayMaster != "戊" {
		t.Fatalf("create: %v %+v", err, p)
	}
	if _, err := b.CreateProfile(alice.ID, Birth{Year: 2001, Month: 1, Day: 1}); !errors.Is(err, domain.ErrRejected) {
		t.Fatalf("duplicate profile: %v", err)
	}
	b.DeleteProfile(alice.ID)
	b.DeleteProfile(alice.ID)
	if _, err := b.Profile(alice.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("profile survived delete: %v", err)
	}
}
