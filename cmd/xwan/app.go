package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/xwanai/xwan-client/internal/core/domain"
	"github.com/xwanai/xwan-client/internal/core/ports"
	"github.com/xwanai/xwan-client/internal/core/service"
)

var errUsage = errors.New("usage")

type app struct {
	session        *service.SessionService
	chat           *service.ChatService
	directory      *service.DirectoryService
	profiles       *service.ProfileService
	publicPageSize int

	in  io.Reader
	out io.Writer
}

type command struct {
	name, args, help string
	// authed commands restore the persisted session first.
	authed bool
	run    func(a *app, ctx context.Context, args []string) error
}

var commands = []command{
	{"register", "-email E -password P -username U", "create an account and log in", false, (*app).register},
	{"login", "-email E [-password P]", "log in; the password is read from stdin when omitted", false, (*app).login},
	{"logout", "", "forget the stored credential", false, (*app).logout},
	{"whoami", "", "show the logged-in account", true, (*app).whoami},
	{"characters", "[-page N] [-size N]", "browse public characters", false, (*app).characters},
	{"mine", "", "list your characters", true, (*app).mine},
	{"show", "ID", "show one character", true, (*app).show},
	{"create", "-name N -mode M -birth YYYY-MM-DD [flags]", "create a character", true, (*app).create},
	{"delete", "-yes ID", "delete one of your characters", true, (*app).deleteCharacter},
	{"conversations", "", "list your conversations", true, (*app).conversations},
	{"chat", "ID", "chat with a character; /quit leaves", true, (*app).chatREPL},
	{"profile", "[show|create|delete] [flags]", "manage your BaZi profile", true, (*app).profile},
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage()
		return nil
	}
	for _, cmd := range commands {
		if cmd.name != args[0] {
			continue
		}
		if cmd.authed {
			// Viewing a private character works without a session too, so
			// a failed restore is reported by the command itself.
			if err := a.session.CheckAuth(ctx); err != nil && cmd.name != "show" {
				return err
			}
		}
		return cmd.run(a, ctx, args[1:])
	}
	a.usage()
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func (a *app) usage() {
	fmt.Fprintln(a.out, "usage: xwan <command> [arguments]")
	fmt.Fprintln(a.out)
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %s %s\t%s\n", cmd.name, cmd.args, cmd.help)
	}
	_ = w.Flush()
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

func oneArg(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%w: %s takes exactly one character id", errUsage, fs.Name())
	}
	return fs.Arg(0), nil
}

// ── Session ──────────────────────────────────────────────────────────────────

func (a *app) register(ctx context.Context, args []string) error {
	fs := a.flags("register")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "at least 8 characters")
	username := fs.String("username", "", "3 to 50 characters")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.session.Register(ctx, *email, *password, *username); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "registered and logged in as %s\n", *email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password; read from stdin when empty")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *password == "" {
		fmt.Fprint(a.out, "password: ")
		line, err := bufio.NewReader(a.in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		*password = strings.TrimRight(line, "\r\n")
	}
	if err := a.session.Login(ctx, *email, *password); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s\n", *email)
	return nil
}

func (a *app) logout(ctx context.Context, _ []string) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *app) whoami(_ context.Context, _ []string) error {
	snap := a.session.Snapshot()
	if snap.Identity == nil {
		return domain.ErrNotAuthenticated
	}
	fmt.Fprintf(a.out, "id:       %s\n", snap.Identity.ID)
	if snap.Identity.Email != "" {
		fmt.Fprintf(a.out, "email:    %s\n", snap.Identity.Email)
	}
	if snap.Identity.Username != "" {
		fmt.Fprintf(a.out, "username: %s\n", snap.Identity.Username)
	}
	if !snap.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "expires:  %s\n", snap.ExpiresAt.Local().Format(time.DateTime))
	}
	return nil
}

// ── Characters ───────────────────────────────────────────────────────────────

func (a *app) characters(ctx context.Context, args []string) error {
	fs := a.flags("characters")
	defaultSize := a.publicPageSize
	if defaultSize <= 0 {
		defaultSize = service.DefaultPublicPageSize
	}
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", defaultSize, "characters per page")
	if err := parse(fs, args); err != nil {
		return err
	}
	res, err := a.directory.ListPublic(ctx, *page, *size)
	if err != nil {
		return err
	}
	a.printPage(res)
	return nil
}

func (a *app) mine(ctx context.Context, _ []string) error {
	res, err := a.directory.ListOwned(ctx)
	if err != nil {
		return err
	}
	a.printPage(res)
	return nil
}

func (a *app) printPage(p domain.CharacterPage) {
	if len(p.Characters) == 0 {
		fmt.Fprintln(a.out, "no characters")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBAZI\tVISIBILITY\tCHATS")
	for _, c := range p.Characters {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", c.ID, c.Name, c.Profile.BaziString, c.Visibility, c.InteractionCount)
	}
	_ = w.Flush()

	nav := fmt.Sprintf("page %d, %d total", p.Page, p.Total)
	if p.HasPrev() {
		nav += fmt.Sprintf(", prev: -page %d", p.Page-1)
	}
	if p.HasNext() {
		nav += fmt.Sprintf(", next: -page %d", p.Page+1)
	}
	fmt.Fprintln(a.out, nav)
}

func (a *app) show(ctx context.Context, args []string) error {
	fs := a.flags("show")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := oneArg(fs)
	if err != nil {
		return err
	}
	c, err := a.directory.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n", c.Name, c.ID)
	fmt.Fprintf(a.out, "bazi:        %s  day master %s", c.Profile.BaziString, c.Profile.DayMaster)
	if c.Profile.PrimaryElement != "" {
		fmt.Fprintf(a.out, "  element %s", c.Profile.PrimaryElement)
	}
	fmt.Fprintln(a.out)
	if c.Profile.PersonalitySummary != "" {
		fmt.Fprintf(a.out, "personality: %s\n", c.Profile.PersonalitySummary)
	}
	if c.Description != "" {
		fmt.Fprintf(a.out, "description: %s\n", c.Description)
	}
	if len(c.Tags) > 0 {
		fmt.Fprintf(a.out, "tags:        %s\n", strings.Join(c.Tags, ", "))
	}
	fmt.Fprintf(a.out, "visibility:  %s, %d chats, %d favorites\n", c.Visibility, c.InteractionCount, c.FavoriteCount)
	if c.GreetingMessage != "" {
		fmt.Fprintf(a.out, "greeting:    %s\n", c.GreetingMessage)
	}
	return nil
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := a.flags("create")
	name := fs.String("name", "", "character name")
	mode := fs.String("mode", string(domain.ModeOriginal), "real_person, original, concept or virtual_ip")
	birth := fs.String("birth", "", "birth date YYYY-MM-DD")
	hour := fs.Int("hour", -1, "birth hour 0-23; unknown when omitted")
	gender := fs.String("gender", "", "male, female or other")
	visibility := fs.String("visibility", string(domain.VisibilityPrivate), "private, public or synced")
	description := fs.String("description", "", "short description")
	greeting := fs.String("greeting", "", "first message shown in chat")
	tags := fs.String("tags", "", "comma-separated tags")
	traits := fs.String("traits", "", "comma-separated personality traits")
	if err := parse(fs, args); err != nil {
		return err
	}

	date, err := time.Parse(time.DateOnly, *birth)
	if err != nil {
		return fmt.Errorf("%w: -birth must be YYYY-MM-DD", domain.ErrValidation)
	}
	input := ports.CreateCharacterInput{
		Name:              *name,
		Mode:              domain.CreationMode(*mode),
		Description:       *description,
		BirthYear:         date.Year(),
		BirthMonth:        int(date.Month()),
		BirthDay:          date.Day(),
		Gender:            domain.Gender(*gender),
		GreetingMessage:   *greeting,
		PersonalityTraits: splitList(*traits),
		Tags:              splitList(*tags),
		Visibility:        domain.Visibility(*visibility),
	}
	if *hour >= 0 {
		input.BirthHour = hour
	}

	c, err := a.directory.Create(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created %s (%s): %s\n", c.Name, c.ID, c.Profile.BaziString)
	return nil
}

func (a *app) deleteCharacter(ctx context.Context, args []string) error {
	fs := a.flags("delete")
	yes := fs.Bool("yes", false, "confirm the deletion")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := oneArg(fs)
	if err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("%w: deleting cannot be undone, repeat with -yes", errUsage)
	}
	if err := a.directory.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted %s\n", id)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
