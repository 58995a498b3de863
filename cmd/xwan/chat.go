package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/xwanai/xwan-client/internal/core/domain"
)

func (a *app) conversations(ctx context.Context, _ []string) error {
	list, err := a.chat.Conversations(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "no conversations yet")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHARACTER\tNAME\tLAST ACTIVE")
	for _, c := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.CharacterID, c.CharacterName, c.UpdatedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

// chatREPL loads the conversation, prints it and sends each input line as a message.
func (a *app) chatREPL(ctx context.Context, args []string) error {
	fs := a.flags("chat")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := oneArg(fs)
	if err != nil {
		return err
	}

	view := a.chat.Open()
	defer view.Close()

	if err := view.LoadConversation(ctx, id); err != nil {
		return err
	}
	msgs := view.Messages()
	if len(msgs) == 0 {
		if c, err := a.directory.Get(ctx, id); err == nil && c.GreetingMessage != "" {
			fmt.Fprintf(a.out, "%s: %s\n", c.Name, c.GreetingMessage)
		}
	}
	for _, m := range msgs {
		a.printExchange(m)
	}

	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			return scanner.Err()
		}
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		}

		view.SetDraft(line)
		msg, err := view.SendMessage(ctx, id, view.Draft())
		switch {
		case err == nil:
			fmt.Fprintf(a.out, "< %s\n", msg.ResponseText)
		case domain.Classify(err) == domain.KindValidation:
			fmt.Fprintln(a.out, describe(err))
		case errors.Is(err, domain.ErrSessionExpired), errors.Is(err, domain.ErrViewClosed), ctx.Err() != nil:
			return err
		default:
			// The draft still holds the text so the user can retry it.
			fmt.Fprintf(a.out, "%s (not sent: %q)\n", describe(err), view.Draft())
		}
	}
}

func (a *app) printExchange(m domain.Message) {
	fmt.Fprintf(a.out, "> %s\n< %s\n", m.UserText, m.ResponseText)
}
