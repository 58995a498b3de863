package main

import (
	"context"
	"fmt"
	"time"

	"github.com/xwanai/xwan-client/internal/core/domain"
	"github.com/xwanai/xwan-client/internal/core/ports"
)

func (a *app) profile(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	switch sub {
	case "show":
		p, err := a.profiles.Mine(ctx)
		if err != nil {
			return err
		}
		a.printProfile(p)
		return nil
	case "create":
		return a.createProfile(ctx, args)
	case "delete":
		if err := a.profiles.Delete(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "profile deleted")
		return nil
	default:
		return fmt.Errorf("%w: profile takes show, create or delete", errUsage)
	}
}

func (a *app) createProfile(ctx context.Context, args []string) error {
	fs := a.flags("profile create")
	birth := fs.String("birth", "", "birth date and time, YYYY-MM-DD HH:MM")
	gender := fs.String("gender", "", "male, female or other")
	location := fs.String("location", "", "birth place")
	if err := parse(fs, args); err != nil {
		return err
	}
	at, err := time.Parse("2006-01-02 15:04", *birth)
	if err != nil {
		return fmt.Errorf("%w: -birth must be \"YYYY-MM-DD HH:MM\"", domain.ErrValidation)
	}

	p, err := a.profiles.Create(ctx, ports.CreateProfileInput{
		BirthYear:     at.Year(),
		BirthMonth:    int(at.Month()),
		BirthDay:      at.Day(),
		BirthHour:     at.Hour(),
		BirthMinute:   at.Minute(),
		Gender:        domain.Gender(*gender),
		BirthLocation: *location,
	})
	if err != nil {
		return err
	}
	a.printProfile(p)
	return nil
}

func (a *app) printProfile(p *domain.BaZiProfile) {
	fmt.Fprintf(a.out, "bazi:       %s\n", p.BaziString)
	fmt.Fprintf(a.out, "day master: %s\n", p.DayMaster)
	for _, row := range []struct {
		label string
		p     domain.Pillar
	}{
		{"year", p.YearPillar}, {"month", p.MonthPillar}, {"day", p.DayPillar}, {"hour", p.HourPillar},
	} {
		fmt.Fprintf(a.out, "  %-5s %s%s  %s\n", row.label, row.p.Stem, row.p.Branch, row.p.TenGod)
	}
	if p.PersonalitySummary != "" {
		fmt.Fprintf(a.out, "summary:    %s\n", p.PersonalitySummary)
	}
}
