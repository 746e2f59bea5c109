package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"apptbot/bootstrap"
	"apptbot/config"
	"apptbot/services/booking"
	"apptbot/services/calendar"
	ai "apptbot/services/intelligence"
	"apptbot/utils"

	"github.com/google/uuid"
)

// Context carries what every command needs. Oracle and Store are built from
// config on first use unless a caller set them.
type Context struct {
	Cfg      *config.Config
	Location *time.Location
	Oracle   ai.Oracle
	Store    calendar.Store
	Out      io.Writer
	Now      func() time.Time
}

func newContext(tz, backend string) (*Context, error) {
	config.LoadConfig()
	cfg := &config.AppConfig
	if tz != "" {
		cfg.DefaultTimezone = tz
	}
	if backend != "" {
		cfg.CalendarBackend = backend
	}
	loc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.DefaultTimezone, err)
	}
	return &Context{Cfg: cfg, Location: loc, Out: os.Stdout, Now: time.Now}, nil
}

func (c *Context) store(ctx context.Context) (calendar.Store, error) {
	if c.Store == nil {
		s, err := bootstrap.BuildCalendarStore(ctx, c.Cfg)
		if err != nil {
			return nil, err
		}
		c.Store = s
	}
	return c.Store, nil
}

func (c *Context) oracle(ctx context.Context) (ai.Oracle, error) {
	if c.Oracle == nil {
		o, _, err := bootstrap.BuildOracle(ctx, c.Cfg)
		if err != nil {
			return nil, err
		}
		c.Oracle = o
	}
	return c.Oracle, nil
}

func (c *Context) printJSON(v any) error {
	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type BookCmd struct {
	Text string `arg:"" help:"The request, e.g. \"meeting with Alex tomorrow at 4pm\"."`
	ICS  bool   `name:"ics" help:"Print an iCalendar invite instead of the JSON outcome."`
}

func (b *BookCmd) Run(c *Context) error {
	ctx := context.Background()
	oracle, err := c.oracle(ctx)
	if err != nil {
		return err
	}
	store, err := c.store(ctx)
	if err != nil {
		return err
	}

	scheduler := bootstrap.BuildScheduler(c.Cfg, oracle, store, utils.GetLogger(), nil)
	scheduler.DefaultLocation = c.Location
	scheduler.Now = c.Now

	conf, err := scheduler.Schedule(ctx, b.Text)
	if b.ICS && err == nil {
		_, werr := io.WriteString(c.Out, calendar.BuildInvite(conf, uuid.New().String(), c.Now()))
		return werr
	}
	return c.printJSON(booking.Outcome(conf, err))
}

type ResolveCmd struct {
	Text string `arg:"" help:"The request to resolve."`
}

func (r *ResolveCmd) Run(c *Context) error {
	return c.printJSON(map[string]any{
		"resolved":             ai.ResolveRelativeDates(r.Text, c.Now(), c.Location),
		"timezone":             c.Location.String(),
		"looksLikeAppointment": ai.LooksLikeAppointment(r.Text),
	})
}

type NextSlotCmd struct {
	Start    time.Time     `required:"" help:"Desired start, RFC3339."`
	Duration time.Duration `default:"60m" help:"Slot length."`
}

func (n *NextSlotCmd) Run(c *Context) error {
	if n.Duration <= 0 {
		return booking.ErrInvalidInterval
	}
	ctx := context.Background()
	store, err := c.store(ctx)
	if err != nil {
		return err
	}

	checker := booking.AvailabilityChecker{Store: store, Timeout: c.Cfg.CalendarTimeout()}
	slot, err := bootstrap.NewSlotFinder(c.Cfg).FindNextFree(ctx, n.Start.In(c.Location), n.Duration, checker.IsFree)
	if err != nil {
		return err
	}
	return c.printJSON(slot)
}
