package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/harrylevesque/gatecheck/internal/config"
	"github.com/harrylevesque/gatecheck/internal/files"
	"github.com/harrylevesque/gatecheck/internal/lookup"
	"github.com/harrylevesque/gatecheck/internal/mobile"
	"github.com/harrylevesque/gatecheck/internal/models"
	"github.com/harrylevesque/gatecheck/internal/remote"
	"github.com/harrylevesque/gatecheck/internal/screen"
	"github.com/harrylevesque/gatecheck/internal/session"
	"github.com/harrylevesque/gatecheck/internal/utils"
)

type options struct {
	cmd        string
	configPath string
	user       string
	password   string
	baseURL    string
	eventID    int
	attendeeID int
	search     string
	status     string
	checkIn    string
	code       string
	output     string
}

func main() {
	var o options
	flag.StringVar(&o.cmd, "cmd", "whoami", "Command: login|logout|whoami|events|attendees|scan|ticket")
	flag.StringVar(&o.configPath, "config", "", "Config file (yaml or json)")
	flag.StringVar(&o.user, "user", "", "Username (login)")
	flag.StringVar(&o.password, "password", "", "Application password (login)")
	flag.StringVar(&o.baseURL, "base-url", "", "Site URL, e.g. https://tickets.example.com (login)")
	flag.IntVar(&o.eventID, "event", 0, "Event ID (attendees, scan, ticket)")
	flag.IntVar(&o.attendeeID, "attendee", 0, "Attendee ID (ticket)")
	flag.StringVar(&o.search, "search", "", "Filter by holder name or event title")
	flag.StringVar(&o.status, "status", "", "Filter attendees by order status")
	flag.StringVar(&o.checkIn, "checkin", "", "Filter attendees by check-in: 1 or 0")
	flag.StringVar(&o.code, "code", "", "Scanned code (scan); read from stdin when empty")
	flag.StringVar(&o.output, "output", "", "Output format: table|json|yaml")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", utils.UserMessage(err))
		os.Exit(1)
	}
}

type app struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	store   files.Store
	client  *remote.Client
	session *session.Session
	format  string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func run(ctx context.Context, o options, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	log, err := utils.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := files.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	client, err := remote.NewFromConfig(cfg.API, log)
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if o.output != "" {
		format = o.output
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		client:  client,
		session: session.New(store, client, log),
		format:  format,
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
	}

	switch o.cmd {
	case "login":
		return a.login(ctx, o)
	case "logout":
		if err := a.session.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Logged out.")
		return nil
	case "whoami":
		return a.whoami()
	case "events":
		return a.events(ctx, o)
	case "attendees":
		return a.attendees(ctx, o)
	case "scan":
		return a.scan(ctx, o)
	case "ticket":
		return a.ticket(ctx, o)
	default:
		return fmt.Errorf("unknown command %q", o.cmd)
	}
}

func (a *app) login(ctx context.Context, o options) error {
	stored, err := a.session.Credentials()
	if err != nil {
		return err
	}
	creds := models.Credentials{
		Username: firstNonEmpty(o.user, stored.Username),
		Password: o.password,
		BaseURL:  firstNonEmpty(o.baseURL, a.cfg.API.BaseURL, stored.BaseURL),
	}
	if err := a.session.Login(ctx, creds); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Logged in as %s at %s\n", creds.Username, creds.BaseURL)
	return nil
}

func (a *app) whoami() error {
	creds, ok, err := a.session.Load()
	if err != nil {
		return err
	}
	view := struct {
		Username      string `json:"username" yaml:"username"`
		BaseURL       string `json:"baseUrl" yaml:"baseUrl"`
		Authenticated bool   `json:"authenticated" yaml:"authenticated"`
	}{creds.Username, creds.BaseURL, ok}
	return mobile.Render(a.stdout, a.format, view, mobile.FieldsTable([][2]string{
		{"Username", creds.Username},
		{"Site", creds.BaseURL},
		{"Logged in", strconv.FormatBool(ok)},
	}))
}

func (a *app) events(ctx context.Context, o options) error {
	s := screen.NewEventsScreen(a.client, a.session, a.log)
	if err := s.Load(ctx); err != nil {
		return err
	}
	events := s.Visible(o.search)
	decoded := make([]models.Event, 0, len(events))
	for _, e := range events {
		decoded = append(decoded, models.Event{ID: e.ID, Title: e.DisplayTitle()})
	}
	return mobile.Render(a.stdout, a.format, decoded, mobile.EventsTable(events))
}

// openEvent loads the attendees screen for -event. The title comes from the
// events list when it can be fetched.
func (a *app) openEvent(ctx context.Context, eventID int) (*screen.AttendeesScreen, error) {
	if eventID <= 0 {
		return nil, errors.New("-event is required")
	}
	event := models.Event{ID: eventID}
	events := screen.NewEventsScreen(a.client, a.session, a.log)
	if err := events.Load(ctx); err == nil {
		for _, e := range events.Events() {
			if e.ID == eventID {
				event = e
			}
		}
	}

	s := screen.NewAttendeesScreen(event, a.client, a.session, a.log)
	if err := s.Enter(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *app) attendees(ctx context.Context, o options) error {
	s, err := a.openEvent(ctx, o.eventID)
	if err != nil {
		return err
	}
	defer s.Leave()

	s.SetSearch(o.search)
	if o.status != "" {
		s.SetOrderStatus(lookup.StringPtr(o.status))
	}
	if o.checkIn != "" {
		s.SetCheckIn(lookup.StringPtr(o.checkIn))
	}
	list := s.Visible()
	return mobile.Render(a.stdout, a.format, list, mobile.AttendeesTable(list))
}

func (a *app) scan(ctx context.Context, o options) error {
	s, err := a.openEvent(ctx, o.eventID)
	if err != nil {
		return err
	}
	defer s.Leave()

	var scanner mobile.Scanner
	if o.code != "" {
		scanner = mobile.NewStaticScanner(mobile.PermissionGranted, mobile.ScanEvent{Type: mobile.TypeQR, Data: o.code})
	} else {
		fmt.Fprintf(a.stderr, "Scanning for %s. Scan a ticket or type its code, Ctrl-D to stop.\n", s.Event().DisplayTitle())
		scanner = mobile.NewReaderScanner(a.stdin, a.cfg.Scanner.Debounce, a.log)
	}

	handler := &lastScan{inner: s}
	flow := &screen.ScanFlow{
		Scanner: scanner,
		Hub:     mobile.NewHub(),
		Handler: handler,
		Notices: func(msg string) { fmt.Fprintln(a.stderr, msg) },
		Station: utils.StationID(),
		Log:     a.log,
	}
	detail, err := flow.Run(ctx)
	if errors.Is(err, screen.ErrScannerClosed) && o.code != "" && handler.err != nil {
		return handler.err
	}
	if err != nil {
		return err
	}
	return a.renderTicket(detail)
}

// lastScan remembers why the most recent scan did not resolve.
type lastScan struct {
	inner screen.ScanHandler
	err   error
}

func (h *lastScan) HandleScan(payload string) screen.ScanResult {
	res := h.inner.HandleScan(payload)
	h.err = res.Err
	return res
}

func (a *app) ticket(ctx context.Context, o options) error {
	if o.attendeeID <= 0 {
		return errors.New("-attendee is required")
	}
	s, err := a.openEvent(ctx, o.eventID)
	if err != nil {
		return err
	}
	defer s.Leave()

	detail, ok := s.Ticket(o.attendeeID)
	if !ok {
		return fmt.Errorf("attendee %d not found in event %d", o.attendeeID, o.eventID)
	}
	return a.renderTicket(detail)
}

func (a *app) renderTicket(d screen.TicketDetail) error {
	return mobile.Render(a.stdout, a.format, d, mobile.FieldsTable(d.Fields()))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
