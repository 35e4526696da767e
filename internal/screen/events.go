package screen

import (
	"context"

	"go.uber.org/zap"

	"github.com/harrylevesque/gatecheck/internal/lookup"
	"github.com/harrylevesque/gatecheck/internal/models"
	"github.com/harrylevesque/gatecheck/internal/utils"
)

type EventFetcher interface {
	FetchEvents(ctx context.Context, creds models.Credentials) ([]models.Event, error)
}

// EventsScreen is the event picker shown after login.
type EventsScreen struct {
	fetch EventFetcher
	creds CredentialSource
	log   *zap.SugaredLogger
	list  listLoader[models.Event]
}

func NewEventsScreen(fetch EventFetcher, creds CredentialSource, log *zap.SugaredLogger) *EventsScreen {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &EventsScreen{fetch: fetch, creds: creds, log: log}
}

// Load is the first fetch. On failure the list is empty and State().Error
// explains why.
func (s *EventsScreen) Load(ctx context.Context) error {
	return s.list.run(ctx, true, s.fetchEvents)
}

// Refresh refetches, keeping the current list if it fails.
func (s *EventsScreen) Refresh(ctx context.Context) error {
	return s.list.run(ctx, false, s.fetchEvents)
}

// Leave discards any fetch still running.
func (s *EventsScreen) Leave() {
	s.list.invalidate()
}

// OnCredentialsChanged reloads for complete credentials and clears the
// screen otherwise.
func (s *EventsScreen) OnCredentialsChanged(ctx context.Context, creds models.Credentials) error {
	if !creds.Complete() {
		s.list.reset(utils.UserMessage(utils.ErrCredentialsMissing))
		return nil
	}
	s.list.invalidate()
	return s.Load(ctx)
}

func (s *EventsScreen) Events() []models.Event {
	events, _ := s.list.snapshot()
	return events
}

func (s *EventsScreen) State() State {
	_, st := s.list.snapshot()
	return st
}

// Visible returns the events whose decoded title contains term.
func (s *EventsScreen) Visible(term string) []models.Event {
	return lookup.FilterEvents(s.Events(), term)
}

func (s *EventsScreen) fetchEvents(ctx context.Context) ([]models.Event, error) {
	creds, err := s.creds.Credentials()
	if err != nil {
		return nil, err
	}
	events, err := s.fetch.FetchEvents(ctx, creds)
	if err != nil {
		s.log.Warnw("fetch events failed", "error", err)
		return nil, err
	}
	s.log.Debugw("fetched events", "count", len(events))
	return events, nil
}
