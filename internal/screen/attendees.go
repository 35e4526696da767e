package screen

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/harrylevesque/gatecheck/internal/lookup"
	"github.com/harrylevesque/gatecheck/internal/models"
	"github.com/harrylevesque/gatecheck/internal/utils"
)

type AttendeeFetcher interface {
	FetchAttendees(ctx context.Context, creds models.Credentials, eventID int) ([]models.Attendee, error)
}

// AttendeesScreen lists one event's attendees and resolves scanned tickets
// against them.
type AttendeesScreen struct {
	event models.Event
	fetch AttendeeFetcher
	creds CredentialSource
	log   *zap.SugaredLogger
	list  listLoader[models.Attendee]

	fmu    sync.Mutex
	filter lookup.Filter
}

func NewAttendeesScreen(event models.Event, fetch AttendeeFetcher, creds CredentialSource, log *zap.SugaredLogger) *AttendeesScreen {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &AttendeesScreen{
		event: event,
		fetch: fetch,
		creds: creds,
		log:   log.With("event_id", event.ID),
	}
}

func (s *AttendeesScreen) Event() models.Event {
	return s.event
}

// Enter is the first fetch after navigating to the event.
func (s *AttendeesScreen) Enter(ctx context.Context) error {
	return s.list.run(ctx, true, s.fetchAttendees)
}

// Refresh refetches, keeping the current list if it fails.
func (s *AttendeesScreen) Refresh(ctx context.Context) error {
	return s.list.run(ctx, false, s.fetchAttendees)
}

// Leave discards any fetch still running.
func (s *AttendeesScreen) Leave() {
	s.list.invalidate()
}

// OnCredentialsChanged reloads for complete credentials and clears the
// screen otherwise.
func (s *AttendeesScreen) OnCredentialsChanged(ctx context.Context, creds models.Credentials) error {
	if !creds.Complete() {
		s.list.reset(utils.UserMessage(utils.ErrCredentialsMissing))
		return nil
	}
	s.list.invalidate()
	return s.Enter(ctx)
}

func (s *AttendeesScreen) SetSearch(term string) {
	s.fmu.Lock()
	defer s.fmu.Unlock()
	s.filter.Search = term
}

// SetOrderStatus filters on an exact order status; nil clears it.
func (s *AttendeesScreen) SetOrderStatus(status *string) {
	s.fmu.Lock()
	defer s.fmu.Unlock()
	s.filter.OrderStatus = status
}

// SetCheckIn filters on "1" or "0"; nil clears it.
func (s *AttendeesScreen) SetCheckIn(checkIn *string) {
	s.fmu.Lock()
	defer s.fmu.Unlock()
	s.filter.CheckIn = checkIn
}

func (s *AttendeesScreen) Filter() lookup.Filter {
	s.fmu.Lock()
	defer s.fmu.Unlock()
	return s.filter
}

// Attendees returns the whole loaded list.
func (s *AttendeesScreen) Attendees() []models.Attendee {
	list, _ := s.list.snapshot()
	return list
}

func (s *AttendeesScreen) State() State {
	_, st := s.list.snapshot()
	return st
}

// Visible applies the current filter to the loaded list.
func (s *AttendeesScreen) Visible() []models.Attendee {
	return lookup.FilterAttendees(s.Attendees(), s.Filter())
}

// ScanResult is either a ticket to navigate to or a notice to show while
// staying on the list.
type ScanResult struct {
	Ticket *TicketDetail
	Notice string
	Err    error
}

// HandleScan resolves payload against the whole loaded list, ignoring the
// filter. Check-in state is as of the last fetch.
func (s *AttendeesScreen) HandleScan(payload string) ScanResult {
	a, err := lookup.ResolveScannedAttendee(s.Attendees(), payload)
	if err != nil {
		s.log.Infow("scan not resolved", "error", err)
		return ScanResult{Notice: utils.UserMessage(err), Err: err}
	}
	detail := NewTicketDetail(s.event, a)
	s.log.Infow("scan resolved", "attendee_id", a.AttendeeID, "checked_in", a.CheckedIn())
	return ScanResult{Ticket: &detail}
}

// Ticket builds the detail view for a loaded attendee.
func (s *AttendeesScreen) Ticket(attendeeID int) (TicketDetail, bool) {
	for _, a := range s.Attendees() {
		if a.AttendeeID == attendeeID {
			return NewTicketDetail(s.event, a), true
		}
	}
	return TicketDetail{}, false
}

func (s *AttendeesScreen) fetchAttendees(ctx context.Context) ([]models.Attendee, error) {
	creds, err := s.creds.Credentials()
	if err != nil {
		return nil, err
	}
	list, err := s.fetch.FetchAttendees(ctx, creds, s.event.ID)
	if err != nil {
		s.log.Warnw("fetch attendees failed", "error", err)
		return nil, err
	}
	s.log.Debugw("fetched attendees", "count", len(list))
	return list, nil
}
