package api

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/harrylevesque/gatecheck/internal/auth"
	"github.com/harrylevesque/gatecheck/internal/models"
)

// Fixtures is the on-disk description of a staging backend. JSON files are
// accepted too since they parse as YAML.
type Fixtures struct {
	Accounts []AccountFixture `yaml:"accounts"`
	Events   []EventFixture   `yaml:"events"`
}

// AccountFixture holds either a plain password or a bcrypt hash.
type AccountFixture struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
}

type EventFixture struct {
	ID        int               `yaml:"id"`
	Title     string            `yaml:"title"`
	Attendees []models.Attendee `yaml:"attendees"`
}

// LoadFixtures reads and validates a fixtures file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	seen := make(map[int]bool, len(f.Events))
	for _, e := range f.Events {
		if seen[e.ID] {
			return nil, fmt.Errorf("parse fixtures: duplicate event id %d", e.ID)
		}
		seen[e.ID] = true
	}
	for _, a := range f.Accounts {
		if a.Username == "" {
			return nil, errors.New("parse fixtures: account without username")
		}
		if a.Password == "" && a.PasswordHash == "" {
			return nil, fmt.Errorf("parse fixtures: account %q has no password", a.Username)
		}
	}
	return &f, nil
}

// Dataset builds the in-memory dataset served by the router.
func (f *Fixtures) Dataset() *Dataset {
	ds := NewDataset()
	for _, e := range f.Events {
		ds.AddEvent(models.Event{ID: e.ID, Title: e.Title}, e.Attendees)
	}
	return ds
}

// BuildAccounts registers every fixture account.
func (f *Fixtures) BuildAccounts(opts ...auth.Option) (*auth.Accounts, error) {
	accounts := auth.NewAccounts(opts...)
	for _, a := range f.Accounts {
		var err error
		if a.PasswordHash != "" {
			err = accounts.RegisterHash(a.Username, []byte(a.PasswordHash))
		} else {
			err = accounts.Register(a.Username, a.Password)
		}
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", a.Username, err)
		}
	}
	return accounts, nil
}

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrAttendeeNotFound = errors.New("attendee not found")
)

// Dataset is the events and attendees a staging backend serves. Safe for
// concurrent use.
type Dataset struct {
	mu        sync.RWMutex
	events    []models.Event
	attendees map[int][]models.Attendee
}

func NewDataset() *Dataset {
	return &Dataset{attendees: make(map[int][]models.Attendee)}
}

// AddEvent adds or replaces an event and its attendees.
func (d *Dataset) AddEvent(e models.Event, attendees []models.Attendee) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.attendees[e.ID]; ok {
		for i := range d.events {
			if d.events[i].ID == e.ID {
				d.events[i] = e
			}
		}
	} else {
		d.events = append(d.events, e)
	}
	d.attendees[e.ID] = append([]models.Attendee{}, attendees...)
}

func (d *Dataset) Events() []models.Event {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Event{}, d.events...)
}

// Attendees returns a copy of an event's attendees, ordered by attendee id.
func (d *Dataset) Attendees(eventID int) ([]models.Attendee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	list, ok := d.attendees[eventID]
	if !ok {
		return nil, ErrEventNotFound
	}
	out := append([]models.Attendee{}, list...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].AttendeeID < out[j].AttendeeID })
	return out, nil
}

// CheckIn marks an attendee as admitted.
func (d *Dataset) CheckIn(eventID, attendeeID int) (models.Attendee, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list, ok := d.attendees[eventID]
	if !ok {
		return models.Attendee{}, ErrEventNotFound
	}
	for i := range list {
		if list[i].AttendeeID == attendeeID {
			list[i].CheckIn = models.CheckedIn
			return list[i], nil
		}
	}
	return models.Attendee{}, ErrAttendeeNotFound
}
