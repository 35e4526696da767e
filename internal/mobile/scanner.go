// Package mobile connects code scanners to the door flow: scan events, the
// single-subscriber hub they travel through, terminal rendering and the
// string API exported to the native apps.
package mobile

import (
	"context"
	"errors"
	"sync"
)

// ScanEvent is one decoded code from a scanner.
type ScanEvent struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

type Permission string

const (
	PermissionPending Permission = "pending"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Scanner is a camera or other code reader. RequestPermission is asked once
// per scanning session; Start delivers events until ctx ends or the source
// is exhausted, then closes the channel.
type Scanner interface {
	RequestPermission(ctx context.Context) (Permission, error)
	Start(ctx context.Context) (<-chan ScanEvent, error)
}

var (
	ErrAlreadySubscribed = errors.New("scan hub already has a subscriber")
	ErrScannerStarted    = errors.New("scanner already started")
)

// Hub hands scan events to exactly one subscriber at a time. Events
// published while nobody listens are dropped.
type Hub struct {
	mu  sync.Mutex
	sub *Subscription
}

func NewHub() *Hub {
	return &Hub{}
}

// Subscription receives on C until Unsubscribe; Done is closed then. C is
// never closed.
type Subscription struct {
	C <-chan ScanEvent

	ch   chan ScanEvent
	done chan struct{}
	hub  *Hub
	once sync.Once
}

// Subscribe registers the single subscriber. With buffer 0 a publisher
// waits until the subscriber takes the event.
func (h *Hub) Subscribe(buffer int) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sub != nil {
		return nil, ErrAlreadySubscribed
	}
	ch := make(chan ScanEvent, buffer)
	h.sub = &Subscription{C: ch, ch: ch, done: make(chan struct{}), hub: h}
	return h.sub, nil
}

func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Unsubscribe releases the hub. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()
		if s.hub.sub == s {
			s.hub.sub = nil
		}
		close(s.done)
	})
}

// Subscribed reports whether a subscriber is active.
func (h *Hub) Subscribed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sub != nil
}

// Publish hands ev to the current subscriber and reports whether it was
// taken. It gives up when the subscriber leaves or ctx ends.
func (h *Hub) Publish(ctx context.Context, ev ScanEvent) bool {
	h.mu.Lock()
	sub := h.sub
	h.mu.Unlock()
	if sub == nil {
		return false
	}
	select {
	case <-sub.done:
		return false
	default:
	}
	select {
	case sub.ch <- ev:
		return true
	case <-sub.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// Pump publishes everything from events until it closes or ctx ends.
func (h *Hub) Pump(ctx context.Context, events <-chan ScanEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			h.Publish(ctx, ev)
		}
	}
}
