// Package screen holds the door app's controllers. Fetches and scans are
// explicit inputs; each controller decides what to fetch and which results
// still apply.
package screen

import (
	"context"
	"errors"
	"sync"

	"github.com/harrylevesque/gatecheck/internal/models"
	"github.com/harrylevesque/gatecheck/internal/utils"
)

var (
	// ErrRefreshInFlight is returned when a fetch is requested while one is
	// still running for the same screen.
	ErrRefreshInFlight = errors.New("refresh already in flight")
	// ErrDiscarded is returned for a fetch whose screen was left or reset
	// before it completed. Its result was not applied.
	ErrDiscarded = errors.New("fetch result discarded")
)

// CredentialSource yields the credentials to use for the next fetch.
type CredentialSource interface {
	Credentials() (models.Credentials, error)
}

// State is what a list screen shows besides the list itself.
type State struct {
	Loading    bool   `json:"loading"`
	Refreshing bool   `json:"refreshing"`
	Error      string `json:"error,omitempty"`
}

// listLoader runs one fetch at a time and applies results only if nothing
// invalidated them in the meantime.
type listLoader[T any] struct {
	mu       sync.Mutex
	items    []T
	state    State
	gen      uint64
	inFlight bool
	cancel   context.CancelFunc
}

func (l *listLoader[T]) run(ctx context.Context, first bool, fetch func(context.Context) ([]T, error)) error {
	l.mu.Lock()
	if l.inFlight {
		l.mu.Unlock()
		return ErrRefreshInFlight
	}
	l.inFlight = true
	l.gen++
	gen := l.gen
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	if first {
		l.state.Loading = true
	} else {
		l.state.Refreshing = true
	}
	l.mu.Unlock()
	defer cancel()

	items, err := fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return ErrDiscarded
	}
	l.inFlight = false
	l.cancel = nil
	l.state.Loading = false
	l.state.Refreshing = false
	if err != nil {
		l.state.Error = utils.UserMessage(err)
		if first {
			l.items = nil
		}
		return err
	}
	l.items = items
	l.state.Error = ""
	return nil
}

// invalidate cancels a pending fetch and makes its result stale.
func (l *listLoader[T]) invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.inFlight = false
	l.state.Loading = false
	l.state.Refreshing = false
}

// reset drops everything, leaving msg as the error.
func (l *listLoader[T]) reset(msg string) {
	l.invalidate()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.state.Error = msg
}

func (l *listLoader[T]) snapshot() ([]T, State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T{}, l.items...), l.state
}
