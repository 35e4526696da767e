package mobile

import (
	"context"
	"sync"
)

// StaticScanner replays a fixed list of events behind a fixed permission
// answer, for codes that arrive already decoded.
type StaticScanner struct {
	Permission Permission
	Events     []ScanEvent

	mu      sync.Mutex
	started bool
}

func NewStaticScanner(perm Permission, events ...ScanEvent) *StaticScanner {
	return &StaticScanner{Permission: perm, Events: events}
}

func (s *StaticScanner) RequestPermission(ctx context.Context) (Permission, error) {
	if err := ctx.Err(); err != nil {
		return PermissionPending, err
	}
	return s.Permission, nil
}

func (s *StaticScanner) Start(ctx context.Context) (<-chan ScanEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil, ErrScannerStarted
	}
	s.started = true

	out := make(chan ScanEvent)
	go func() {
		defer close(out)
		for _, ev := range s.Events {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
