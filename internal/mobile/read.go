package mobile

import (
	"bufio"
	"context"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ReaderScanner reads codes line by line from r. Keyboard-wedge and serial
// scanners type the code followed by Enter, so stdin works as a source.
type ReaderScanner struct {
	r        io.Reader
	debounce time.Duration
	now      func() time.Time
	log      *zap.SugaredLogger

	mu      sync.Mutex
	started bool
}

// NewReaderScanner returns a scanner over r. The same payload seen again
// within debounce is dropped; 0 disables debouncing.
func NewReaderScanner(r io.Reader, debounce time.Duration, log *zap.SugaredLogger) *ReaderScanner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ReaderScanner{r: r, debounce: debounce, now: time.Now, log: log}
}

// RequestPermission always grants; a line reader needs no camera.
func (s *ReaderScanner) RequestPermission(ctx context.Context) (Permission, error) {
	return PermissionGranted, nil
}

// Start may be called once. The reading goroutine stays blocked in Read
// until the reader yields, even after ctx ends.
func (s *ReaderScanner) Start(ctx context.Context) (<-chan ScanEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil, ErrScannerStarted
	}
	s.started = true

	out := make(chan ScanEvent)
	go func() {
		defer close(out)
		var (
			last   ScanEvent
			lastAt time.Time
		)
		sc := bufio.NewScanner(s.r)
		for sc.Scan() {
			ev, ok := ParseLine(sc.Text())
			if !ok {
				continue
			}
			now := s.now()
			if s.debounce > 0 && ev == last && now.Sub(lastAt) < s.debounce {
				s.log.Debugw("debounced scan", "type", ev.Type)
				continue
			}
			last, lastAt = ev, now

			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			s.log.Warnw("scanner input failed", "error", err)
		}
	}()
	return out, nil
}
