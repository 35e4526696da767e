package screen

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harrylevesque/gatecheck/internal/mobile"
	"github.com/harrylevesque/gatecheck/internal/utils"
)

// ErrScannerClosed is returned when the scanner runs out of input before
// any code resolved.
var ErrScannerClosed = errors.New("scanner closed without a match")

// ScanHandler resolves one payload.
type ScanHandler interface {
	HandleScan(payload string) ScanResult
}

// ScanFlow is one visit to the scanning surface.
type ScanFlow struct {
	Scanner mobile.Scanner
	Hub     *mobile.Hub
	Handler ScanHandler
	// Notices receives the text for codes that did not resolve.
	Notices func(string)
	// Station identifies this device in logs.
	Station string
	Log     *zap.SugaredLogger
}

// Run scans until a code resolves, the scanner closes or ctx ends. Each
// delivered code is resolved once; the subscription is dropped as soon as
// one resolves, so later codes from the same session are ignored.
func (f *ScanFlow) Run(ctx context.Context) (TicketDetail, error) {
	log := f.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	log = log.With("scan_session", uuid.NewString(), "station", f.Station)

	perm, err := f.Scanner.RequestPermission(ctx)
	if err != nil {
		return TicketDetail{}, fmt.Errorf("request scanner permission: %w", err)
	}
	if perm != mobile.PermissionGranted {
		log.Infow("scanner permission not granted", "permission", perm)
		return TicketDetail{}, utils.New(utils.KindPermissionDenied, fmt.Sprintf("scanner permission %s", perm))
	}

	sub, err := f.Hub.Subscribe(0)
	if err != nil {
		return TicketDetail{}, err
	}
	defer sub.Unsubscribe()

	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	events, err := f.Scanner.Start(scanCtx)
	if err != nil {
		return TicketDetail{}, fmt.Errorf("start scanner: %w", err)
	}
	pumped := make(chan struct{})
	go func() {
		defer close(pumped)
		f.Hub.Pump(scanCtx, events)
	}()

	log.Infow("scanning")
	for {
		select {
		case <-ctx.Done():
			return TicketDetail{}, ctx.Err()
		case <-pumped:
			if err := ctx.Err(); err != nil {
				return TicketDetail{}, err
			}
			return TicketDetail{}, ErrScannerClosed
		case ev := <-sub.C:
			res := f.Handler.HandleScan(ev.Data)
			if res.Ticket != nil {
				sub.Unsubscribe()
				log.Infow("scan session resolved", "type", ev.Type, "attendee_id", res.Ticket.AttendeeID)
				return *res.Ticket, nil
			}
			if f.Notices != nil {
				f.Notices(res.Notice)
			}
		}
	}
}
