package lookup

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/harrylevesque/gatecheck/internal/models"
	"github.com/harrylevesque/gatecheck/internal/utils"
)

// ResolveScannedAttendee finds the attendee whose id is the scanned payload.
// Only the loaded list is searched: check-in state is as fresh as the last
// fetch, and attendees missing from the list cannot be resolved.
func ResolveScannedAttendee(list []models.Attendee, payload string) (models.Attendee, error) {
	id, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		return models.Attendee{}, utils.Wrap(utils.KindScanUnparseable,
			fmt.Sprintf("scanned code %q is not a ticket id", payload), err)
	}
	for _, a := range list {
		if a.AttendeeID == id {
			return a, nil
		}
	}
	return models.Attendee{}, utils.New(utils.KindScanNotResolved,
		fmt.Sprintf("no attendee with id %d in the loaded list", id))
}

// IsNotFound reports whether err means the scan matched no attendee, either
// because the payload was not a ticket id or because no attendee had it.
func IsNotFound(err error) bool {
	return errors.Is(err, utils.ErrScanNotResolved) || errors.Is(err, utils.ErrScanUnparseable)
}
