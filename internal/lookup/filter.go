// Package lookup holds the attendee search predicate and the join between a
// scanned ticket code and the loaded attendee list.
package lookup

import (
	"strings"

	"github.com/harrylevesque/gatecheck/internal/models"
)

// Filter is the attendee list's transient filter state. Nil pointers match
// everything.
type Filter struct {
	Search      string
	OrderStatus *string
	CheckIn     *string
}

// Matches reports whether a passes all three predicates.
func (f Filter) Matches(a models.Attendee) bool {
	if f.Search != "" && !containsFold(a.HolderName, f.Search) {
		return false
	}
	if f.OrderStatus != nil && a.OrderStatus != *f.OrderStatus {
		return false
	}
	if f.CheckIn != nil {
		switch *f.CheckIn {
		case string(models.CheckedIn):
			return a.CheckIn == models.CheckedIn
		case string(models.NotCheckedIn):
			return a.CheckIn == "" || a.CheckIn == models.NotCheckedIn
		default:
			return false
		}
	}
	return true
}

// FilterAttendees returns the attendees matching f in their original order.
// The result is always a fresh slice.
func FilterAttendees(list []models.Attendee, f Filter) []models.Attendee {
	out := make([]models.Attendee, 0, len(list))
	for _, a := range list {
		if f.Matches(a) {
			out = append(out, a)
		}
	}
	return out
}

// FilterEvents matches term against the decoded event title.
func FilterEvents(list []models.Event, term string) []models.Event {
	out := make([]models.Event, 0, len(list))
	for _, e := range list {
		if term == "" || containsFold(e.DisplayTitle(), term) {
			out = append(out, e)
		}
	}
	return out
}

// StringPtr is a helper for building filters.
func StringPtr(s string) *string {
	return &s
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
