package mobile

import (
	"encoding/json"
	"errors"

	"github.com/harrylevesque/gatecheck/internal/lookup"
	"github.com/harrylevesque/gatecheck/internal/models"
	"github.com/harrylevesque/gatecheck/internal/utils"
)

// The functions below only take and return strings so gomobile can bind
// them. Lists travel as JSON arrays of attendees in the backend's shape.

// FilterAttendeesJSON filters a JSON attendee list. Empty orderStatus or
// checkIn means no filter on that field.
func FilterAttendeesJSON(attendeesJSON, search, orderStatus, checkIn string) (string, error) {
	list, err := decodeAttendees(attendeesJSON)
	if err != nil {
		return "", err
	}
	f := lookup.Filter{Search: search}
	if orderStatus != "" {
		f.OrderStatus = lookup.StringPtr(orderStatus)
	}
	if checkIn != "" {
		f.CheckIn = lookup.StringPtr(checkIn)
	}
	out, err := json.Marshal(lookup.FilterAttendees(list, f))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ResolveScanJSON returns the matching attendee as JSON. The error text is
// ready to show to the operator.
func ResolveScanJSON(attendeesJSON, payload string) (string, error) {
	list, err := decodeAttendees(attendeesJSON)
	if err != nil {
		return "", err
	}
	a, err := lookup.ResolveScannedAttendee(list, payload)
	if err != nil {
		return "", errors.New(utils.UserMessage(err))
	}
	out, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DecodeTitle decodes HTML entities in an event title.
func DecodeTitle(title string) string {
	return models.Event{Title: title}.DisplayTitle()
}

func decodeAttendees(s string) ([]models.Attendee, error) {
	var list []models.Attendee
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil, errors.New(utils.UserMessage(utils.Wrap(utils.KindMalformedResponse, "decode attendees", err)))
	}
	return list, nil
}
