package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	OrderStatusCompleted  = "completed"
	OrderStatusProcessing = "processing"
)

// Badge colours shown next to an attendee in lists.
const (
	BadgeGreen  = "green"
	BadgeBlue   = "blue"
	BadgeOrange = "orange"
)

// Attendee is one ticket holder of an event, as returned by the attendees endpoint.
type Attendee struct {
	AttendeeID    int     `json:"attendee_id" yaml:"attendee_id"`
	HolderName    string  `json:"holder_name" yaml:"holder_name"`
	OrderStatus   string  `json:"order_status" yaml:"order_status"`
	CheckIn       CheckIn `json:"check_in" yaml:"check_in"`
	PurchaserName string  `json:"purchaser_name" yaml:"purchaser_name"`
	TicketName    string  `json:"ticket_name" yaml:"ticket_name"`
}

// CheckedIn reports whether the backend marked the ticket as admitted.
func (a Attendee) CheckedIn() bool {
	return a.CheckIn == CheckedIn
}

// StatusBadge returns the colour used for the attendee's order status.
func (a Attendee) StatusBadge() string {
	switch a.OrderStatus {
	case OrderStatusCompleted:
		return BadgeGreen
	case OrderStatusProcessing:
		return BadgeBlue
	default:
		return BadgeOrange
	}
}

// CheckIn holds the backend's check-in flag: "1", "0" or empty.
type CheckIn string

const (
	CheckedIn    CheckIn = "1"
	NotCheckedIn CheckIn = "0"
)

// UnmarshalJSON accepts strings, numbers, booleans and null. Some plugin
// versions emit check_in as 1/0 or true/false instead of "1"/"0".
func (c *CheckIn) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
	case bytes.Equal(data, []byte("true")):
		*c = CheckedIn
	case bytes.Equal(data, []byte("false")):
		*c = NotCheckedIn
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = CheckIn(s)
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("check_in: unsupported value %s", data)
		}
		*c = CheckIn(strconv.FormatFloat(n, 'f', -1, 64))
	}
	return nil
}
