package screen

import (
	"strconv"

	"github.com/harrylevesque/gatecheck/internal/models"
)

// TicketDetail is what the ticket view shows. It is built from copies of
// the event and attendee.
type TicketDetail struct {
	EventID       int    `json:"event_id" yaml:"event_id"`
	EventTitle    string `json:"event_title" yaml:"event_title"`
	AttendeeID    int    `json:"attendee_id" yaml:"attendee_id"`
	PurchaserName string `json:"purchaser_name" yaml:"purchaser_name"`
	HolderName    string `json:"holder_name" yaml:"holder_name"`
	TicketName    string `json:"ticket_name" yaml:"ticket_name"`
	CheckedIn     bool   `json:"checked_in" yaml:"checked_in"`
	OrderStatus   string `json:"order_status" yaml:"order_status"`
	Badge         string `json:"badge" yaml:"badge"`
}

func NewTicketDetail(e models.Event, a models.Attendee) TicketDetail {
	return TicketDetail{
		EventID:       e.ID,
		EventTitle:    e.DisplayTitle(),
		AttendeeID:    a.AttendeeID,
		PurchaserName: a.PurchaserName,
		HolderName:    a.HolderName,
		TicketName:    a.TicketName,
		CheckedIn:     a.CheckedIn(),
		OrderStatus:   a.OrderStatus,
		Badge:         a.StatusBadge(),
	}
}

// Fields lists the labelled values in display order.
func (t TicketDetail) Fields() [][2]string {
	checkedIn := "No"
	if t.CheckedIn {
		checkedIn = "Yes"
	}
	return [][2]string{
		{"Event", t.EventTitle},
		{"Attendee ID", strconv.Itoa(t.AttendeeID)},
		{"Purchaser", t.PurchaserName},
		{"Holder Name", t.HolderName},
		{"Ticket", t.TicketName},
		{"Checked In", checkedIn},
		{"Order status", t.OrderStatus},
	}
}
