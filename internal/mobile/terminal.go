package mobile

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/harrylevesque/gatecheck/internal/config"
	"github.com/harrylevesque/gatecheck/internal/models"
)

// Table is the plain-text form of a value.
type Table struct {
	Header []string
	Rows   [][]string
}

// Render writes data as JSON or YAML, or table as aligned columns.
func Render(w io.Writer, format string, data any, table Table) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	case config.OutputTable, "":
		return writeTable(w, table)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeTable(w io.Writer, t Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(t.Header) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Header, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// EventsTable lists events with decoded titles.
func EventsTable(events []models.Event) Table {
	t := Table{Header: []string{"ID", "TITLE"}}
	for _, e := range events {
		t.Rows = append(t.Rows, []string{strconv.Itoa(e.ID), e.DisplayTitle()})
	}
	return t
}

// AttendeesTable lists attendees the way the door list shows them: name,
// status badge and admission.
func AttendeesTable(list []models.Attendee) Table {
	t := Table{Header: []string{"ID", "HOLDER", "STATUS", "BADGE", "CHECKED IN", "TICKET"}}
	for _, a := range list {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(a.AttendeeID),
			a.HolderName,
			a.OrderStatus,
			a.StatusBadge(),
			yesNo(a.CheckedIn()),
			a.TicketName,
		})
	}
	return t
}

// FieldsTable renders label/value pairs, one per row.
func FieldsTable(fields [][2]string) Table {
	t := Table{}
	for _, f := range fields {
		t.Rows = append(t.Rows, []string{f[0] + ":", f[1]})
	}
	return t
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
