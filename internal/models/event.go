package models

import "html"

// Event is a calendar event as returned by the events endpoint.
type Event struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// DisplayTitle returns the title with HTML entities decoded.
// The events API returns rendered titles ("Foo &amp; Bar").
func (e Event) DisplayTitle() string {
	return html.UnescapeString(e.Title)
}
