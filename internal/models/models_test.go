package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIn_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want CheckIn
	}{
		{`"1"`, CheckedIn},
		{`"0"`, NotCheckedIn},
		{`""`, ""},
		{`null`, ""},
		{`1`, CheckedIn},
		{`0`, NotCheckedIn},
		{`true`, CheckedIn},
		{`false`, NotCheckedIn},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var a Attendee
			require.NoError(t, json.Unmarshal([]byte(`{"attendee_id":1,"check_in":`+tt.in+`}`), &a))
			assert.Equal(t, tt.want, a.CheckIn)
		})
	}

	var a Attendee
	assert.Error(t, json.Unmarshal([]byte(`{"check_in":{}}`), &a))
}

func TestAttendee_CheckedIn(t *testing.T) {
	assert.True(t, Attendee{CheckIn: "1"}.CheckedIn())
	assert.False(t, Attendee{CheckIn: "0"}.CheckedIn())
	assert.False(t, Attendee{}.CheckedIn())
}

func TestAttendee_StatusBadge(t *testing.T) {
	assert.Equal(t, BadgeGreen, Attendee{OrderStatus: "completed"}.StatusBadge())
	assert.Equal(t, BadgeBlue, Attendee{OrderStatus: "processing"}.StatusBadge())
	assert.Equal(t, BadgeOrange, Attendee{OrderStatus: "refunded"}.StatusBadge())
}

func TestEvent_DisplayTitle(t *testing.T) {
	assert.Equal(t, "Foo & Bar", Event{Title: "Foo &amp; Bar"}.DisplayTitle())
	assert.Equal(t, "Plain", Event{Title: "Plain"}.DisplayTitle())
}

func TestCredentials(t *testing.T) {
	c := Credentials{Username: "a", Password: "b", BaseURL: "https://x.test/"}
	assert.True(t, c.Complete())
	assert.Equal(t, "https://x.test/wp-json/ls/api/v1/login", c.Endpoint("/wp-json/ls/api/v1/login"))

	c.Password = ""
	assert.False(t, c.Complete())

	out, err := json.Marshal(Credentials{Username: "a", Password: "secret", BaseURL: "u"})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret")
}
