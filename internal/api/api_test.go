package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/harrylevesque/gatecheck/internal/auth"
	"github.com/harrylevesque/gatecheck/internal/models"
)

const testFixtures = `
accounts:
  - username: door
    password: s3cret
events:
  - id: 1
    title: "Foo &amp; Bar"
    attendees:
      - attendee_id: 43
        holder_name: John Roe
        order_status: processing
        check_in: "0"
      - attendee_id: 42
        holder_name: Jane Doe
        order_status: completed
        check_in: "1"
        ticket_name: General Admission
  - id: 2
    title: Empty Night
`

func newTestRouter(t *testing.T) (http.Handler, *Dataset) {
	t.Helper()
	f, err := ParseFixtures([]byte(testFixtures))
	require.NoError(t, err)
	accounts, err := f.BuildAccounts(auth.WithCost(bcrypt.MinCost))
	require.NoError(t, err)
	ds := f.Dataset()
	return NewRouter(ds, accounts, nil), ds
}

func doGet(h http.Handler, path string, withAuth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if withAuth {
		req.SetBasicAuth("door", "s3cret")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	h, _ := newTestRouter(t)
	w := doGet(h, "/health", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK\n", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_RequestIDPropagates(t *testing.T) {
	h, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/time", nil)
	req.Header.Set("X-Request-ID", "door-req-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "door-req-1", w.Header().Get("X-Request-ID"))
}

func TestRouter_Events(t *testing.T) {
	h, _ := newTestRouter(t)
	w := doGet(h, "/wp-json/tribe/events/v1/events", true)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Events []models.Event `json:"events"`
		Total  int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Events, 2)
	assert.Equal(t, "Foo &amp; Bar", body.Events[0].Title)
	assert.Equal(t, 2, body.Total)
}

func TestRouter_Attendees(t *testing.T) {
	h, _ := newTestRouter(t)

	t.Run("sorted by id", func(t *testing.T) {
		w := doGet(h, "/wp-json/ls/api/v1/attendees/1", true)
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Attendees []models.Attendee `json:"attendees"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Attendees, 2)
		assert.Equal(t, 42, body.Attendees[0].AttendeeID)
		assert.True(t, body.Attendees[0].CheckedIn())
	})

	t.Run("event without attendees", func(t *testing.T) {
		w := doGet(h, "/wp-json/ls/api/v1/attendees/2", true)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"attendees":[]}`, w.Body.String())
	})

	t.Run("unknown event", func(t *testing.T) {
		w := doGet(h, "/wp-json/ls/api/v1/attendees/99", true)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non numeric id", func(t *testing.T) {
		w := doGet(h, "/wp-json/ls/api/v1/attendees/abc", true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_RequiresBasicAuth(t *testing.T) {
	h, _ := newTestRouter(t)
	for _, path := range []string{
		"/wp-json/tribe/events/v1/events",
		"/wp-json/ls/api/v1/attendees/1",
		"/wp-json/ls/api/v1/login",
	} {
		t.Run(path, func(t *testing.T) {
			w := doGet(h, path, false)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouter_Login(t *testing.T) {
	h, _ := newTestRouter(t)
	w := doGet(h, "/wp-json/ls/api/v1/login", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"door"`)
}

func TestRouter_CheckIn(t *testing.T) {
	h, ds := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/wp-json/ls/api/v1/attendees/1/43/checkin", nil)
	req.SetBasicAuth("door", "s3cret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	list, err := ds.Attendees(1)
	require.NoError(t, err)
	assert.True(t, list[1].CheckedIn())

	req = httptest.NewRequest(http.MethodPost, "/wp-json/ls/api/v1/attendees/1/7/checkin", nil)
	req.SetBasicAuth("door", "s3cret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParseFixtures_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "events: ["},
		{"duplicate event", "events:\n  - id: 1\n  - id: 1\n"},
		{"no password", "accounts:\n  - username: door\n"},
		{"no username", "accounts:\n  - password: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixtures([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFixtures_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"events":[{"id":5,"title":"Gala","attendees":[{"attendee_id":1,"check_in":1}]}]}`), 0644))

	f, err := LoadFixtures(path)
	require.NoError(t, err)
	list, err := f.Dataset().Attendees(5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.CheckedIn, list[0].CheckIn)
}

func TestDataset_AddEventReplaces(t *testing.T) {
	ds := NewDataset()
	ds.AddEvent(models.Event{ID: 1, Title: "A"}, nil)
	ds.AddEvent(models.Event{ID: 1, Title: "B"}, []models.Attendee{{AttendeeID: 3}})

	events := ds.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "B", events[0].Title)
	list, err := ds.Attendees(1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
