package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/harrylevesque/gatecheck/internal/api"
	"github.com/harrylevesque/gatecheck/internal/auth"
	"github.com/harrylevesque/gatecheck/internal/models"
	"github.com/harrylevesque/gatecheck/internal/utils"
)

const fixtures = `
accounts:
  - username: door
    password: s3cret
events:
  - id: 1
    title: "Foo &amp; Bar"
    attendees:
      - attendee_id: 7
        holder_name: Jane Doe
        order_status: completed
        check_in: "1"
        purchaser_name: Jane Doe
        ticket_name: GA
      - attendee_id: 8
        holder_name: John Roe
        order_status: processing
        check_in: "0"
`

func setup(t *testing.T) string {
	t.Helper()
	f, err := api.ParseFixtures([]byte(fixtures))
	require.NoError(t, err)
	accounts, err := f.BuildAccounts(auth.WithCost(bcrypt.MinCost))
	require.NoError(t, err)
	srv := httptest.NewServer(api.NewRouter(f.Dataset(), accounts, nil))
	t.Cleanup(srv.Close)

	t.Setenv("GATECHECK_STORE_BACKEND", "file")
	t.Setenv("GATECHECK_STORE_PATH", filepath.Join(t.TempDir(), "credentials.json"))
	t.Setenv("GATECHECK_LOGGING_LEVEL", "error")
	t.Setenv("GATECHECK_API_BASE_URL", "")
	return srv.URL
}

func runCLI(t *testing.T, o options, stdin string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), o, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func login(t *testing.T, baseURL string) {
	t.Helper()
	out, _, err := runCLI(t, options{cmd: "login", user: "door", password: "s3cret", baseURL: baseURL}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as door")
}

func TestLogin(t *testing.T) {
	baseURL := setup(t)

	_, _, err := runCLI(t, options{cmd: "login", user: "door", password: "wrong", baseURL: baseURL}, "")
	require.Error(t, err)
	assert.Equal(t, "Login failed. Please check your credentials.", utils.UserMessage(err))

	out, _, err := runCLI(t, options{cmd: "whoami", output: "json"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, `"authenticated": false`)

	login(t, baseURL)
	out, _, err = runCLI(t, options{cmd: "whoami", output: "json"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, `"authenticated": true`)
	assert.NotContains(t, out, "s3cret")
}

func TestEventsAndAttendees(t *testing.T) {
	baseURL := setup(t)
	login(t, baseURL)

	out, _, err := runCLI(t, options{cmd: "events"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Foo & Bar")

	out, _, err = runCLI(t, options{cmd: "attendees", eventID: 1, search: "jane", status: "completed", checkIn: "1", output: "json"}, "")
	require.NoError(t, err)
	var list []models.Attendee
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, 7, list[0].AttendeeID)

	out, _, err = runCLI(t, options{cmd: "attendees", eventID: 1, search: "jane", checkIn: "0", output: "json"}, "")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)

	_, _, err = runCLI(t, options{cmd: "attendees"}, "")
	assert.Error(t, err)
}

func TestScan(t *testing.T) {
	baseURL := setup(t)
	login(t, baseURL)

	out, errOut, err := runCLI(t, options{cmd: "scan", eventID: 1, output: "yaml"}, "abc\n43\n8\n7\n")
	require.NoError(t, err)
	assert.Contains(t, out, "holder_name: John Roe")
	assert.Contains(t, out, "event_title: Foo & Bar")
	assert.Contains(t, errOut, "Scanned code is not a ticket.")
	assert.Contains(t, errOut, "No matching attendee found for scanned ticket.")

	out, _, err = runCLI(t, options{cmd: "scan", eventID: 1, code: "7"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe")

	_, _, err = runCLI(t, options{cmd: "scan", eventID: 1, code: "99"}, "")
	assert.ErrorIs(t, err, utils.ErrScanNotResolved)
}

func TestScan_CodeKeepsFailureKind(t *testing.T) {
	baseURL := setup(t)
	login(t, baseURL)

	_, errOut, err := runCLI(t, options{cmd: "scan", eventID: 1, code: "abc"}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrScanUnparseable)
	assert.NotErrorIs(t, err, utils.ErrScanNotResolved)
	assert.Equal(t, "Scanned code is not a ticket.", utils.UserMessage(err))
	assert.Contains(t, errOut, "Scanned code is not a ticket.")
}

func TestTicket(t *testing.T) {
	baseURL := setup(t)
	login(t, baseURL)

	out, _, err := runCLI(t, options{cmd: "ticket", eventID: 1, attendeeID: 8}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Holder Name:")
	assert.Contains(t, out, "John Roe")

	_, _, err = runCLI(t, options{cmd: "ticket", eventID: 1, attendeeID: 99}, "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, utils.ErrScanNotResolved)
	assert.Contains(t, err.Error(), "attendee 99 not found in event 1")
}

func TestLogoutKeepsUsernameAndSite(t *testing.T) {
	baseURL := setup(t)
	login(t, baseURL)

	out, _, err := runCLI(t, options{cmd: "logout"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")

	_, _, err = runCLI(t, options{cmd: "events"}, "")
	assert.ErrorIs(t, err, utils.ErrCredentialsMissing)

	out, _, err = runCLI(t, options{cmd: "whoami", output: "yaml"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "username: door")
	assert.Contains(t, out, "baseUrl: "+baseURL)

	// Username and site are prefilled from the store.
	out, _, err = runCLI(t, options{cmd: "login", password: "s3cret"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, baseURL)
}

func TestUnknownCommand(t *testing.T) {
	setup(t)
	_, _, err := runCLI(t, options{cmd: "nope"}, "")
	assert.Error(t, err)
}
