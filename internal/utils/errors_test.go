package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := Wrap(KindNetworkFailure, "fetch events", fmt.Errorf("connection refused"))

	assert.True(t, errors.Is(err, ErrNetworkFailure))
	assert.False(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, KindNetworkFailure, KindOf(err))
}

func TestError_UnwrapFindsCause(t *testing.T) {
	cause := errors.New("root cause")
	err := fmt.Errorf("outer: %w", Wrap(KindMalformedResponse, "decode", cause))

	require.True(t, errors.Is(err, cause))
	require.True(t, errors.Is(err, ErrMalformedResponse))
	assert.Equal(t, "outer: decode: root cause", err.Error())
}

func TestError_MessageFallsBackToKind(t *testing.T) {
	assert.Equal(t, "scan_not_resolved", ErrScanNotResolved.Error())
}

func TestKindOf_ForeignError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"missing", New(KindCredentialsMissing, "x"), "Required details missing from storage."},
		{"unauthorized", Rejected(401, "x"), "Login failed. Please check your credentials."},
		{"server error", Rejected(500, "x"), "Request failed with status code 500"},
		{"network", Wrap(KindNetworkFailure, "x", errors.New("dial")), "Network Error"},
		{"timeout", New(KindTimeout, "x"), "The server took too long to respond."},
		{"malformed", New(KindMalformedResponse, "x"), "Unexpected response from server."},
		{"not resolved", New(KindScanNotResolved, "x"), "No matching attendee found for scanned ticket."},
		{"unparseable", New(KindScanUnparseable, "x"), "Scanned code is not a ticket."},
		{"permission", New(KindPermissionDenied, "x"), "No access to camera"},
		{"foreign", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
