// Package remote talks to the WordPress ticketing backend: the Events
// Calendar events endpoint and the ls/api/v1 attendee plugin.
package remote

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harrylevesque/gatecheck/internal/certs"
	"github.com/harrylevesque/gatecheck/internal/config"
	"github.com/harrylevesque/gatecheck/internal/models"
	"github.com/harrylevesque/gatecheck/internal/utils"
)

// Backend paths, relative to the stored base URL.
const (
	EventsPath        = "/wp-json/tribe/events/v1/events"
	AttendeesPathBase = "/wp-json/ls/api/v1/attendees/"
	LoginPath         = "/wp-json/ls/api/v1/login"
)

const maxBodyBytes = 16 << 20

// Client issues single, non-retried GETs against the backend.
type Client struct {
	http      *http.Client
	userAgent string
	log       *zap.SugaredLogger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client. Its Timeout is left as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New returns a client whose requests fail with a Timeout error after timeout.
func New(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: "gatecheck/1.0",
		log:       zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig builds a client from the api section, trusting the extra CAs
// in cfg.CADir when set.
func NewFromConfig(cfg config.APIConfig, log *zap.SugaredLogger) (*Client, error) {
	opts := []Option{WithUserAgent(cfg.UserAgent), WithLogger(log)}
	if cfg.CADir != "" {
		pool, err := certs.NewCertManager(cfg.CADir).CertPool()
		if err != nil {
			return nil, fmt.Errorf("load ca dir %s: %w", cfg.CADir, err)
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
		opts = append(opts, WithHTTPClient(&http.Client{Timeout: cfg.Timeout, Transport: transport}))
	}
	return New(cfg.Timeout, opts...), nil
}

// FetchEvents returns the events list in server order.
func (c *Client) FetchEvents(ctx context.Context, creds models.Credentials) ([]models.Event, error) {
	var events []models.Event
	if err := c.getList(ctx, creds, EventsPath, "events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// FetchAttendees returns every attendee of the event in server order.
func (c *Client) FetchAttendees(ctx context.Context, creds models.Credentials, eventID int) ([]models.Attendee, error) {
	var attendees []models.Attendee
	path := AttendeesPathBase + strconv.Itoa(eventID)
	if err := c.getList(ctx, creds, path, "attendees", &attendees); err != nil {
		return nil, err
	}
	return attendees, nil
}

// VerifyLogin checks credentials against the login endpoint. Only a 200
// counts as success.
func (c *Client) VerifyLogin(ctx context.Context, creds models.Credentials) error {
	resp, err := c.do(ctx, creds, LoginPath)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode != http.StatusOK {
		return utils.Rejected(resp.StatusCode, fmt.Sprintf("login rejected with status %d", resp.StatusCode))
	}
	return nil
}

func (c *Client) getList(ctx context.Context, creds models.Credentials, path, key string, out any) error {
	resp, err := c.do(ctx, creds, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		c.log.Warnw("backend rejected request", "path", path, "status", resp.StatusCode)
		return utils.Rejected(resp.StatusCode, fmt.Sprintf("GET %s returned status %d", path, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return classify(ctx, fmt.Sprintf("read %s", path), err)
	}
	return decodeList(body, key, out)
}

// decodeList extracts envelope[key] into out. A missing key is malformed; an
// explicit null is an empty list.
func decodeList(body []byte, key string, out any) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return utils.Wrap(utils.KindMalformedResponse, "decode response", err)
	}
	raw, ok := envelope[key]
	if !ok {
		return utils.New(utils.KindMalformedResponse, fmt.Sprintf("response has no %q field", key))
	}
	if string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return utils.Wrap(utils.KindMalformedResponse, fmt.Sprintf("decode %s", key), err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, creds models.Credentials, path string) (*http.Response, error) {
	if !creds.Complete() {
		return nil, utils.New(utils.KindCredentialsMissing, "username, password and base URL are required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, creds.Endpoint(path), nil)
	if err != nil {
		return nil, utils.Wrap(utils.KindNetworkFailure, "build request", err)
	}
	reqID := uuid.NewString()
	req.SetBasicAuth(creds.Username, creds.Password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warnw("backend request failed", "path", path, "request_id", reqID, "error", err)
		return nil, classify(ctx, fmt.Sprintf("GET %s", path), err)
	}
	c.log.Debugw("backend request",
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)
	return resp, nil
}

func classify(ctx context.Context, msg string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return utils.Wrap(utils.KindTimeout, msg, err)
	}
	return utils.Wrap(utils.KindNetworkFailure, msg, err)
}
