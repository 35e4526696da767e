// Package session owns the operator's credentials for the life of the app:
// loaded at start, written on login, password dropped on logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/harrylevesque/gatecheck/internal/files"
	"github.com/harrylevesque/gatecheck/internal/models"
)

// Verifier checks credentials against the backend.
type Verifier interface {
	VerifyLogin(ctx context.Context, creds models.Credentials) error
}

// Session reads through to the store on every call, so a change made by
// another process is picked up before the next fetch.
type Session struct {
	store    files.Store
	verifier Verifier
	log      *zap.SugaredLogger

	mu        sync.Mutex
	listeners []func(models.Credentials)
}

func New(store files.Store, verifier Verifier, log *zap.SugaredLogger) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Session{store: store, verifier: verifier, log: log}
}

// Credentials reads the three stored fields. Missing keys are empty strings.
func (s *Session) Credentials() (models.Credentials, error) {
	var creds models.Credentials
	for _, f := range []struct {
		key string
		dst *string
	}{
		{models.KeyUsername, &creds.Username},
		{models.KeyPassword, &creds.Password},
		{models.KeyBaseURL, &creds.BaseURL},
	} {
		v, _, err := s.store.Get(f.key)
		if err != nil {
			return models.Credentials{}, fmt.Errorf("read %s: %w", f.key, err)
		}
		*f.dst = v
	}
	return creds, nil
}

// Load is called at startup and reports whether a login can be skipped.
func (s *Session) Load() (models.Credentials, bool, error) {
	creds, err := s.Credentials()
	if err != nil {
		return models.Credentials{}, false, err
	}
	return creds, authenticated(creds), nil
}

// Authenticated is true when a username and password are stored.
func (s *Session) Authenticated() (bool, error) {
	creds, err := s.Credentials()
	if err != nil {
		return false, err
	}
	return authenticated(creds), nil
}

// Login verifies creds and stores them. Nothing is written when
// verification fails, and a failed write puts the previous values back.
func (s *Session) Login(ctx context.Context, creds models.Credentials) error {
	creds.Username = strings.TrimSpace(creds.Username)
	creds.BaseURL = strings.TrimSpace(creds.BaseURL)

	if err := s.verifier.VerifyLogin(ctx, creds); err != nil {
		s.log.Infow("login rejected", "username", creds.Username, "base_url", creds.BaseURL, "error", err)
		return err
	}

	prev, err := s.snapshot()
	if err != nil {
		return err
	}
	for _, f := range []storedField{
		{models.KeyUsername, creds.Username, true},
		{models.KeyPassword, creds.Password, true},
		{models.KeyBaseURL, creds.BaseURL, true},
	} {
		if err := s.store.Set(f.key, f.value); err != nil {
			if rerr := s.restore(prev); rerr != nil {
				s.log.Errorw("restore credentials after failed login", "error", rerr)
			}
			return fmt.Errorf("store %s: %w", f.key, err)
		}
	}
	s.log.Infow("logged in", "username", creds.Username, "base_url", creds.BaseURL)
	s.notify(creds)
	return nil
}

type storedField struct {
	key   string
	value string
	ok    bool
}

func (s *Session) snapshot() ([]storedField, error) {
	var fields []storedField
	for _, key := range []string{models.KeyUsername, models.KeyPassword, models.KeyBaseURL} {
		v, ok, err := s.store.Get(key)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		fields = append(fields, storedField{key: key, value: v, ok: ok})
	}
	return fields, nil
}

// restore writes back every field, removing those that were unset.
func (s *Session) restore(fields []storedField) error {
	var errs []error
	for _, f := range fields {
		if f.ok {
			errs = append(errs, s.store.Set(f.key, f.value))
		} else {
			errs = append(errs, s.store.Remove(f.key))
		}
	}
	return errors.Join(errs...)
}

// Logout forgets the password only; username and base URL stay for the
// next login form.
func (s *Session) Logout() error {
	if err := s.store.Remove(models.KeyPassword); err != nil {
		return fmt.Errorf("remove password: %w", err)
	}
	creds, err := s.Credentials()
	if err != nil {
		return err
	}
	s.log.Infow("logged out", "username", creds.Username)
	s.notify(creds)
	return nil
}

// OnChange registers fn to run after every login and logout.
func (s *Session) OnChange(fn func(models.Credentials)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Session) notify(creds models.Credentials) {
	s.mu.Lock()
	listeners := append([]func(models.Credentials){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(creds)
	}
}

func authenticated(c models.Credentials) bool {
	return c.Username != "" && c.Password != ""
}
