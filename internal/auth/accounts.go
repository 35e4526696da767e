// Package auth holds the operator accounts the staging backend accepts.
package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when the provided credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when registering a username twice.
	ErrUserExists = errors.New("user already exists")
)

// Accounts maps usernames to bcrypt password hashes.
type Accounts struct {
	mu    sync.RWMutex
	users map[string][]byte
	cost  int
}

type Option func(*Accounts)

// WithCost sets the bcrypt cost used by Register. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(a *Accounts) { a.cost = cost }
}

func NewAccounts(opts ...Option) *Accounts {
	a := &Accounts{
		users: make(map[string][]byte),
		cost:  bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register hashes password and stores it for username.
func (a *Accounts) Register(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return err
	}
	return a.RegisterHash(username, hash)
}

// RegisterHash stores an existing bcrypt hash, as found in fixture files.
func (a *Accounts) RegisterHash(username string, hash []byte) error {
	if _, err := bcrypt.Cost(hash); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.users[username]; ok {
		return ErrUserExists
	}
	a.users[username] = hash
	return nil
}

// Verify checks a username/password pair.
func (a *Accounts) Verify(username, password string) error {
	a.mu.RLock()
	hash, ok := a.users[username]
	a.mu.RUnlock()
	if !ok {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Middleware rejects requests without valid Basic-Auth credentials, the way
// WordPress application passwords answer: 401 with a JSON error body.
func (a *Accounts) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || a.Verify(username, password) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="WordPress"`)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"code":    "rest_not_logged_in",
				"message": "You are not currently logged in.",
				"data":    map[string]int{"status": http.StatusUnauthorized},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
