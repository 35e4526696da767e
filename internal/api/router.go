// Package api is a staging stand-in for the WordPress ticketing backend. It
// serves the same endpoints the door client reads, from a fixtures file.
package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/harrylevesque/gatecheck/internal/auth"
)

func NewRouter(data *Dataset, accounts *auth.Accounts, log *zap.SugaredLogger) *mux.Router {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	h := &handlers{data: data}

	r := mux.NewRouter()
	r.Use(RequestIDMiddleware, RequestLogger(log), RecoveryMiddleware(log))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)
	r.HandleFunc("/time", GetTimeHandler).Methods(http.MethodGet)

	wp := r.PathPrefix("/wp-json").Subrouter()
	wp.Use(accounts.Middleware)
	wp.HandleFunc("/tribe/events/v1/events", h.events).Methods(http.MethodGet)
	wp.HandleFunc("/ls/api/v1/login", h.login).Methods(http.MethodGet)
	wp.HandleFunc("/ls/api/v1/attendees/{id}", h.attendees).Methods(http.MethodGet)
	wp.HandleFunc("/ls/api/v1/attendees/{id}/{attendee}/checkin", h.checkIn).Methods(http.MethodPost)
	return r
}
