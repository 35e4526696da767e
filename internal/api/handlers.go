package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/harrylevesque/gatecheck/internal/models"
)

type handlers struct {
	data *Dataset
}

// GetTimeHandler returns the current server time in RFC3339 format
func GetTimeHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"time": time.Now().Format(time.RFC3339)})
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	events := h.data.Events()
	writeJSON(w, http.StatusOK, map[string]any{
		"events":      events,
		"total":       len(events),
		"total_pages": 1,
	})
}

func (h *handlers) attendees(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "rest_invalid_param", "invalid event id")
		return
	}
	list, err := h.data.Attendees(eventID)
	if err != nil {
		writeError(w, http.StatusNotFound, "rest_event_not_found", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Attendee{"attendees": list})
}

func (h *handlers) checkIn(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventID, err1 := strconv.Atoi(vars["id"])
	attendeeID, err2 := strconv.Atoi(vars["attendee"])
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "rest_invalid_param", "invalid id")
		return
	}
	a, err := h.data.CheckIn(eventID, attendeeID)
	switch {
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrAttendeeNotFound):
		writeError(w, http.StatusNotFound, "rest_not_found", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// login only runs once the Basic-Auth middleware accepted the caller.
func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	username, _, _ := r.BasicAuth()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "username": username})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError uses the WordPress REST error shape.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"code":    code,
		"message": message,
		"data":    map[string]int{"status": status},
	})
}
