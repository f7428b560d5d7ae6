// Package httpapi is the local observation surface: recent matches, run
// status, a manual run trigger, and an SSE stream of scrape events.
package httpapi

import (
	"net/http"
	"strconv"
	"sync/atomic"

	"recruitwatch/internal/scrape"
	"recruitwatch/internal/store"
)

type HealthHandler struct{}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type MatchesHandler struct {
	Store *store.Store
}

func (h MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	matches, err := h.Store.ListRecentMatches(r.Context(), limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if matches == nil {
		matches = []store.Match{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"matches": matches})
}

type StatusHandler struct {
	Store *store.Store
	Last  *atomic.Value // stores scrape.RunStats
}

func (h StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	var last scrape.RunStats
	if v, ok := h.Last.Load().(scrape.RunStats); ok {
		last = v
	}
	seen, err := h.Store.SeenCount(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"lastRun": last,
		"seen":    seen,
	})
}

type RunHandler struct {
	// Trigger requests an immediate scrape; it returns false when a run is
	// already in flight.
	Trigger func() bool
}

func (h RunHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !h.Trigger() {
		WriteError(w, http.StatusConflict, "already_running", "a scrape run is already in progress")
		return
	}
	WriteJSON(w, http.StatusAccepted, map[string]any{"started": true})
}
