package httpapi

import (
	"net/http"
	"sync/atomic"

	"recruitwatch/internal/events"
	"recruitwatch/internal/store"
)

type Deps struct {
	Store      *store.Store
	Hub        *events.Hub
	LastRun    *atomic.Value // stores scrape.RunStats
	TriggerRun func() bool
}

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Health,
	}))

	mh := MatchesHandler{Store: d.Store}
	mux.HandleFunc("/matches", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: mh.List,
	}))

	sh := StatusHandler{Store: d.Store, Last: d.LastRun}
	mux.HandleFunc("/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Status,
	}))

	rh := RunHandler{Trigger: d.TriggerRun}
	mux.HandleFunc("/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Run,
	}))

	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}
