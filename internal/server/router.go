package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/honeycarbs/job-portal/internal/ui"
	"github.com/honeycarbs/job-portal/pkg/logging"
)

// Options are the handlers mounted next to the job API
type Options struct {
	// MCP is mounted at /mcp/stream when set
	MCP http.Handler
	// StaticDir serves a built front end instead of the embedded page
	StaticDir string
	// Page is the embedded job board, used when StaticDir is empty
	Page http.Handler
}

// NewRouter builds the full route table
func NewRouter(h *Handler, opts Options, log *logging.Logger) http.Handler {
	if log == nil {
		log = logging.Nop()
	}

	router := mux.NewRouter()
	router.Use(requestID, accessLog(log), cors)

	// preflight requests for any path; cors answers them before this handler runs
	router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/debug", h.Debug).Methods(http.MethodGet)
	api.HandleFunc("/jobs", h.ListJobs).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}", h.GetJob).Methods(http.MethodGet)
	api.PathPrefix("/").HandlerFunc(apiNotFound)

	router.HandleFunc("/jobs", h.ListJobs).Methods(http.MethodGet)
	router.HandleFunc("/jobs/{id}", h.GetJob).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	if opts.MCP != nil {
		router.Handle("/mcp/stream", opts.MCP)
	}

	switch {
	case opts.StaticDir != "":
		router.PathPrefix("/").Handler(ui.SPA(opts.StaticDir)).Methods(http.MethodGet, http.MethodHead)
	case opts.Page != nil:
		router.PathPrefix("/assets/").Handler(ui.Assets()).Methods(http.MethodGet, http.MethodHead)
		router.PathPrefix("/").Handler(opts.Page).Methods(http.MethodGet, http.MethodHead)
	}

	return router
}

func apiNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{"message": "API endpoint not found"})
}
