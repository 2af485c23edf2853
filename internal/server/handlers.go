package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/honeycarbs/job-portal/internal/domain"
	"github.com/honeycarbs/job-portal/internal/domain/job"
	"github.com/honeycarbs/job-portal/internal/ui"
	"github.com/honeycarbs/job-portal/pkg/logging"
)

// JobResolver answers list and lookup requests across the fallback tiers
type JobResolver interface {
	List(ctx context.Context, filter domain.JobFilter) (job.ListResult, error)
	Get(ctx context.Context, id string) (job.GetResult, error)
	HasStore() bool
}

// DebugInfo is the static part of the /api/debug response
type DebugInfo struct {
	HasAPIKey    bool
	APIKeyPrefix string
	APIHost      string
	Port         string
	DBConfigured bool
	HasCache     bool
}

// Handler serves the job API
type Handler struct {
	jobs   JobResolver
	debug  DebugInfo
	clock  func() time.Time
	logger *logging.Logger
}

// NewHandler builds a Handler
func NewHandler(jobs JobResolver, debug DebugInfo, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{jobs: jobs, debug: debug, clock: time.Now, logger: log}
}

type listResponse struct {
	Success    bool              `json:"success"`
	Data       []domain.Job      `json:"data"`
	Pagination domain.Pagination `json:"pagination"`
	Source     domain.Source     `json:"source"`
}

type jobResponse struct {
	Success bool          `json:"success"`
	Data    domain.Job    `json:"data"`
	Source  domain.Source `json:"source"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ListJobs handles GET /api/jobs
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	res, err := h.jobs.List(r.Context(), ui.ParseFilter(r.URL.Query()))
	if err != nil {
		h.logger.Error("fetching jobs failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Failed to fetch jobs",
			"error":   err.Error(),
			"details": providerDetails(err),
		})
		return
	}

	jobsServed.WithLabelValues(string(res.Source)).Inc()

	data := res.Jobs
	if data == nil {
		data = []domain.Job{}
	}
	writeJSON(w, http.StatusOK, listResponse{
		Success:    true,
		Data:       data,
		Pagination: res.Pagination,
		Source:     res.Source,
	})
}

// GetJob handles GET /api/jobs/{id}
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	res, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			h.logger.Error("fetching job failed", "id", id, "err", err)
		}
		writeJSON(w, http.StatusNotFound, errorResponse{Success: false, Message: "Job not found"})
		return
	}

	jobsServed.WithLabelValues(string(res.Source)).Inc()
	writeJSON(w, http.StatusOK, jobResponse{Success: true, Data: res.Job, Source: res.Source})
}

// Health handles GET /api/health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": h.clock().UTC().Format("2006-01-02T15:04:05.000Z"),
	})
}

// Debug handles GET /api/debug
func (h *Handler) Debug(w http.ResponseWriter, _ *http.Request) {
	dsn := "NOT SET"
	if h.debug.DBConfigured {
		dsn = "SET"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"hasApiKey":          h.debug.HasAPIKey,
		"apiKeyPrefix":       h.debug.APIKeyPrefix,
		"apiHost":            h.debug.APIHost,
		"port":               h.debug.Port,
		"hasDatabase":        h.jobs.HasStore(),
		"dbConnectionString": dsn,
		"hasCache":           h.debug.HasCache,
	})
}

// providerDetails is the upstream response body, decoded when it is JSON
func providerDetails(err error) any {
	var perr *job.ProviderError
	if !errors.As(err, &perr) || len(perr.Body) == 0 {
		return nil
	}

	var decoded any
	if json.Unmarshal(perr.Body, &decoded) == nil {
		return decoded
	}
	return string(perr.Body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
