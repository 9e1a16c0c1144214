package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// maxDeadLetterLimit caps how many dead letters one request can fetch.
const maxDeadLetterLimit = 500

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)
		r.Get("/deadletters", s.handleDeadLetters)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// handleStatus returns the relay badge state, counters and dead-letter total.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.relay.Status()

	response := map[string]any{
		"state":      status.State,
		"written":    status.Written,
		"failed":     status.Failed,
		"updated_at": status.UpdatedAt,
	}
	if status.LastError != "" {
		response["last_error"] = status.LastError
	}

	if s.deadletters != nil {
		count, err := s.deadletters.Count(r.Context())
		if err != nil {
			writeInternalError(w, "counting dead letters")
			return
		}
		response["dead_letters"] = count
	}

	writeJSON(w, http.StatusOK, response)
}

// handleDeadLetters returns recent dead-letter entries, newest first.
//
// Query parameters:
//   - limit: Maximum entries to return (default 50, max 500)
func (s *Server) handleDeadLetters(w http.ResponseWriter, r *http.Request) {
	if s.deadletters == nil {
		writeNotFound(w, "dead-letter store not enabled")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxDeadLetterLimit {
		limit = maxDeadLetterLimit
	}

	entries, err := s.deadletters.Recent(r.Context(), limit)
	if err != nil {
		writeInternalError(w, "querying dead letters")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(entries),
		"entries": entries,
	})
}
