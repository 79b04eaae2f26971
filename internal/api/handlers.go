// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/internal/logger"
	"github.com/pdiddy/profile-engine/internal/query"
)

// Handler holds the API route handlers.
type Handler struct {
	svc Service
	log *zap.SugaredLogger
}

// NewHandler creates a Handler over svc.
func NewHandler(svc Service, log *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, log: logger.Or(log)}
}

type errResponse struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Search handles GET /api/search. The query clauses are taken from the URL
// parameters (institutionId, gridId, emailDomain, organizationName and
// their aliases).
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q, err := query.FromValues(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := h.svc.Run(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Analytics handles GET /api/analytics with the same parameters as Search.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	q, err := query.FromValues(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	a, err := h.svc.Analyze(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Organizations handles GET /api/organizations?name=.
func (h *Handler) Organizations(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}
	org, err := h.svc.LookupOrganization(r.Context(), name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// fail maps an engine error onto a status code.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Warnw("request failed", "path", r.URL.Path, logger.FieldStatus, status, logger.FieldError, err)
	}
	writeError(w, status, err)
}

func statusFor(err error) int {
	var pe *errors.ParseError
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsFetch(err), errors.As(err, &pe):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errResponse{Error: err.Error(), Hint: errors.FlattenHints(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
