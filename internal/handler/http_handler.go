// Package handler exposes the HTTP surface: triggering runs and reading a
// committed run's ledger and summary projections.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dragontuck/unionhall-compliance-sub000/internal/engine"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/errors"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/logger"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/service"
)

// HTTPHandler handles HTTP requests.
type HTTPHandler struct {
	orchestrator *engine.Orchestrator
	reports      *service.ReportService
	log          *logger.Logger
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(orchestrator *engine.Orchestrator, reports *service.ReportService, log *logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		orchestrator: orchestrator,
		reports:      reports,
		log:          log,
	}
}

// ExecuteRunRequest is the POST /api/v1/runs body.
type ExecuteRunRequest struct {
	Mode        string `json:"mode"`
	CutoverDate string `json:"cutover_date"` // YYYY-MM-DD
	DryRun      bool   `json:"dry_run"`
}

// ExecuteRun handles run execution requests.
func (h *HTTPHandler) ExecuteRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ExecuteRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Mode == "" {
		http.Error(w, "Mode is required", http.StatusBadRequest)
		return
	}

	cutover, err := time.Parse("2006-01-02", req.CutoverDate)
	if err != nil {
		http.Error(w, "Invalid cutover_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	result, err := h.orchestrator.Execute(r.Context(), req.Mode, cutover, req.DryRun)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

// GetRun handles run lookup requests.
func (h *HTTPHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runID := r.URL.Query().Get("id")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	run, err := h.reports.GetRun(r.Context(), runID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// GetLedger handles ledger projection requests.
func (h *HTTPHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	entries, err := h.reports.GetLedger(r.Context(), runID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// GetSummary handles summary projection requests.
func (h *HTTPHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	summaries, err := h.reports.GetSummaries(r.Context(), runID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

// writeError maps coded errors to HTTP statuses.
func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.CodeOf(err) {
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeConfiguration:
		status = http.StatusBadRequest
	case errors.ErrCodeConflict:
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("request failed")
	}
	http.Error(w, err.Error(), status)
}
