/*
handlers.go - HTTP API handlers for the staffing timeline service

PURPOSE:
  Exposes the timeline reports via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the staffing package.

ENDPOINTS:
  Records:
    POST   /api/positions                          Save a position instance
    POST   /api/absences                           Save an absence
    POST   /api/requests                           Save a resource allocation request

  Timelines:
    GET    /api/persons/{id}/timeline?from=&to=            Person allocation timeline
    GET    /api/projects/{id}/requests/timeline?from=&to=  Project request timeline

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Record persistence
  - Reports: Store-backed report builders
  - Logger: Application logging (access logs come from chi middleware)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input, invalid ranges, invalid windows
  - 404: Referenced record not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/warp/staffing-timeline/generic"
	"github.com/warp/staffing-timeline/staffing"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   staffing.Store
	Reports *staffing.ReportService
	Logger  *logrus.Logger
}

// NewHandler creates a new handler with the given store.
func NewHandler(store staffing.Store, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		Store:   store,
		Reports: staffing.NewReportService(store, logger),
		Logger:  logger,
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RECORD HANDLERS
// =============================================================================

// CreatePosition saves a position instance.
func (h *Handler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var req CreatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.PositionID == "" || req.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "position_id and project_id are required", nil)
		return
	}

	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from/to (use YYYY-MM-DD)", err)
		return
	}

	p := staffing.PositionInstance{
		ID:         idOrNew(req.ID),
		PositionID: req.PositionID,
		ProjectID:  staffing.ProjectID(req.ProjectID),
		PersonID:   staffing.PersonID(req.PersonID),
		Name:       req.Name,
		From:       from,
		To:         to,
		Workload:   req.Workload,
	}
	if err := h.Store.SavePosition(r.Context(), p); err != nil {
		h.writeDomainError(w, "Failed to save position instance", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPositionDTO(p))
}

// CreateAbsence saves an absence.
func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	var req CreateAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.PersonID == "" {
		writeError(w, http.StatusBadRequest, "person_id is required", nil)
		return
	}
	absenceType := staffing.AbsenceType(req.Type)
	if req.Type == "" {
		absenceType = staffing.AbsenceTypeAbsence
	}
	if !absenceType.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown absence type %q", req.Type), nil)
		return
	}

	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from/to (use YYYY-MM-DD)", err)
		return
	}

	a := staffing.Absence{
		ID:                idOrNew(req.ID),
		PersonID:          staffing.PersonID(req.PersonID),
		Type:              absenceType,
		From:              from,
		To:                to,
		AbsencePercentage: req.AbsencePercentage,
		IsPrivate:         req.IsPrivate,
		Comment:           req.Comment,
	}
	if err := h.Store.SaveAbsence(r.Context(), a); err != nil {
		h.writeDomainError(w, "Failed to save absence", err)
		return
	}

	writeJSON(w, http.StatusCreated, toAbsenceDTO(a))
}

// CreateRequest saves a resource allocation request.
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req CreateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "project_id is required", nil)
		return
	}
	state := staffing.RequestState(req.State)
	if state == "" {
		state = staffing.RequestCreated
	}
	if !state.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown request state %q", req.State), nil)
		return
	}

	rr := staffing.ResourceRequest{
		ID:                 idOrNew(req.ID),
		Number:             req.Number,
		ProjectID:          staffing.ProjectID(req.ProjectID),
		State:              state,
		PositionInstanceID: req.PositionInstanceID,
		ProposedPersonID:   staffing.PersonID(req.ProposedPersonID),
		Workload:           req.Workload,
	}
	if err := h.Store.SaveRequest(r.Context(), rr); err != nil {
		h.writeDomainError(w, "Failed to save request", err)
		return
	}

	if rr.PositionInstanceID != "" {
		if p, err := h.Store.GetPosition(r.Context(), rr.PositionInstanceID); err == nil {
			rr.PositionInstance = p
		}
	}
	writeJSON(w, http.StatusCreated, toRequestDTO(rr))
}

// =============================================================================
// TIMELINE HANDLERS
// =============================================================================

// GetPersonTimeline returns the allocation timeline of a person.
func (h *Handler) GetPersonTimeline(w http.ResponseWriter, r *http.Request) {
	personID := staffing.PersonID(chi.URLParam(r, "id"))

	window, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid window", err)
		return
	}

	report, err := h.Reports.PersonTimeline(r.Context(), personID, window)
	if err != nil {
		h.writeDomainError(w, "Failed to build person timeline", err)
		return
	}

	writeJSON(w, http.StatusOK, toPersonTimelineDTO(report))
}

// GetProjectRequestTimeline returns the request timeline of a project.
func (h *Handler) GetProjectRequestTimeline(w http.ResponseWriter, r *http.Request) {
	projectID := staffing.ProjectID(chi.URLParam(r, "id"))

	window, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid window", err)
		return
	}

	report, err := h.Reports.ProjectRequestTimeline(r.Context(), projectID, window)
	if err != nil {
		h.writeDomainError(w, "Failed to build request timeline", err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestTimelineDTO(report))
}

// =============================================================================
// HELPERS
// =============================================================================

// parseWindow reads the required from/to query parameters. Ordering is
// checked by the report service so it reports the same error as the engine.
func parseWindow(r *http.Request) (generic.DateRange, error) {
	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		return generic.DateRange{}, fmt.Errorf("from and to query parameters are required")
	}
	from, to, err := parseRange(q.Get("from"), q.Get("to"))
	if err != nil {
		return generic.DateRange{}, err
	}
	return generic.DateRange{From: from, To: to}, nil
}

func parseRange(fromStr, toStr string) (generic.Date, generic.Date, error) {
	from, err := generic.ParseDate(fromStr)
	if err != nil {
		return generic.Date{}, generic.Date{}, fmt.Errorf("from: %w", err)
	}
	to, err := generic.ParseDate(toStr)
	if err != nil {
		return generic.Date{}, generic.Date{}, fmt.Errorf("to: %w", err)
	}
	return from, to, nil
}

func idOrNew(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// writeDomainError maps engine and store errors to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		h.Logger.WithError(err).Error(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
