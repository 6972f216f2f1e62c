/*
handlers.go - HTTP API handlers for the leave engine

PURPOSE:
  Exposes the leave engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Leaves:
    POST   /api/leaves                      Submit a leave request
    GET    /api/leaves/{id}                 Get one request
    POST   /api/leaves/{id}/action          Officer approve/reject
    POST   /api/leaves/{id}/cancel          Cancel a request

  Employees:
    GET    /api/employees/{email}/leaves             Request history
    GET    /api/employees/{email}/leaves/cancellable Still-cancellable requests
    GET    /api/employees/{email}/balances           Entitlement snapshot
    GET    /api/employees/{email}/quotas             Short-leave quotas

  Officers:
    GET    /api/officers/{email}/pending        Worklist for one role
    GET    /api/officers/{email}/pending/count  Total worklist size

  Admin:
    GET    /api/admin/maternity/pending        Open maternity periods
    POST   /api/admin/maternity/{id}/end-date  Close a maternity period
    POST   /api/admin/entitlements             Adjust an entitlement total
    POST   /api/admin/recalculate              Replay-based balance repair
    POST   /api/admin/employees                Upsert a directory entry

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (service, workflow, ledger)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 403: Caller is not the assigned officer / not an admin
  - 404: Unknown request or employee
  - 409: Request not in the expected state
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication. The caller identity in request bodies is
  trusted; front it with an authenticating proxy in production.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// DirectoryWriter is the optional admin-side write surface of the directory.
// The SQLite store implements it; read-only directories do not.
type DirectoryWriter interface {
	UpsertEmployee(ctx context.Context, e leave.Employee) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *leave.Service

	// Writer is nil when the directory is read-only; the employee upsert
	// endpoint then returns 404.
	Writer DirectoryWriter
}

// NewHandler creates a new handler over the engine facade.
func NewHandler(svc *leave.Service, writer DirectoryWriter) *Handler {
	return &Handler{Service: svc, Writer: writer}
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// SubmitLeave files a new leave request.
// POST /api/leaves
func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	var req SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	sub := leave.Submission{
		EmployeeEmail:    req.EmployeeEmail,
		Kind:             leave.Kind(req.Kind),
		Type:             leave.Type(req.Type),
		Reason:           req.Reason,
		HalfDayPeriod:    leave.HalfDayPeriod(req.HalfDayPeriod),
		PayTier:          leave.PayTier(req.PayTier),
		ActingEmail:      req.ActingOfficer,
		SupervisingEmail: req.SupervisingOfficer,
		ApprovalEmail:    req.ApprovalOfficer,
	}

	var err error
	if req.StartDate != "" {
		if sub.StartDate, err = leave.ParseDate(req.StartDate); err != nil {
			writeError(w, http.StatusBadRequest, "invalid start date", err)
			return
		}
	}
	if req.EndDate != "" {
		if sub.EndDate, err = leave.ParseDate(req.EndDate); err != nil {
			writeError(w, http.StatusBadRequest, "invalid end date", err)
			return
		}
	}
	if req.ShortStart != "" {
		if sub.ShortStart, err = leave.ParseTimeOfDay(req.ShortStart); err != nil {
			writeError(w, http.StatusBadRequest, "invalid short leave start time", err)
			return
		}
	}
	if req.ShortEnd != "" {
		if sub.ShortEnd, err = leave.ParseTimeOfDay(req.ShortEnd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid short leave end time", err)
			return
		}
	}

	created, err := h.Service.Submit(r.Context(), sub)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRequestDTO(created))
}

// GetLeave returns one request.
// GET /api/leaves/{id}
func (h *Handler) GetLeave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, err := h.Service.Request(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(req))
}

// ActOnLeave applies one officer decision.
// POST /api/leaves/{id}/action
func (h *Handler) ActOnLeave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req OfficerActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.Service.ActOnRequest(r.Context(), id,
		leave.OfficerRole(req.Role), req.Caller,
		leave.OfficerDecision(req.Decision), req.Comments)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ActionResultDTO{
		Message: result.Message,
		Request: toRequestDTO(result.Request),
	})
}

// CancelLeave cancels a request.
// POST /api/leaves/{id}/cancel
func (h *Handler) CancelLeave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req CancelLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	cancelled, err := h.Service.Cancel(r.Context(), id, req.Caller, req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(cancelled))
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployeeLeaves returns an employee's request history, newest first.
// GET /api/employees/{email}/leaves
func (h *Handler) ListEmployeeLeaves(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	reqs, err := h.Service.RequestsForEmployee(r.Context(), email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(reqs))
}

// ListCancellableLeaves returns the requests still inside the cancellation
// window.
// GET /api/employees/{email}/leaves/cancellable
func (h *Handler) ListCancellableLeaves(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	reqs, err := h.Service.CancellableRequests(r.Context(), email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(reqs))
}

// GetBalances returns the employee's entitlement snapshot for a year.
// GET /api/employees/{email}/balances?year=2026
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	year := yearParam(r)

	entitlements, err := h.Service.Balances(r.Context(), email, year)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]EntitlementDTO, len(entitlements))
	for i, e := range entitlements {
		dtos[i] = toEntitlementDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetQuotas returns the employee's short-leave quota records for a year.
// GET /api/employees/{email}/quotas?year=2026
func (h *Handler) GetQuotas(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	year := yearParam(r)

	quotas, err := h.Service.Quotas(r.Context(), email, year)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]QuotaDTO, len(quotas))
	for i, q := range quotas {
		dtos[i] = toQuotaDTO(q)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// OFFICER HANDLERS
// =============================================================================

// ListPendingForOfficer returns the officer's worklist for one role,
// oldest first.
// GET /api/officers/{email}/pending?role=APPROVAL
func (h *Handler) ListPendingForOfficer(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	role := leave.OfficerRole(r.URL.Query().Get("role"))

	reqs, err := h.Service.PendingForOfficer(r.Context(), email, role)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(reqs))
}

// GetPendingCount returns the officer's total worklist size across roles.
// GET /api/officers/{email}/pending/count
func (h *Handler) GetPendingCount(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	count, err := h.Service.PendingCountForOfficer(r.Context(), email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PendingCountDTO{Email: email, Count: count})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ListMaternityPending returns approved maternity requests whose end date is
// still open.
// GET /api/admin/maternity/pending
func (h *Handler) ListMaternityPending(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Service.MaternityAwaitingEndDate(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(reqs))
}

// SetMaternityEndDate closes an open maternity period.
// POST /api/admin/maternity/{id}/end-date
func (h *Handler) SetMaternityEndDate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req SetEndDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	end, err := leave.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date", err)
		return
	}

	updated, err := h.Service.SetMaternityEndDate(r.Context(), id, req.Admin, end, req.Comments)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(updated))
}

// AdjustEntitlement changes one pool's total.
// POST /api/admin/entitlements
func (h *Handler) AdjustEntitlement(w http.ResponseWriter, r *http.Request) {
	var req AdjustEntitlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	total := req.Total
	if req.Unlimited {
		total = leave.Unlimited
	}
	if req.Year == 0 {
		req.Year = time.Now().Year()
	}

	e, err := h.Service.AdjustEntitlement(r.Context(), req.Admin, req.EmployeeEmail,
		leave.Type(req.Type), req.Year, total)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntitlementDTO(e))
}

// Recalculate runs the replay-based balance repair for one employee/year.
// POST /api/admin/recalculate
func (h *Handler) Recalculate(w http.ResponseWriter, r *http.Request) {
	var req RecalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Year == 0 {
		req.Year = time.Now().Year()
	}

	if err := h.Service.Recalculate(r.Context(), req.EmployeeEmail, req.Year); err != nil {
		writeDomainError(w, err)
		return
	}

	entitlements, err := h.Service.Balances(r.Context(), req.EmployeeEmail, req.Year)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]EntitlementDTO, len(entitlements))
	for i, e := range entitlements {
		dtos[i] = toEntitlementDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertEmployee writes a directory entry and initializes its entitlement
// pools for the current year.
// POST /api/admin/employees
func (h *Handler) UpsertEmployee(w http.ResponseWriter, r *http.Request) {
	if h.Writer == nil {
		writeError(w, http.StatusNotFound, "directory is read-only", nil)
		return
	}
	var req UpsertEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Email == "" || req.Name == "" || req.Department == "" {
		writeError(w, http.StatusBadRequest, "email, name and department are required", nil)
		return
	}

	e := leave.Employee{
		Email:      req.Email,
		Name:       req.Name,
		Department: req.Department,
		Admin:      req.Admin,
	}
	if err := h.Writer.UpsertEmployee(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save employee", err)
		return
	}
	if err := h.Service.InitializeEmployee(r.Context(), req.Email, time.Now().Year()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// =============================================================================
// HELPERS
// =============================================================================

func yearParam(r *http.Request) int {
	if s := r.URL.Query().Get("year"); s != "" {
		if y, err := strconv.Atoi(s); err == nil {
			return y
		}
	}
	return time.Now().Year()
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Error = message + ": " + err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps the engine's error taxonomy to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case leave.IsAuthorization(err):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: err.Error(), Code: "not_authorized"})
	case leave.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "not_found"})
	case leave.IsInvalidState(err):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "invalid_state"})
	case leave.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "validation_failed"})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
