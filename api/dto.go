/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// SubmitLeaveRequest is the request body for filing a new leave request.
type SubmitLeaveRequest struct {
	EmployeeEmail string `json:"employee_email"`
	Kind          string `json:"kind"`
	Type          string `json:"type"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date,omitempty"`
	Reason        string `json:"reason,omitempty"`

	HalfDayPeriod string `json:"half_day_period,omitempty"`
	ShortStart    string `json:"short_start,omitempty"`
	ShortEnd      string `json:"short_end,omitempty"`
	PayTier       string `json:"pay_tier,omitempty"`

	ActingOfficer      string `json:"acting_officer,omitempty"`
	SupervisingOfficer string `json:"supervising_officer,omitempty"`
	ApprovalOfficer    string `json:"approval_officer"`
}

// OfficerActionRequest is the request body for an officer decision.
type OfficerActionRequest struct {
	Role     string `json:"role"`
	Caller   string `json:"caller"`
	Decision string `json:"decision"`
	Comments string `json:"comments,omitempty"`
}

// CancelLeaveRequest is the request body for cancelling a request.
type CancelLeaveRequest struct {
	Caller string `json:"caller"`
	Reason string `json:"reason,omitempty"`
}

// SetEndDateRequest is the admin request body for closing a maternity period.
type SetEndDateRequest struct {
	Admin    string `json:"admin"`
	EndDate  string `json:"end_date"`
	Comments string `json:"comments,omitempty"`
}

// AdjustEntitlementRequest is the admin request body for changing a total.
type AdjustEntitlementRequest struct {
	Admin         string `json:"admin"`
	EmployeeEmail string `json:"employee_email"`
	Type          string `json:"type"`
	Year          int    `json:"year"`
	Total         int    `json:"total"`
	Unlimited     bool   `json:"unlimited,omitempty"`
}

// RecalculateRequest is the admin request body for the repair pass.
type RecalculateRequest struct {
	EmployeeEmail string `json:"employee_email"`
	Year          int    `json:"year"`
}

// UpsertEmployeeRequest is the admin request body for a directory entry.
type UpsertEmployeeRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Admin      bool   `json:"admin,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// OfficerDTO is one approver slot on a request.
type OfficerDTO struct {
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	Status     string `json:"status"`
	Comments   string `json:"comments,omitempty"`
	ApprovedAt string `json:"approved_at,omitempty"`
}

// LeaveRequestDTO represents a leave request in API responses.
type LeaveRequestDTO struct {
	ID            string `json:"id"`
	EmployeeEmail string `json:"employee_email"`
	EmployeeName  string `json:"employee_name,omitempty"`
	Kind          string `json:"kind"`
	Type          string `json:"type"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date,omitempty"`
	Reason        string `json:"reason,omitempty"`

	HalfDayPeriod string `json:"half_day_period,omitempty"`
	ShortStart    string `json:"short_start,omitempty"`
	ShortEnd      string `json:"short_end,omitempty"`
	PayTier       string `json:"pay_tier,omitempty"`
	EndDateSet    bool   `json:"end_date_set,omitempty"`
	MaternityNote string `json:"maternity_note,omitempty"`

	Acting      *OfficerDTO `json:"acting_officer,omitempty"`
	Supervising *OfficerDTO `json:"supervising_officer,omitempty"`
	Approval    *OfficerDTO `json:"approval_officer,omitempty"`

	Status             string  `json:"status"`
	EffectiveDays      float64 `json:"effective_days"`
	Cancelled          bool    `json:"cancelled,omitempty"`
	CancelledAt        string  `json:"cancelled_at,omitempty"`
	CancelledBy        string  `json:"cancelled_by,omitempty"`
	CancellationReason string  `json:"cancellation_reason,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ActionResultDTO is the response to an officer action.
type ActionResultDTO struct {
	Message string          `json:"message"`
	Request LeaveRequestDTO `json:"request"`
}

// EntitlementDTO represents one annual balance record.
type EntitlementDTO struct {
	EmployeeEmail       string  `json:"employee_email"`
	Type                string  `json:"type"`
	Year                int     `json:"year"`
	Total               int     `json:"total"`
	Unlimited           bool    `json:"unlimited"`
	Used                float64 `json:"used"`
	Remaining           float64 `json:"remaining"`
	AccumulatedHalfDays int     `json:"accumulated_half_days"`
}

// QuotaDTO represents one monthly short-leave record.
type QuotaDTO struct {
	EmployeeEmail string `json:"employee_email"`
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	Total         int    `json:"total"`
	Used          int    `json:"used"`
	Remaining     int    `json:"remaining"`
}

// PendingCountDTO is an officer's total worklist size.
type PendingCountDTO struct {
	Email string `json:"email"`
	Count int    `json:"count"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toOfficerDTO(a *leave.OfficerAssignment) *OfficerDTO {
	if a == nil {
		return nil
	}
	dto := &OfficerDTO{
		Email:    a.Email,
		Name:     a.Name,
		Status:   string(a.Status),
		Comments: a.Comments,
	}
	if a.ApprovedAt != nil {
		dto.ApprovedAt = a.ApprovedAt.Format(time.RFC3339)
	}
	return dto
}

func toRequestDTO(r *leave.Request) LeaveRequestDTO {
	days, _ := r.EffectiveDays().Float64()
	dto := LeaveRequestDTO{
		ID:                 r.ID,
		EmployeeEmail:      r.EmployeeEmail,
		EmployeeName:       r.EmployeeName,
		Kind:               string(r.Kind),
		Type:               string(r.Type),
		StartDate:          r.StartDate.String(),
		Reason:             r.Reason,
		HalfDayPeriod:      string(r.HalfDayPeriod),
		PayTier:            string(r.PayTier),
		EndDateSet:         r.EndDateSet,
		MaternityNote:      r.MaternityNote,
		Acting:             toOfficerDTO(r.Acting),
		Supervising:        toOfficerDTO(r.Supervising),
		Approval:           toOfficerDTO(r.Approval),
		Status:             string(r.Status),
		EffectiveDays:      days,
		Cancelled:          r.Cancelled,
		CancelledBy:        r.CancelledBy,
		CancellationReason: r.CancellationReason,
		CreatedAt:          r.CreatedAt().Format(time.RFC3339),
		UpdatedAt:          r.UpdatedAt.Format(time.RFC3339),
	}
	if !r.EndDate.IsZero() {
		dto.EndDate = r.EndDate.String()
	}
	if !r.ShortStart.IsZero() || !r.ShortEnd.IsZero() {
		dto.ShortStart = r.ShortStart.String()
		dto.ShortEnd = r.ShortEnd.String()
	}
	if r.CancelledAt != nil {
		dto.CancelledAt = r.CancelledAt.Format(time.RFC3339)
	}
	return dto
}

func toRequestDTOs(rs []*leave.Request) []LeaveRequestDTO {
	dtos := make([]LeaveRequestDTO, len(rs))
	for i, r := range rs {
		dtos[i] = toRequestDTO(r)
	}
	return dtos
}

func toEntitlementDTO(e *leave.Entitlement) EntitlementDTO {
	used, _ := e.Used.Float64()
	remaining, _ := e.Remaining.Float64()
	return EntitlementDTO{
		EmployeeEmail:       e.EmployeeEmail,
		Type:                string(e.Type),
		Year:                e.Year,
		Total:               e.Total,
		Unlimited:           e.IsUnlimited(),
		Used:                used,
		Remaining:           remaining,
		AccumulatedHalfDays: e.AccumulatedHalfDays,
	}
}

func toQuotaDTO(q *leave.Quota) QuotaDTO {
	return QuotaDTO{
		EmployeeEmail: q.EmployeeEmail,
		Year:          q.Year,
		Month:         q.Month,
		Total:         q.Total,
		Used:          q.Used,
		Remaining:     q.Remaining,
	}
}
