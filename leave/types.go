/*
Package leave implements a leave-request approval workflow and the
entitlement ledger it settles against.

PURPOSE:
  A leave request travels through up to three human approvers (acting,
  supervising, approval officer) before it is granted. Granting a request
  debits the employee's annual entitlement for that leave type; rejecting or
  cancelling it credits back exactly what was debited. Two leave kinds have
  their own bookkeeping: short leave draws on an independent monthly quota,
  and maternity leave is approved without an end date and debited only once
  an administrator fixes the duration.

KEY CONCEPTS IN THIS FILE (types.go):
  - Kind/Type: closed enums for leave kind (how it is booked) and leave type
    (which entitlement pool it draws from)
  - OfficerRole/OfficerAssignment: the approval chain slots
  - Status: the request state machine states
  - Request: the unit of work, with a construction-time-only created stamp

DESIGN PRINCIPLES:
  1. Closed enums: every dispatch on kind/type/role is exhaustive, no string
     comparisons scattered through the workflow
  2. Resolved chain: the set of configured officers is fixed at submission
     into an ordered role list; absent slots never appear in it
  3. Immutable creation time: set once by the constructor, read-only after

SEE ALSO:
  - workflow.go: state transitions driven by officer actions
  - entitlement.go: the ledger the terminal APPROVED state settles against
*/
package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// LEAVE KIND & TYPE
// =============================================================================

// Kind says how a request is booked against the ledger.
type Kind string

const (
	KindStandard  Kind = "STANDARD"  // whole-day range, inclusive day count
	KindHalfDay   Kind = "HALF_DAY"  // single day, 0.5 days, accumulates
	KindShort     Kind = "SHORT"     // sub-day, monthly quota, ledger-exempt
	KindMaternity Kind = "MATERNITY" // end date deferred, debit deferred
)

func (k Kind) Valid() bool {
	switch k {
	case KindStandard, KindHalfDay, KindShort, KindMaternity:
		return true
	}
	return false
}

// Type names the entitlement pool a request draws from.
type Type string

const (
	TypeCasual    Type = "CASUAL"
	TypeSick      Type = "SICK"
	TypeDuty      Type = "DUTY"
	TypeMaternity Type = "MATERNITY"
)

func (t Type) Valid() bool {
	switch t {
	case TypeCasual, TypeSick, TypeDuty, TypeMaternity:
		return true
	}
	return false
}

// HalfDayPeriod says which half of the day a half-day leave covers.
type HalfDayPeriod string

const (
	Morning   HalfDayPeriod = "MORNING"
	Afternoon HalfDayPeriod = "AFTERNOON"
)

// PayTier is the maternity pay progression. Continuation requests must move
// down this ladder, never up (see maternity.go).
type PayTier string

const (
	FullPay PayTier = "FULL_PAY"
	HalfPay PayTier = "HALF_PAY"
	NoPay   PayTier = "NO_PAY"
)

func (p PayTier) Valid() bool {
	switch p {
	case FullPay, HalfPay, NoPay:
		return true
	}
	return false
}

// =============================================================================
// OFFICER CHAIN
// =============================================================================

// OfficerRole is one slot in the approval chain, in chain order.
type OfficerRole string

const (
	RoleActing      OfficerRole = "ACTING"
	RoleSupervising OfficerRole = "SUPERVISING"
	RoleApproval    OfficerRole = "APPROVAL"
)

// roleOrder is the full chain in sequence. Submission resolves the subset
// actually configured for a request.
var roleOrder = []OfficerRole{RoleActing, RoleSupervising, RoleApproval}

func (r OfficerRole) Valid() bool {
	switch r {
	case RoleActing, RoleSupervising, RoleApproval:
		return true
	}
	return false
}

// OfficerDecision is an officer's verdict on a request.
type OfficerDecision string

const (
	DecisionApprove OfficerDecision = "APPROVE"
	DecisionReject  OfficerDecision = "REJECT"
)

// OfficerStatus tracks one officer slot's progress.
type OfficerStatus string

const (
	OfficerPending     OfficerStatus = "PENDING"
	OfficerApproved    OfficerStatus = "APPROVED"
	OfficerRejected    OfficerStatus = "REJECTED"
	OfficerNotRequired OfficerStatus = "NOT_REQUIRED"
)

// OfficerAssignment is one configured approver slot on a request.
type OfficerAssignment struct {
	Email      string
	Name       string
	Status     OfficerStatus
	Comments   string
	ApprovedAt *time.Time
}

// =============================================================================
// REQUEST STATUS
// =============================================================================

type Status string

const (
	StatusPendingActing      Status = "PENDING_ACTING_OFFICER"
	StatusPendingSupervising Status = "PENDING_SUPERVISING_OFFICER"
	StatusPendingApproval    Status = "PENDING_APPROVAL_OFFICER"
	StatusApproved           Status = "APPROVED"
	StatusRejectedActing     Status = "REJECTED_BY_ACTING_OFFICER"
	StatusRejectedSupervisor Status = "REJECTED_BY_SUPERVISING_OFFICER"
	StatusRejectedApproval   Status = "REJECTED_BY_APPROVAL_OFFICER"
	StatusCancelledEmployee  Status = "CANCELLED_BY_EMPLOYEE"
	StatusCancelledAdmin     Status = "CANCELLED_ADMIN"
)

// PendingStatus returns the waiting state for a role.
func PendingStatus(role OfficerRole) Status {
	switch role {
	case RoleActing:
		return StatusPendingActing
	case RoleSupervising:
		return StatusPendingSupervising
	default:
		return StatusPendingApproval
	}
}

// RejectedStatus returns the terminal rejection state for a role.
func RejectedStatus(role OfficerRole) Status {
	switch role {
	case RoleActing:
		return StatusRejectedActing
	case RoleSupervising:
		return StatusRejectedSupervisor
	default:
		return StatusRejectedApproval
	}
}

// PendingRole returns the role a pending status is waiting on.
func (s Status) PendingRole() (OfficerRole, bool) {
	switch s {
	case StatusPendingActing:
		return RoleActing, true
	case StatusPendingSupervising:
		return RoleSupervising, true
	case StatusPendingApproval:
		return RoleApproval, true
	}
	return "", false
}

func (s Status) IsRejected() bool {
	return s == StatusRejectedActing || s == StatusRejectedSupervisor || s == StatusRejectedApproval
}

func (s Status) IsCancelled() bool {
	return s == StatusCancelledEmployee || s == StatusCancelledAdmin
}

// IsTerminal reports whether no further officer action is valid.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s.IsRejected() || s.IsCancelled()
}

// =============================================================================
// REQUEST - The unit of work
// =============================================================================

// Request is a single leave request. It is created at submission and only
// mutated by workflow transitions; cancellation is a state, not a deletion.
type Request struct {
	ID            string
	EmployeeEmail string
	EmployeeName  string

	Kind      Kind
	Type      Type
	StartDate Date
	EndDate   Date // zero while a maternity end date is unset
	Reason    string

	// Sub-day detail
	HalfDayPeriod HalfDayPeriod // half-day kind only
	ShortStart    TimeOfDay     // short kind only
	ShortEnd      TimeOfDay

	// Maternity detail
	PayTier       PayTier
	EndDateSet    bool
	MaternityNote string // audit note stamped when the end date is set

	// Approval chain. Nil slot = not configured; Chain holds the configured
	// roles in order and is fixed at submission.
	Acting      *OfficerAssignment
	Supervising *OfficerAssignment
	Approval    *OfficerAssignment
	Chain       []OfficerRole

	Status Status

	Cancelled          bool
	CancelledAt        *time.Time
	CancelledBy        string
	CancellationReason string

	createdAt time.Time
	UpdatedAt time.Time
}

// NewRequest allocates a request with a fresh ID and creation stamp. The
// creation time cannot be changed afterwards; stores rehydrate persisted
// requests through FromRecord instead.
func NewRequest(employeeEmail, employeeName string, kind Kind, leaveType Type) *Request {
	now := time.Now().UTC()
	return &Request{
		ID:            uuid.NewString(),
		EmployeeEmail: employeeEmail,
		EmployeeName:  employeeName,
		Kind:          kind,
		Type:          leaveType,
		createdAt:     now,
		UpdatedAt:     now,
	}
}

// CreatedAt is read-only: set once at construction, never overwritten by
// later saves.
func (r *Request) CreatedAt() time.Time { return r.createdAt }

// Assignment returns the officer slot for a role, nil if not configured.
func (r *Request) Assignment(role OfficerRole) *OfficerAssignment {
	switch role {
	case RoleActing:
		return r.Acting
	case RoleSupervising:
		return r.Supervising
	case RoleApproval:
		return r.Approval
	}
	return nil
}

// ResolveChain fixes the ordered list of configured roles and marks the
// unconfigured slots NOT_REQUIRED. Called once at submission.
func (r *Request) ResolveChain() {
	r.Chain = r.Chain[:0]
	for _, role := range roleOrder {
		if a := r.Assignment(role); a != nil {
			a.Status = OfficerPending
			r.Chain = append(r.Chain, role)
		}
	}
}

// NextRole returns the chain role after the given one, false if it was last.
func (r *Request) NextRole(after OfficerRole) (OfficerRole, bool) {
	for i, role := range r.Chain {
		if role == after && i+1 < len(r.Chain) {
			return r.Chain[i+1], true
		}
	}
	return "", false
}

// FirstRole returns the first configured role in the chain.
func (r *Request) FirstRole() (OfficerRole, bool) {
	if len(r.Chain) == 0 {
		return "", false
	}
	return r.Chain[0], true
}

// LedgerType returns the entitlement pool this request settles against.
// Half-day leave always draws on the casual pool.
func (r *Request) LedgerType() Type {
	if r.Kind == KindHalfDay {
		return TypeCasual
	}
	return r.Type
}

// EffectiveDays is the ledger cost of this request: zero for short leave and
// for maternity leave until its end date is set.
func (r *Request) EffectiveDays() decimal.Decimal {
	switch r.Kind {
	case KindShort:
		return decimal.Zero
	case KindHalfDay:
		return decimal.NewFromFloat(0.5)
	case KindMaternity:
		if !r.EndDateSet {
			return decimal.Zero
		}
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(DaysInclusive(r.StartDate, r.EndDate)))
}

// CanBeCancelled reports whether cancellation is still allowed: never after
// a prior cancellation or rejection, and never once the start date has
// passed (today itself is still cancellable).
func (r *Request) CanBeCancelled(today Date) bool {
	if r.Cancelled || r.Status.IsRejected() {
		return false
	}
	return r.StartDate.AfterOrEqual(today)
}

// FinalApprovalTime is the timestamp of the last officer approval, used to
// replay requests in original approval order. Falls back to the creation
// time for records without per-role stamps.
func (r *Request) FinalApprovalTime() time.Time {
	var latest time.Time
	for _, role := range roleOrder {
		if a := r.Assignment(role); a != nil && a.ApprovedAt != nil && a.ApprovedAt.After(latest) {
			latest = *a.ApprovedAt
		}
	}
	if latest.IsZero() {
		return r.createdAt
	}
	return latest
}

// =============================================================================
// RECORD - Persistence form of a Request
// =============================================================================

// Record is the flat persistence form of a Request. It exists so stores can
// round-trip the construction-time-only creation stamp.
type Record struct {
	ID            string
	EmployeeEmail string
	EmployeeName  string

	Kind      Kind
	Type      Type
	StartDate Date
	EndDate   Date
	Reason    string

	HalfDayPeriod HalfDayPeriod
	ShortStart    TimeOfDay
	ShortEnd      TimeOfDay

	PayTier       PayTier
	EndDateSet    bool
	MaternityNote string

	Acting      *OfficerAssignment
	Supervising *OfficerAssignment
	Approval    *OfficerAssignment
	Chain       []OfficerRole

	Status Status

	Cancelled          bool
	CancelledAt        *time.Time
	CancelledBy        string
	CancellationReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Record flattens the request for persistence.
func (r *Request) Record() Record {
	return Record{
		ID:            r.ID,
		EmployeeEmail: r.EmployeeEmail,
		EmployeeName:  r.EmployeeName,
		Kind:          r.Kind,
		Type:          r.Type,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		Reason:        r.Reason,
		HalfDayPeriod: r.HalfDayPeriod,
		ShortStart:    r.ShortStart,
		ShortEnd:      r.ShortEnd,
		PayTier:       r.PayTier,
		EndDateSet:    r.EndDateSet,
		MaternityNote: r.MaternityNote,
		Acting:        cloneAssignment(r.Acting),
		Supervising:   cloneAssignment(r.Supervising),
		Approval:      cloneAssignment(r.Approval),
		Chain:         append([]OfficerRole(nil), r.Chain...),
		Status:        r.Status,
		Cancelled:     r.Cancelled,
		CancelledAt:   cloneTime(r.CancelledAt),
		CancelledBy:   r.CancelledBy,
		CancellationReason: r.CancellationReason,
		CreatedAt:     r.createdAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// FromRecord rehydrates a persisted request, creation stamp included.
func FromRecord(rec Record) *Request {
	return &Request{
		ID:            rec.ID,
		EmployeeEmail: rec.EmployeeEmail,
		EmployeeName:  rec.EmployeeName,
		Kind:          rec.Kind,
		Type:          rec.Type,
		StartDate:     rec.StartDate,
		EndDate:       rec.EndDate,
		Reason:        rec.Reason,
		HalfDayPeriod: rec.HalfDayPeriod,
		ShortStart:    rec.ShortStart,
		ShortEnd:      rec.ShortEnd,
		PayTier:       rec.PayTier,
		EndDateSet:    rec.EndDateSet,
		MaternityNote: rec.MaternityNote,
		Acting:        cloneAssignment(rec.Acting),
		Supervising:   cloneAssignment(rec.Supervising),
		Approval:      cloneAssignment(rec.Approval),
		Chain:         append([]OfficerRole(nil), rec.Chain...),
		Status:        rec.Status,
		Cancelled:     rec.Cancelled,
		CancelledAt:   cloneTime(rec.CancelledAt),
		CancelledBy:   rec.CancelledBy,
		CancellationReason: rec.CancellationReason,
		createdAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

// Clone deep-copies the request.
func (r *Request) Clone() *Request { return FromRecord(r.Record()) }

func cloneAssignment(a *OfficerAssignment) *OfficerAssignment {
	if a == nil {
		return nil
	}
	c := *a
	c.ApprovedAt = cloneTime(a.ApprovedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
