/*
maternity.go - Maternity-specific submission rules and the deferred end date

PURPOSE:
  Maternity leave is submitted and approved without an end date; the debit
  against the maternity pool is deferred until an administrator fixes the
  duration. Until then the request costs zero days.

SUBMISSION RULES:
  An employee holds at most one maternity request in flight:
  - a pending maternity request blocks any new one;
  - a closed period (approved, end date set) only admits requests starting
    after its end date;
  - an open period (approved, end date unset) admits only a continuation:
    same leave, lower pay tier, starting no earlier than the open period.
  The pay ladder runs FULL_PAY -> HALF_PAY -> NO_PAY and continuations only
  move down it.

END DATE:
  Setting the end date is an admin action, valid exactly once per request,
  on an approved request, with an end on or after the start. The maternity
  pool is debited for the full inclusive range before the request is saved;
  an insufficient pool refuses the whole action.
*/
package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// tierRank orders the maternity pay ladder; continuations must strictly
// descend it.
func tierRank(p PayTier) int {
	switch p {
	case FullPay:
		return 0
	case HalfPay:
		return 1
	case NoPay:
		return 2
	}
	return -1
}

// MaternityRules owns the maternity-specific checks and the deferred
// end-date action.
type MaternityRules struct {
	store    Store
	ledger   *Ledger
	dir      Directory
	notifier Notifier
	log      *slog.Logger
}

// NewMaternityRules wires the maternity rules over their collaborators.
func NewMaternityRules(store Store, ledger *Ledger, dir Directory, notifier Notifier, log *slog.Logger) *MaternityRules {
	if log == nil {
		log = slog.Default()
	}
	return &MaternityRules{store: store, ledger: ledger, dir: dir, notifier: notifier, log: log}
}

// ValidateSubmission enforces the one-in-flight rule against the employee's
// existing maternity requests. Cancelled and rejected requests never block.
func (m *MaternityRules) ValidateSubmission(ctx context.Context, r *Request) error {
	if r.Kind != KindMaternity {
		return nil
	}
	if !r.PayTier.Valid() {
		return Validationf("maternity leave requires a pay tier")
	}
	existing, err := m.store.RequestsByEmployee(ctx, r.EmployeeEmail)
	if err != nil {
		return err
	}
	for _, prev := range existing {
		if prev.Kind != KindMaternity || prev.Cancelled || prev.Status.IsRejected() {
			continue
		}
		if prev.Status != StatusApproved {
			return Validationf("a maternity request is already awaiting approval")
		}
		if prev.EndDateSet {
			if !r.StartDate.After(prev.EndDate) {
				return Validationf("maternity leave must start after the previous period ends on %s", prev.EndDate)
			}
			continue
		}
		// Open period: only a continuation one tier down is admissible.
		if tierRank(r.PayTier) <= tierRank(prev.PayTier) {
			return Validationf("an open %s maternity period exists; only a continuation at a lower pay tier may be submitted", prev.PayTier)
		}
		if r.StartDate.Before(prev.StartDate) {
			return Validationf("a maternity continuation cannot start before the open period's start on %s", prev.StartDate)
		}
	}
	return nil
}

// SetEndDate closes an open maternity period: fixes the end date, debits the
// maternity pool for the inclusive range, and stamps an audit note. Admin
// only, once per request.
func (m *MaternityRules) SetEndDate(ctx context.Context, requestID, adminEmail string, end Date, comments string) (*Request, error) {
	admin, err := m.dir.Lookup(ctx, adminEmail)
	if err != nil {
		return nil, err
	}
	if !admin.Admin {
		return nil, &AuthorizationError{Caller: adminEmail, Action: "set a maternity end date"}
	}

	r, err := m.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r.Kind != KindMaternity {
		return nil, Validationf("request %s is not a maternity request", requestID)
	}
	if r.Status != StatusApproved {
		return nil, &StateError{RequestID: requestID, Status: r.Status, Expected: StatusApproved}
	}
	if r.EndDateSet {
		return nil, &StateError{RequestID: requestID, Status: r.Status}
	}
	if end.Before(r.StartDate) {
		return nil, Validationf("end date %s is before the leave start %s", end, r.StartDate)
	}

	r.EndDate = end
	r.EndDateSet = true
	now := time.Now().UTC()
	r.MaternityNote = fmt.Sprintf("end date set to %s by %s at %s", end, adminEmail, now.Format(time.RFC3339))
	if comments != "" {
		r.MaternityNote += ": " + comments
	}
	r.UpdatedAt = now

	// Debit before saving: an insufficient pool refuses the whole action and
	// leaves the period open.
	if err := m.ledger.Settle(ctx, r); err != nil {
		return nil, err
	}
	if err := m.store.PutRequest(ctx, r); err != nil {
		return nil, err
	}

	if err := m.notifier.MaternityEndDateSet(ctx, r); err != nil {
		m.log.Warn("maternity end date notification failed", "request", r.ID, "error", err)
	}
	m.log.Info("maternity end date set",
		"request", r.ID, "employee", r.EmployeeEmail, "end_date", end.String(), "admin", adminEmail)
	return r, nil
}

// AwaitingEndDate lists approved maternity requests whose end date is still
// open, the admin worklist.
func (m *MaternityRules) AwaitingEndDate(ctx context.Context) ([]*Request, error) {
	approved, err := m.store.RequestsByStatus(ctx, StatusApproved)
	if err != nil {
		return nil, err
	}
	out := make([]*Request, 0)
	for _, r := range approved {
		if r.Kind == KindMaternity && !r.EndDateSet && !r.Cancelled {
			out = append(out, r)
		}
	}
	return out, nil
}
