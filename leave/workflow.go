/*
workflow.go - The officer approval state machine

PURPOSE:
  Drives a leave request through its configured officer chain. Each officer
  action validates the caller and the request's current state, then either
  terminates the request (REJECT) or advances it one chain position
  (APPROVE). The final approval settles the request against the ledger or,
  for short leave, the monthly quota, and only then persists the terminal
  APPROVED state; maternity settlement is deferred to the end-date action.

STATE MACHINE:
  PENDING_ACTING_OFFICER -> PENDING_SUPERVISING_OFFICER ->
  PENDING_APPROVAL_OFFICER -> APPROVED

  Unconfigured roles are skipped (the chain was resolved at submission).
  Every pending state can fall to its REJECTED_BY_<role> terminal. APPROVED
  can still fall to a cancelled state while the start date is in the future
  (see reversal.go). Terminal states accept no further officer action.

SETTLE-THEN-COMMIT:
  Capacity is re-checked at final approval, not only at submission: a shared
  pool may have been drained by concurrent approvals in between. The check
  runs inside the ledger's per-pool critical section as part of Settle, and
  only a successful settlement commits the APPROVED state. Two concurrent
  final approvals against one bounded pool serialize on that lock; the loser
  is declined with its request untouched.
*/
package leave

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Workflow advances requests through their officer chain.
type Workflow struct {
	store    RequestStore
	ledger   *Ledger
	quota    *QuotaTracker
	notifier Notifier
	log      *slog.Logger
}

// NewWorkflow wires the state machine over its collaborators.
func NewWorkflow(store RequestStore, ledger *Ledger, quota *QuotaTracker, notifier Notifier, log *slog.Logger) *Workflow {
	if log == nil {
		log = slog.Default()
	}
	return &Workflow{store: store, ledger: ledger, quota: quota, notifier: notifier, log: log}
}

// ActionResult reports the effect of an officer action.
type ActionResult struct {
	Request *Request
	Message string
}

// ActOnRequest applies one officer decision. The caller must be the officer
// assigned to the role, and the request must currently be waiting on that
// role; anything else declines without mutation.
func (w *Workflow) ActOnRequest(ctx context.Context, requestID string, role OfficerRole, callerEmail string, decision OfficerDecision, comments string) (*ActionResult, error) {
	if !role.Valid() {
		return nil, Validationf("unknown officer role %q", string(role))
	}
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, Validationf("unknown decision %q", string(decision))
	}

	r, err := w.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	assignment := r.Assignment(role)
	if assignment == nil || !strings.EqualFold(assignment.Email, callerEmail) {
		return nil, &AuthorizationError{
			Caller: callerEmail,
			Action: fmt.Sprintf("act as %s officer on request %s", strings.ToLower(string(role)), requestID),
		}
	}
	if want := PendingStatus(role); r.Status != want {
		return nil, &StateError{RequestID: requestID, Status: r.Status, Expected: want}
	}

	if decision == DecisionReject {
		return w.reject(ctx, r, role, assignment, comments)
	}
	return w.approve(ctx, r, role, assignment, comments)
}

func (w *Workflow) reject(ctx context.Context, r *Request, role OfficerRole, a *OfficerAssignment, comments string) (*ActionResult, error) {
	a.Status = OfficerRejected
	a.Comments = comments
	r.Status = RejectedStatus(role)
	r.UpdatedAt = time.Now().UTC()

	if err := w.store.PutRequest(ctx, r); err != nil {
		return nil, err
	}
	if err := w.notifier.RequestStatusChanged(ctx, r, OutcomeRejected, role); err != nil {
		w.log.Warn("rejection notification failed", "request", r.ID, "error", err)
	}
	w.log.Info("request rejected",
		"request", r.ID, "role", string(role), "officer", a.Email, "employee", r.EmployeeEmail)
	return &ActionResult{
		Request: r,
		Message: fmt.Sprintf("request rejected by %s officer", strings.ToLower(string(role))),
	}, nil
}

func (w *Workflow) approve(ctx context.Context, r *Request, role OfficerRole, a *OfficerAssignment, comments string) (*ActionResult, error) {
	next, hasNext := r.NextRole(role)
	final := !hasNext

	// Settle before the approved state is persisted. The capacity check
	// inside Settle's critical section is the commit gate: the loser of two
	// concurrent final approvals is declined here with the request untouched.
	// Short leave draws on its quota instead, which no-ops once exhausted
	// rather than blocking approval. A save failure after the debit leaves
	// drift that the recalculation pass repairs.
	if final {
		if r.Kind == KindShort {
			if err := w.quota.Consume(ctx, r); err != nil {
				return nil, err
			}
		} else if err := w.ledger.Settle(ctx, r); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	a.Status = OfficerApproved
	a.Comments = comments
	a.ApprovedAt = &now
	r.UpdatedAt = now

	if final {
		r.Status = StatusApproved
	} else {
		r.Status = PendingStatus(next)
	}

	if err := w.store.PutRequest(ctx, r); err != nil {
		return nil, err
	}

	if final {
		if err := w.notifier.RequestStatusChanged(ctx, r, OutcomeApproved, role); err != nil {
			w.log.Warn("approval notification failed", "request", r.ID, "error", err)
		}
		w.log.Info("request approved",
			"request", r.ID, "employee", r.EmployeeEmail, "kind", string(r.Kind), "type", string(r.Type))
		return &ActionResult{Request: r, Message: "request approved"}, nil
	}

	if err := w.notifier.OfficerActionRequired(ctx, r, next); err != nil {
		w.log.Warn("forward notification failed", "request", r.ID, "error", err)
	}
	w.log.Info("request advanced",
		"request", r.ID, "from", string(role), "to", string(next), "employee", r.EmployeeEmail)
	return &ActionResult{
		Request: r,
		Message: fmt.Sprintf("request forwarded to %s officer", strings.ToLower(string(next))),
	}, nil
}
