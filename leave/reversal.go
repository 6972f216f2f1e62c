/*
reversal.go - Cancellation and the ledger credit that mirrors settlement

PURPOSE:
  Cancellation undoes a request. Rejected requests never reach here (nothing
  was debited, and a rejection is final anyway). Cancelling an APPROVED
  request first credits back exactly what its approval debited, then marks
  the request cancelled; cancelling a still-pending request is purely a
  state change.

ORDERING:
  Credit strictly before the cancelled state is saved. If the credit
  succeeds and the save then fails, the employee temporarily holds extra
  balance on a request still marked approved; the recalculation pass repairs
  that. The reverse order could lose days permanently, so it is never used.

WHO MAY CANCEL:
  The owning employee, or a directory admin. Either way the window closes
  once the start date has passed; the start day itself is still cancellable.
*/
package leave

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// ReversalCoordinator undoes approved requests' ledger effects on
// cancellation.
type ReversalCoordinator struct {
	store    Store
	ledger   *Ledger
	quota    *QuotaTracker
	dir      Directory
	notifier Notifier
	log      *slog.Logger
}

// NewReversalCoordinator wires the coordinator over its collaborators.
func NewReversalCoordinator(store Store, ledger *Ledger, quota *QuotaTracker, dir Directory, notifier Notifier, log *slog.Logger) *ReversalCoordinator {
	if log == nil {
		log = slog.Default()
	}
	return &ReversalCoordinator{store: store, ledger: ledger, quota: quota, dir: dir, notifier: notifier, log: log}
}

// Cancel cancels a request on behalf of its owner or an admin.
func (c *ReversalCoordinator) Cancel(ctx context.Context, requestID, callerEmail, reason string) (*Request, error) {
	r, err := c.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	owner := strings.EqualFold(r.EmployeeEmail, callerEmail)
	var status Status
	if owner {
		status = StatusCancelledEmployee
	} else {
		caller, err := c.dir.Lookup(ctx, callerEmail)
		if err != nil {
			return nil, err
		}
		if !caller.Admin {
			return nil, &AuthorizationError{Caller: callerEmail, Action: "cancel request " + requestID}
		}
		status = StatusCancelledAdmin
	}

	today := Today()
	if r.Cancelled {
		return nil, &StateError{RequestID: requestID, Status: r.Status}
	}
	if r.Status.IsRejected() {
		return nil, Validationf("a rejected request cannot be cancelled")
	}
	if r.StartDate.Before(today) {
		return nil, Validationf("leave starting %s has already begun and cannot be cancelled", r.StartDate)
	}

	wasApproved := r.Status == StatusApproved

	// Credit before the cancelled state is persisted.
	if wasApproved {
		if r.Kind == KindShort {
			if err := c.quota.Restore(ctx, r); err != nil {
				return nil, err
			}
		} else if err := c.ledger.Reverse(ctx, r); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	r.Status = status
	r.Cancelled = true
	r.CancelledAt = &now
	r.CancelledBy = callerEmail
	r.CancellationReason = reason
	r.UpdatedAt = now

	if err := c.store.PutRequest(ctx, r); err != nil {
		return nil, err
	}

	if err := c.notifier.RequestCancelled(ctx, r, callerEmail); err != nil {
		c.log.Warn("cancellation notification failed", "request", r.ID, "error", err)
	}
	c.log.Info("request cancelled",
		"request", r.ID, "employee", r.EmployeeEmail, "by", callerEmail,
		"was_approved", wasApproved)
	return r, nil
}
