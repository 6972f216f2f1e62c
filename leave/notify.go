/*
notify.go - Fire-and-forget notification events

PURPOSE:
  The workflow emits events at every externally interesting transition; a
  Notifier delivers them (mail, chat, whatever). Delivery is strictly
  fire-and-forget: a failed notification is logged and swallowed, and never
  fails or rolls back the state change that triggered it.
*/
package leave

import (
	"context"
	"log/slog"
)

// Outcome is what happened to a request from the employee's point of view.
type Outcome string

const (
	OutcomeApproved Outcome = "APPROVED"
	OutcomeRejected Outcome = "REJECTED"
)

// Notifier receives workflow events. Implementations must not block
// indefinitely; errors are logged by the caller and discarded.
type Notifier interface {
	// OfficerActionRequired fires when a request lands on an officer's desk.
	OfficerActionRequired(ctx context.Context, r *Request, role OfficerRole) error

	// RequestStatusChanged fires when an officer approves or rejects,
	// addressed to the employee.
	RequestStatusChanged(ctx context.Context, r *Request, outcome Outcome, role OfficerRole) error

	// MaternityEndDateSet fires when an admin fixes a maternity end date.
	MaternityEndDateSet(ctx context.Context, r *Request) error

	// RequestCancelled fires when a request is cancelled.
	RequestCancelled(ctx context.Context, r *Request, actor string) error
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) OfficerActionRequired(context.Context, *Request, OfficerRole) error { return nil }
func (NopNotifier) RequestStatusChanged(context.Context, *Request, Outcome, OfficerRole) error {
	return nil
}
func (NopNotifier) MaternityEndDateSet(context.Context, *Request) error      { return nil }
func (NopNotifier) RequestCancelled(context.Context, *Request, string) error { return nil }

// LogNotifier writes each event as a structured log line. Used as the
// default sink when no mail transport is wired.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) logger() *slog.Logger {
	if n.Log != nil {
		return n.Log
	}
	return slog.Default()
}

func (n LogNotifier) OfficerActionRequired(_ context.Context, r *Request, role OfficerRole) error {
	officer := r.Assignment(role)
	n.logger().Info("officer action required",
		"request", r.ID, "role", string(role), "officer", officer.Email, "employee", r.EmployeeEmail)
	return nil
}

func (n LogNotifier) RequestStatusChanged(_ context.Context, r *Request, outcome Outcome, role OfficerRole) error {
	n.logger().Info("request status changed",
		"request", r.ID, "outcome", string(outcome), "role", string(role), "employee", r.EmployeeEmail)
	return nil
}

func (n LogNotifier) MaternityEndDateSet(_ context.Context, r *Request) error {
	n.logger().Info("maternity end date set",
		"request", r.ID, "employee", r.EmployeeEmail, "end_date", r.EndDate.String())
	return nil
}

func (n LogNotifier) RequestCancelled(_ context.Context, r *Request, actor string) error {
	n.logger().Info("request cancelled",
		"request", r.ID, "employee", r.EmployeeEmail, "actor", actor)
	return nil
}
