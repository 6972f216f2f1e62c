/*
shortleave.go - Monthly short-leave quota tracking

PURPOSE:
  Short leave (a sub-day absence with a start and end time on one day) never
  touches the day ledger. It draws on an independent monthly quota, lazily
  created per (employee, year, month) from the configured allotment.

QUOTA SEMANTICS:
  - Submission is refused once the month's quota is exhausted.
  - Consumption at final approval is a silent no-op when the quota is empty:
    a request submitted with quota available but approved after a concurrent
    one drained it still gets approved, it just cannot draw below zero.
  - Reversal restores a slot only if one was actually consumed.
*/
package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// =============================================================================
// QUOTA - One (employee, year, month) short-leave record
// =============================================================================

// Quota is a monthly short-leave allotment record.
type Quota struct {
	EmployeeEmail string
	Year          int
	Month         int // 1-12

	Total     int
	Used      int
	Remaining int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewQuota builds a fresh record with the full allotment available.
func NewQuota(email string, year, month, total int) *Quota {
	now := time.Now().UTC()
	return &Quota{
		EmployeeEmail: email,
		Year:          year,
		Month:         month,
		Total:         total,
		Used:          0,
		Remaining:     total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// HasRemaining reports whether another short leave fits this month.
func (q *Quota) HasRemaining() bool { return q.Remaining > 0 }

// Use consumes one slot. Exhausted quotas are a no-op, never negative.
func (q *Quota) Use() {
	if q.Remaining <= 0 {
		return
	}
	q.Used++
	q.Remaining--
	q.UpdatedAt = time.Now().UTC()
}

// Revert restores one slot, only if one was actually consumed.
func (q *Quota) Revert() {
	if q.Used <= 0 {
		return
	}
	q.Used--
	q.Remaining++
	q.UpdatedAt = time.Now().UTC()
}

// ResetUsage returns the record to its full allotment. Used by the
// recalculation pass before replaying settled requests.
func (q *Quota) ResetUsage() {
	q.Used = 0
	q.Remaining = q.Total
	q.UpdatedAt = time.Now().UTC()
}

// =============================================================================
// QUOTA TRACKER
// =============================================================================

// QuotaTracker is the authority over monthly short-leave quotas, the
// short-leave counterpart of the Ledger.
type QuotaTracker struct {
	store QuotaStore
	cfg   Config
	locks *keyedLocks
	log   *slog.Logger
}

// NewQuotaTracker wires a tracker over a store with the given defaults.
func NewQuotaTracker(store QuotaStore, cfg Config, log *slog.Logger) *QuotaTracker {
	if log == nil {
		log = slog.Default()
	}
	return &QuotaTracker{store: store, cfg: cfg, locks: newKeyedLocks(), log: log}
}

func quotaKey(email string, year, month int) string {
	return fmt.Sprintf("%s|%d|%02d", email, year, month)
}

func (t *QuotaTracker) ensure(ctx context.Context, email string, year, month int) (*Quota, error) {
	q, err := t.store.GetQuota(ctx, email, year, month)
	if err != nil {
		return nil, err
	}
	if q != nil {
		return q, nil
	}
	q = NewQuota(email, year, month, t.cfg.ShortLeavesPerMonth)
	if err := t.store.PutQuota(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Validate refuses a short-leave submission once the month is exhausted.
func (t *QuotaTracker) Validate(ctx context.Context, r *Request) error {
	if r.Kind != KindShort {
		return nil
	}
	year, month := r.StartDate.Year(), r.StartDate.Month()
	q, err := t.ensure(ctx, r.EmployeeEmail, year, month)
	if err != nil {
		return err
	}
	if !q.HasRemaining() {
		return &QuotaExhaustedError{
			EmployeeEmail: r.EmployeeEmail,
			Year:          year,
			Month:         month,
			Total:         q.Total,
		}
	}
	return nil
}

// Consume takes one slot at final approval. Silently no-ops on an exhausted
// quota; the approval stands either way.
func (t *QuotaTracker) Consume(ctx context.Context, r *Request) error {
	if r.Kind != KindShort {
		return nil
	}
	year, month := r.StartDate.Year(), r.StartDate.Month()
	return t.locks.withLock(quotaKey(r.EmployeeEmail, year, month), func() error {
		q, err := t.ensure(ctx, r.EmployeeEmail, year, month)
		if err != nil {
			return err
		}
		q.Use()
		if err := t.store.PutQuota(ctx, q); err != nil {
			return err
		}
		t.log.Info("short leave quota consumed",
			"employee", r.EmployeeEmail, "year", year, "month", month, "remaining", q.Remaining)
		return nil
	})
}

// Restore gives one slot back when an approved short leave is reversed.
func (t *QuotaTracker) Restore(ctx context.Context, r *Request) error {
	if r.Kind != KindShort {
		return nil
	}
	year, month := r.StartDate.Year(), r.StartDate.Month()
	return t.locks.withLock(quotaKey(r.EmployeeEmail, year, month), func() error {
		q, err := t.ensure(ctx, r.EmployeeEmail, year, month)
		if err != nil {
			return err
		}
		q.Revert()
		if err := t.store.PutQuota(ctx, q); err != nil {
			return err
		}
		t.log.Info("short leave quota restored",
			"employee", r.EmployeeEmail, "year", year, "month", month, "remaining", q.Remaining)
		return nil
	})
}
