/*
entitlement.go - Annual entitlement records and the ledger that settles them

PURPOSE:
  Every employee holds one entitlement record per (leave type, year): a total
  allotment, the days used, and the days remaining. The Ledger is the single
  authority over those records. Debits happen only on final approval, credits
  only on reversal of a previously settled request, and the two are exact
  mirrors: reversing a request restores precisely what its approval took.

HALF-DAY ACCUMULATION:
  Half-day leave costs 0.5 days but the casual pool is debited in whole days.
  Approvals increment an accumulator; every second half-day clears it and
  debits one full day. Reversal mirrors this: an empty accumulator means the
  last pair was already settled, so the credit restores a full day and
  re-arms the accumulator with the surviving half.

UNLIMITED POOLS:
  A total of Unlimited (duty leave) never blocks a debit. Usage is still
  recorded for reporting; Remaining stays at zero and is not meaningful.

CONCURRENCY:
  All read-modify-write sequences run under a per-(employee, type, year)
  mutex so two concurrent approvals cannot both pass a capacity check that
  only one of them can satisfy.

SEE ALSO:
  - workflow.go: calls Settle on terminal approval
  - reversal.go: calls Reverse on cancellation of an approved request
*/
package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENTITLEMENT - One (employee, leave type, year) balance record
// =============================================================================

// Entitlement is an annual balance record. Total is in whole days, or
// Unlimited. Used and Remaining carry halves, hence decimals.
type Entitlement struct {
	EmployeeEmail string
	Type          Type
	Year          int

	Total     int // Unlimited for uncapped pools
	Used      decimal.Decimal
	Remaining decimal.Decimal

	// AccumulatedHalfDays is 0 or 1: the half-day awaiting its pair before
	// the next whole-day debit. Only meaningful on the casual record.
	AccumulatedHalfDays int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEntitlement builds a fresh record with nothing used.
func NewEntitlement(email string, leaveType Type, year, total int) *Entitlement {
	now := time.Now().UTC()
	e := &Entitlement{
		EmployeeEmail: email,
		Type:          leaveType,
		Year:          year,
		Total:         total,
		Used:          decimal.Zero,
		Remaining:     decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if !e.IsUnlimited() {
		e.Remaining = decimal.NewFromInt(int64(total))
	}
	return e
}

// IsUnlimited reports whether this pool has no capacity ceiling.
func (e *Entitlement) IsUnlimited() bool { return e.Total == Unlimited }

// HasSufficient reports whether a debit of days would fit, the pending
// accumulated half-day priced in.
func (e *Entitlement) HasSufficient(days decimal.Decimal) bool {
	if e.IsUnlimited() {
		return true
	}
	return e.EffectiveRemaining().GreaterThanOrEqual(days)
}

// EffectiveRemaining is the balance with the pending half-day priced in: an
// armed accumulator already owes half a day that the next pairing will debit.
func (e *Entitlement) EffectiveRemaining() decimal.Decimal {
	if e.IsUnlimited() {
		return e.Remaining
	}
	pending := decimal.NewFromFloat(0.5).Mul(decimal.NewFromInt(int64(e.AccumulatedHalfDays)))
	return e.Remaining.Sub(pending)
}

// CanTakeHalfDay reports whether another half-day fits, accumulator included.
func (e *Entitlement) CanTakeHalfDay() bool {
	if e.IsUnlimited() {
		return true
	}
	return e.EffectiveRemaining().GreaterThanOrEqual(decimal.NewFromFloat(0.5))
}

// DebitDays records usage. Unlimited pools track Used only.
func (e *Entitlement) DebitDays(days decimal.Decimal) {
	e.Used = e.Used.Add(days)
	if !e.IsUnlimited() {
		e.Remaining = e.Remaining.Sub(days)
	}
	e.UpdatedAt = time.Now().UTC()
}

// CreditDays reverses usage. Used never goes below zero and Remaining never
// exceeds Total, so a stray double credit cannot mint balance.
func (e *Entitlement) CreditDays(days decimal.Decimal) {
	e.Used = e.Used.Sub(days)
	if e.Used.IsNegative() {
		e.Used = decimal.Zero
	}
	if !e.IsUnlimited() {
		e.Remaining = e.Remaining.Add(days)
		if total := decimal.NewFromInt(int64(e.Total)); e.Remaining.GreaterThan(total) {
			e.Remaining = total
		}
	}
	e.UpdatedAt = time.Now().UTC()
}

// AddHalfDay applies one approved half-day: arm the accumulator, and on the
// second half debit one whole day.
func (e *Entitlement) AddHalfDay() {
	e.AccumulatedHalfDays++
	if e.AccumulatedHalfDays >= 2 {
		e.AccumulatedHalfDays = 0
		e.DebitDays(decimal.NewFromInt(1))
		return
	}
	e.UpdatedAt = time.Now().UTC()
}

// RemoveHalfDay reverses one settled half-day, the exact mirror of
// AddHalfDay. An armed accumulator just disarms; an empty one means the last
// pair was debited as a whole day, so credit it back and re-arm with the
// surviving half.
func (e *Entitlement) RemoveHalfDay() {
	if e.AccumulatedHalfDays > 0 {
		e.AccumulatedHalfDays--
		e.UpdatedAt = time.Now().UTC()
		return
	}
	e.CreditDays(decimal.NewFromInt(1))
	e.AccumulatedHalfDays = 1
}

// SetTotal applies an administrative adjustment and recomputes Remaining
// from recorded usage. The adjustment may leave Remaining negative when the
// new total sits below what was already used; the deficit is visible rather
// than papered over.
func (e *Entitlement) SetTotal(total int) {
	e.Total = total
	if e.IsUnlimited() {
		e.Remaining = decimal.Zero
	} else {
		e.Remaining = decimal.NewFromInt(int64(total)).Sub(e.Used)
	}
	e.UpdatedAt = time.Now().UTC()
}

// ResetUsage zeroes the record back to its allotment. Used by the
// recalculation pass before replaying settled requests.
func (e *Entitlement) ResetUsage() {
	e.Used = decimal.Zero
	e.AccumulatedHalfDays = 0
	if e.IsUnlimited() {
		e.Remaining = decimal.Zero
	} else {
		e.Remaining = decimal.NewFromInt(int64(e.Total))
	}
	e.UpdatedAt = time.Now().UTC()
}

// =============================================================================
// LEDGER - The single authority over entitlement records
// =============================================================================

// Ledger settles approved requests against entitlement records and reverses
// them on cancellation. It lazily creates records from the configured
// defaults the first time a (type, year) pool is touched.
type Ledger struct {
	store EntitlementStore
	cfg   Config
	locks *keyedLocks
	log   *slog.Logger
}

// NewLedger wires a ledger over a store with the given defaults.
func NewLedger(store EntitlementStore, cfg Config, log *slog.Logger) *Ledger {
	if log == nil {
		log = slog.Default()
	}
	return &Ledger{store: store, cfg: cfg, locks: newKeyedLocks(), log: log}
}

func ledgerKey(email string, leaveType Type, year int) string {
	return fmt.Sprintf("%s|%s|%d", email, leaveType, year)
}

// ensure loads the record for (email, type, year), creating it from the
// configured default on first touch. Caller holds the key lock when the
// record will be mutated.
func (l *Ledger) ensure(ctx context.Context, email string, leaveType Type, year int) (*Entitlement, error) {
	e, err := l.store.GetEntitlement(ctx, email, leaveType, year)
	if err != nil {
		return nil, err
	}
	if e != nil {
		return e, nil
	}
	total, ok := l.cfg.DefaultEntitlements[leaveType]
	if !ok {
		return nil, Validationf("no entitlement configured for leave type %s", leaveType)
	}
	e = NewEntitlement(email, leaveType, year, total)
	if err := l.store.PutEntitlement(ctx, e); err != nil {
		return nil, err
	}
	l.log.Info("entitlement initialized",
		"employee", email, "type", string(leaveType), "year", year, "total", total)
	return e, nil
}

// Validate checks, without mutating anything, that the request's ledger cost
// fits the employee's balance. Used at submission and again at final
// approval: balances can shrink between the two.
func (l *Ledger) Validate(ctx context.Context, r *Request) error {
	if r.Kind == KindShort {
		return nil // quota-governed, see shortleave.go
	}
	year := r.StartDate.Year()
	e, err := l.ensure(ctx, r.EmployeeEmail, r.LedgerType(), year)
	if err != nil {
		return err
	}
	if r.Kind == KindHalfDay {
		if !e.CanTakeHalfDay() {
			return &InsufficientBalanceError{
				EmployeeEmail: r.EmployeeEmail,
				LeaveType:     e.Type,
				Requested:     decimal.NewFromFloat(0.5),
				Available:     e.EffectiveRemaining(),
			}
		}
		return nil
	}
	days := r.EffectiveDays()
	if days.IsZero() {
		return nil // maternity before its end date is set
	}
	if !e.HasSufficient(days) {
		return &InsufficientBalanceError{
			EmployeeEmail: r.EmployeeEmail,
			LeaveType:     e.Type,
			Requested:     days,
			Available:     e.EffectiveRemaining(),
		}
	}
	return nil
}

// Settle debits the request's cost, revalidating inside the critical section
// first. Half-day requests go through the accumulator; everything else is a
// plain whole-day debit. Short leave never reaches the ledger.
func (l *Ledger) Settle(ctx context.Context, r *Request) error {
	if r.Kind == KindShort {
		return nil
	}
	days := r.EffectiveDays()
	if r.Kind != KindHalfDay && days.IsZero() {
		return nil
	}
	year := r.StartDate.Year()
	key := ledgerKey(r.EmployeeEmail, r.LedgerType(), year)
	return l.locks.withLock(key, func() error {
		e, err := l.ensure(ctx, r.EmployeeEmail, r.LedgerType(), year)
		if err != nil {
			return err
		}
		if r.Kind == KindHalfDay {
			if !e.CanTakeHalfDay() {
				return &InsufficientBalanceError{
					EmployeeEmail: r.EmployeeEmail,
					LeaveType:     e.Type,
					Requested:     decimal.NewFromFloat(0.5),
					Available:     e.EffectiveRemaining(),
				}
			}
			e.AddHalfDay()
		} else {
			if !e.HasSufficient(days) {
				return &InsufficientBalanceError{
					EmployeeEmail: r.EmployeeEmail,
					LeaveType:     e.Type,
					Requested:     days,
					Available:     e.EffectiveRemaining(),
				}
			}
			e.DebitDays(days)
		}
		if err := l.store.PutEntitlement(ctx, e); err != nil {
			return err
		}
		l.log.Info("entitlement debited",
			"employee", r.EmployeeEmail, "type", string(e.Type), "year", year,
			"days", days.String(), "remaining", e.Remaining.String())
		return nil
	})
}

// Reverse credits back exactly what Settle debited for this request.
func (l *Ledger) Reverse(ctx context.Context, r *Request) error {
	if r.Kind == KindShort {
		return nil
	}
	days := r.EffectiveDays()
	if r.Kind != KindHalfDay && days.IsZero() {
		return nil
	}
	year := r.StartDate.Year()
	key := ledgerKey(r.EmployeeEmail, r.LedgerType(), year)
	return l.locks.withLock(key, func() error {
		e, err := l.ensure(ctx, r.EmployeeEmail, r.LedgerType(), year)
		if err != nil {
			return err
		}
		if r.Kind == KindHalfDay {
			e.RemoveHalfDay()
		} else {
			e.CreditDays(days)
		}
		if err := l.store.PutEntitlement(ctx, e); err != nil {
			return err
		}
		l.log.Info("entitlement credited",
			"employee", r.EmployeeEmail, "type", string(e.Type), "year", year,
			"days", days.String(), "remaining", e.Remaining.String())
		return nil
	})
}

// Adjust sets a new total for one pool and recomputes its remaining balance
// from recorded usage.
func (l *Ledger) Adjust(ctx context.Context, email string, leaveType Type, year, total int) (*Entitlement, error) {
	if total < 0 && total != Unlimited {
		return nil, Validationf("total must be non-negative or unlimited, got %d", total)
	}
	var out *Entitlement
	key := ledgerKey(email, leaveType, year)
	err := l.locks.withLock(key, func() error {
		e, err := l.ensure(ctx, email, leaveType, year)
		if err != nil {
			return err
		}
		e.SetTotal(total)
		if err := l.store.PutEntitlement(ctx, e); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("entitlement adjusted",
		"employee", email, "type", string(leaveType), "year", year, "total", total)
	return out, nil
}

// Balances returns the employee's records for a year in display order,
// creating any missing pools from the defaults.
func (l *Ledger) Balances(ctx context.Context, email string, year int) ([]*Entitlement, error) {
	out := make([]*Entitlement, 0, len(entitlementOrder))
	for _, t := range entitlementOrder {
		e, err := l.ensure(ctx, email, t, year)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Initialize creates all default pools for an employee up front. Idempotent.
func (l *Ledger) Initialize(ctx context.Context, email string, year int) error {
	_, err := l.Balances(ctx, email, year)
	return err
}
