package leave_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// SUBMISSION VALIDATION
// =============================================================================

func TestSubmit_ApprovalOfficerIsMandatory(t *testing.T) {
	svc, _ := newTestService(t)

	sub := casualSubmission(nextMarch(10), nextMarch(11))
	sub.ApprovalEmail = ""
	_, err := svc.Submit(context.Background(), sub)
	assert.True(t, leave.IsValidation(err))
}

func TestSubmit_SelfAssignmentIsRejected(t *testing.T) {
	// GIVEN: An employee naming themselves as an officer
	// WHEN: Submitting
	// THEN: Validation error; nobody approves their own leave

	svc, _ := newTestService(t)

	sub := casualSubmission(nextMarch(10), nextMarch(11))
	sub.ActingEmail = empAlice
	_, err := svc.Submit(context.Background(), sub)
	assert.True(t, leave.IsValidation(err))
}

func TestSubmit_DuplicateOfficerIsRejected(t *testing.T) {
	svc, _ := newTestService(t)

	sub := casualSubmission(nextMarch(10), nextMarch(11))
	sub.SupervisingEmail = offBob // bob already holds acting
	_, err := svc.Submit(context.Background(), sub)
	assert.True(t, leave.IsValidation(err))
}

func TestSubmit_OfficerOutsideDepartmentIsRejected(t *testing.T) {
	// GIVEN: An acting officer from another department
	// WHEN: Submitting
	// THEN: Validation error; only the approval officer may be
	//       cross-department, and only from the wildcard department

	svc, _ := newTestService(t)

	sub := casualSubmission(nextMarch(10), nextMarch(11))
	sub.ActingEmail = outsideFred
	_, err := svc.Submit(context.Background(), sub)
	assert.True(t, leave.IsValidation(err))
}

func TestSubmit_UnknownOfficerIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	sub := casualSubmission(nextMarch(10), nextMarch(11))
	sub.ActingEmail = "ghost@example.com"
	_, err := svc.Submit(context.Background(), sub)
	assert.True(t, leave.IsNotFound(err))
}

func TestSubmit_InsufficientBalanceIsRejected(t *testing.T) {
	// GIVEN: A casual pool reduced to 2 days
	// WHEN: Submitting a 5-day request
	// THEN: Declined at submission, before any officer sees it

	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AdjustEntitlement(ctx, admEve, empAlice, leave.TypeCasual, testYear(), 2)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, casualSubmission(nextMarch(10), nextMarch(14)))
	var balErr *leave.InsufficientBalanceError
	assert.ErrorAs(t, err, &balErr)
}

func TestSubmit_OverlappingRequestIsRejected(t *testing.T) {
	// GIVEN: A live request covering March 10-14
	// WHEN: Submitting a request covering March 12-13
	// THEN: Declined for overlap; a cancelled request does not block

	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, casualSubmission(nextMarch(10), nextMarch(14)))
	require.NoError(t, err)

	_, err = svc.Submit(ctx, casualSubmission(nextMarch(12), nextMarch(13)))
	assert.True(t, leave.IsValidation(err))

	_, err = svc.Cancel(ctx, first.ID, empAlice, "plans changed")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, casualSubmission(nextMarch(12), nextMarch(13)))
	assert.NoError(t, err)
}

func TestSubmit_ShortLeaveQuotaEnforced(t *testing.T) {
	// GIVEN: Two approved short leaves in the month (quota of 2)
	// WHEN: Submitting another in the same month
	// THEN: Declined with a quota reason; the day ledger is untouched

	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, day := range []int{3, 5} {
		sub := leave.Submission{
			EmployeeEmail: empAlice,
			Kind:          leave.KindShort,
			Type:          leave.TypeCasual,
			StartDate:     nextMarch(day),
			ShortStart:    leave.TimeOfDay{Hour: 10, Minute: 0},
			ShortEnd:      leave.TimeOfDay{Hour: 11, Minute: 0},
			ApprovalEmail: offDave,
		}
		r, err := svc.Submit(ctx, sub)
		require.NoError(t, err)
		_, err = svc.ActOnRequest(ctx, r.ID, leave.RoleApproval, offDave, leave.DecisionApprove, "")
		require.NoError(t, err)
	}

	sub := leave.Submission{
		EmployeeEmail: empAlice,
		Kind:          leave.KindShort,
		Type:          leave.TypeCasual,
		StartDate:     nextMarch(20),
		ShortStart:    leave.TimeOfDay{Hour: 14, Minute: 0},
		ShortEnd:      leave.TimeOfDay{Hour: 15, Minute: 0},
		ApprovalEmail: offDave,
	}
	_, err := svc.Submit(ctx, sub)
	var quotaErr *leave.QuotaExhaustedError
	assert.ErrorAs(t, err, &quotaErr)

	used, remaining := casualRemaining(t, svc)
	assert.Equal(t, 0.0, used, "short leave never touches the day ledger")
	assert.Equal(t, 21.0, remaining)
}

// =============================================================================
// CANCELLATION
// =============================================================================

func TestCancel_ApprovedRequestCreditsBeforeCancelling(t *testing.T) {
	// GIVEN: A fully approved 5-day casual request (21 -> 16 remaining)
	// WHEN: The employee cancels before the start date
	// THEN: Balance back to 21/0 and status CANCELLED_BY_EMPLOYEE

	svc, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.Submit(ctx, casualSubmission(nextMarch(10), nextMarch(14)))
	require.NoError(t, err)
	approveAll(t, svc, r.ID)

	used, remaining := casualRemaining(t, svc)
	require.Equal(t, 5.0, used)
	require.Equal(t, 16.0, remaining)

	cancelled, err := svc.Cancel(ctx, r.ID, empAlice, "plans changed")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelledEmployee, cancelled.Status)
	assert.True(t, cancelled.Cancelled)
	assert.NotNil(t, cancelled.CancelledAt)

	used, remaining = casualRemaining(t, svc)
	assert.Equal(t, 0.0, used)
	assert.Equal(t, 21.0, remaining)
}

func TestCancel_PendingRequestNeedsNoLedgerAction(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.Submit(ctx, casualSubmission(nextMarch(10), nextMarch(14)))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, r.ID, empAlice, "")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelledEmployee, cancelled.Status)

	used, remaining := casualRemaining(t, svc)
	assert.Equal(t, 0.0, used)
	assert.Equal(t, 21.0, remaining)
}

func TestCancel_ByAdminUsesAdminStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.Submit(ctx, casualSubmission(nextMarch(10), nextMarch(14)))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, r.ID, admEve, "policy violation")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelledAdmin, cancelled.Status)
	assert.Equal(t, admEve, cancelled.CancelledBy)
}

func TestCancel_StrangerIsNotAuthorized(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.Submit(ctx, casualSubmission(nextMarch(10), nextMarch(14)))
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, r.ID, outsideFred, "")
	assert.True(t, leave.IsAuthorization(err))
}

func TestCancel_AfterStartDateIsRejected(t *testing.T) {
	// GIVEN: A request whose leave already began
	// WHEN: Cancelling
	// THEN: Validation error; the window closed at the start date

	svc, _ := newTestService(t)
	ctx := context.Background()

	past := leave.Today().AddDays(-3)
	r, err := svc.Submit(ctx, casualSubmission(past, past.AddDays(1)))
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, r.ID, empAlice, "")
	assert.True(t, leave.IsValidation(err))
}

func TestCancel_RejectedRequestCannotBeCancelled(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.Submit(ctx, casualSubmission(nextMarch(10), nextMarch(14)))
	require.NoError(t, err)
	_, err = svc.ActOnRequest(ctx, r.ID, leave.RoleActing, offBob, leave.DecisionReject, "no")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, r.ID, empAlice, "")
	assert.True(t, leave.IsValidation(err))
}

func TestCancel_ApprovedShortLeaveRestoresQuota(t *testing.T) {
	// GIVEN: An approved short leave (one quota slot consumed)
	// WHEN: Cancelled
	// THEN: The monthly slot is available again

	svc, mem := newTestService(t)
	ctx := context.Background()

	sub := leave.Submission{
		EmployeeEmail: empAlice,
		Kind:          leave.KindShort,
		Type:          leave.TypeCasual,
		StartDate:     nextMarch(5),
		ShortStart:    leave.TimeOfDay{Hour: 9, Minute: 0},
		ShortEnd:      leave.TimeOfDay{Hour: 10, Minute: 0},
		ApprovalEmail: offDave,
	}
	r, err := svc.Submit(ctx, sub)
	require.NoError(t, err)
	_, err = svc.ActOnRequest(ctx, r.ID, leave.RoleApproval, offDave, leave.DecisionApprove, "")
	require.NoError(t, err)

	q, err := mem.GetQuota(ctx, empAlice, testYear(), 3)
	require.NoError(t, err)
	require.Equal(t, 1, q.Used)

	_, err = svc.Cancel(ctx, r.ID, empAlice, "")
	require.NoError(t, err)

	q, err = mem.GetQuota(ctx, empAlice, testYear(), 3)
	require.NoError(t, err)
	assert.Equal(t, 0, q.Used)
	assert.Equal(t, 2, q.Remaining)
}

// =============================================================================
// QUERIES
// =============================================================================

func TestCancellableRequests_FiltersWindow(t *testing.T) {
	// GIVEN: One future request, one rejected, one already started
	// WHEN: Listing cancellable requests
	// THEN: Only the future live request is returned

	svc, _ := newTestService(t)
	ctx := context.Background()

	future, err := svc.Submit(ctx, casualSubmission(nextMarch(10), nextMarch(11)))
	require.NoError(t, err)

	rejected, err := svc.Submit(ctx, casualSubmission(nextMarch(20), nextMarch(21)))
	require.NoError(t, err)
	_, err = svc.ActOnRequest(ctx, rejected.ID, leave.RoleActing, offBob, leave.DecisionReject, "")
	require.NoError(t, err)

	past := leave.Today().AddDays(-10)
	_, err = svc.Submit(ctx, casualSubmission(past, past.AddDays(1)))
	require.NoError(t, err)

	cancellable, err := svc.CancellableRequests(ctx, empAlice)
	require.NoError(t, err)
	require.Len(t, cancellable, 1)
	assert.Equal(t, future.ID, cancellable[0].ID)
}

func TestPendingForOfficer_OldestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, casualSubmission(nextMarch(3), nextMarch(4)))
	require.NoError(t, err)
	second, err := svc.Submit(ctx, casualSubmission(nextMarch(10), nextMarch(11)))
	require.NoError(t, err)

	pending, err := svc.PendingForOfficer(ctx, offBob, leave.RoleActing)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, second.ID, pending[1].ID)

	count, err := svc.PendingCountForOfficer(ctx, offBob)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

// =============================================================================
// RECALCULATION - The replay-based repair pass
// =============================================================================

func TestRecalculate_RepairsDriftAndIsIdempotent(t *testing.T) {
	// GIVEN: An approved 5-day request plus a hand-corrupted balance record
	// WHEN: Recalculate runs
	// THEN: The balance is rebuilt from the approved requests; running it
	//       again changes nothing

	svc, mem := newTestService(t)
	ctx := context.Background()

	r, err := svc.Submit(ctx, casualSubmission(nextMarch(10), nextMarch(14)))
	require.NoError(t, err)
	approveAll(t, svc, r.ID)

	// Simulate drift from a partial failure.
	e, err := mem.GetEntitlement(ctx, empAlice, leave.TypeCasual, testYear())
	require.NoError(t, err)
	e.Used = decimal.NewFromInt(17)
	e.Remaining = decimal.NewFromInt(4)
	require.NoError(t, mem.PutEntitlement(ctx, e))

	require.NoError(t, svc.Recalculate(ctx, empAlice, testYear()))
	used, remaining := casualRemaining(t, svc)
	assert.Equal(t, 5.0, used)
	assert.Equal(t, 16.0, remaining)

	require.NoError(t, svc.Recalculate(ctx, empAlice, testYear()))
	used, remaining = casualRemaining(t, svc)
	assert.Equal(t, 5.0, used)
	assert.Equal(t, 16.0, remaining)
}

func TestRecalculate_SkipsCancelledRequests(t *testing.T) {
	// GIVEN: One approved and one approved-then-cancelled request
	// WHEN: Recalculate runs
	// THEN: Only the live approval is replayed

	svc, _ := newTestService(t)
	ctx := context.Background()

	keep, err := svc.Submit(ctx, casualSubmission(nextMarch(10), nextMarch(11)))
	require.NoError(t, err)
	approveAll(t, svc, keep.ID)

	drop, err := svc.Submit(ctx, casualSubmission(nextMarch(20), nextMarch(24)))
	require.NoError(t, err)
	approveAll(t, svc, drop.ID)
	_, err = svc.Cancel(ctx, drop.ID, empAlice, "")
	require.NoError(t, err)

	require.NoError(t, svc.Recalculate(ctx, empAlice, testYear()))
	used, remaining := casualRemaining(t, svc)
	assert.Equal(t, 2.0, used)
	assert.Equal(t, 19.0, remaining)
}

func TestRecalculate_ReplaysHalfDaysAndQuotas(t *testing.T) {
	// GIVEN: Two approved half-days and one approved short leave
	// WHEN: Records are corrupted and Recalculate runs
	// THEN: Half-day pairing and the monthly quota are both rebuilt

	svc, mem := newTestService(t)
	ctx := context.Background()

	for _, day := range []int{3, 17} {
		sub := leave.Submission{
			EmployeeEmail: empAlice,
			Kind:          leave.KindHalfDay,
			Type:          leave.TypeCasual,
			StartDate:     nextMarch(day),
			HalfDayPeriod: leave.Morning,
			ApprovalEmail: offDave,
		}
		r, err := svc.Submit(ctx, sub)
		require.NoError(t, err)
		_, err = svc.ActOnRequest(ctx, r.ID, leave.RoleApproval, offDave, leave.DecisionApprove, "")
		require.NoError(t, err)
	}
	short := leave.Submission{
		EmployeeEmail: empAlice,
		Kind:          leave.KindShort,
		Type:          leave.TypeCasual,
		StartDate:     nextMarch(6),
		ShortStart:    leave.TimeOfDay{Hour: 9, Minute: 0},
		ShortEnd:      leave.TimeOfDay{Hour: 10, Minute: 0},
		ApprovalEmail: offDave,
	}
	r, err := svc.Submit(ctx, short)
	require.NoError(t, err)
	_, err = svc.ActOnRequest(ctx, r.ID, leave.RoleApproval, offDave, leave.DecisionApprove, "")
	require.NoError(t, err)

	// Corrupt both records.
	e, err := mem.GetEntitlement(ctx, empAlice, leave.TypeCasual, testYear())
	require.NoError(t, err)
	e.Used = decimal.NewFromInt(9)
	e.AccumulatedHalfDays = 1
	require.NoError(t, mem.PutEntitlement(ctx, e))
	q, err := mem.GetQuota(ctx, empAlice, testYear(), 3)
	require.NoError(t, err)
	q.Used = 2
	q.Remaining = 0
	require.NoError(t, mem.PutQuota(ctx, q))

	require.NoError(t, svc.Recalculate(ctx, empAlice, testYear()))

	e, err = mem.GetEntitlement(ctx, empAlice, leave.TypeCasual, testYear())
	require.NoError(t, err)
	assert.True(t, e.Used.Equal(decimal.NewFromInt(1)), "two half-days pair into one day")
	assert.Equal(t, 0, e.AccumulatedHalfDays)

	q, err = mem.GetQuota(ctx, empAlice, testYear(), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Used)
	assert.Equal(t, 1, q.Remaining)
}
