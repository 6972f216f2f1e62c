package leave_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/leave"
)

func maternitySubmission(start leave.Date, tier leave.PayTier) leave.Submission {
	return leave.Submission{
		EmployeeEmail: empAlice,
		Kind:          leave.KindMaternity,
		Type:          leave.TypeMaternity,
		StartDate:     start,
		PayTier:       tier,
		ApprovalEmail: offDave,
	}
}

func maternityBalance(t *testing.T, svc *leave.Service) (used, remaining float64) {
	t.Helper()
	balances, err := svc.Balances(context.Background(), empAlice, testYear())
	require.NoError(t, err)
	for _, e := range balances {
		if e.Type == leave.TypeMaternity {
			u, _ := e.Used.Float64()
			r, _ := e.Remaining.Float64()
			return u, r
		}
	}
	t.Fatal("maternity entitlement missing")
	return 0, 0
}

// =============================================================================
// ZERO-COST APPROVAL AND THE DEFERRED DEBIT
// =============================================================================

func TestMaternity_ApprovalConsumesZeroDays(t *testing.T) {
	// GIVEN: A maternity request with no end date
	// WHEN: It is fully approved
	// THEN: The maternity pool is untouched

	svc, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.Submit(ctx, maternitySubmission(nextMarch(1), leave.FullPay))
	require.NoError(t, err)
	assert.True(t, r.EffectiveDays().IsZero())

	_, err = svc.ActOnRequest(ctx, r.ID, leave.RoleApproval, offDave, leave.DecisionApprove, "")
	require.NoError(t, err)

	used, remaining := maternityBalance(t, svc)
	assert.Equal(t, 0.0, used)
	assert.Equal(t, 84.0, remaining)
}

func TestMaternity_SetEndDateDebitsInclusiveRange(t *testing.T) {
	// GIVEN: An approved open maternity period starting March 1
	// WHEN: An admin sets the end date to March 28
	// THEN: Exactly 28 days are debited, once, and the note is stamped

	svc, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.Submit(ctx, maternitySubmission(nextMarch(1), leave.FullPay))
	require.NoError(t, err)
	_, err = svc.ActOnRequest(ctx, r.ID, leave.RoleApproval, offDave, leave.DecisionApprove, "")
	require.NoError(t, err)

	updated, err := svc.SetMaternityEndDate(ctx, r.ID, admEve, nextMarch(28), "confirmed by HR")
	require.NoError(t, err)
	assert.True(t, updated.EndDateSet)
	assert.Equal(t, nextMarch(28), updated.EndDate)
	assert.Contains(t, updated.MaternityNote, admEve)
	assert.Contains(t, updated.MaternityNote, "confirmed by HR")
	assert.True(t, updated.EffectiveDays().Equal(decimal.NewFromInt(28)))

	used, remaining := maternityBalance(t, svc)
	assert.Equal(t, 28.0, used)
	assert.Equal(t, 56.0, remaining)
}

func TestMaternity_SetEndDateIsExactlyOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.Submit(ctx, maternitySubmission(nextMarch(1), leave.FullPay))
	require.NoError(t, err)
	_, err = svc.ActOnRequest(ctx, r.ID, leave.RoleApproval, offDave, leave.DecisionApprove, "")
	require.NoError(t, err)

	_, err = svc.SetMaternityEndDate(ctx, r.ID, admEve, nextMarch(28), "")
	require.NoError(t, err)

	_, err = svc.SetMaternityEndDate(ctx, r.ID, admEve, nextMarch(30), "")
	assert.True(t, leave.IsInvalidState(err))

	used, _ := maternityBalance(t, svc)
	assert.Equal(t, 28.0, used, "a second attempt must not debit again")
}

func TestMaternity_SetEndDateRequiresApprovedState(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.Submit(ctx, maternitySubmission(nextMarch(1), leave.FullPay))
	require.NoError(t, err)

	_, err = svc.SetMaternityEndDate(ctx, r.ID, admEve, nextMarch(28), "")
	assert.True(t, leave.IsInvalidState(err))
}

func TestMaternity_SetEndDateRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.Submit(ctx, maternitySubmission(nextMarch(1), leave.FullPay))
	require.NoError(t, err)
	_, err = svc.ActOnRequest(ctx, r.ID, leave.RoleApproval, offDave, leave.DecisionApprove, "")
	require.NoError(t, err)

	_, err = svc.SetMaternityEndDate(ctx, r.ID, offBob, nextMarch(28), "")
	assert.True(t, leave.IsAuthorization(err))
}

// =============================================================================
// ONE-IN-FLIGHT SUBMISSION RULES
// =============================================================================

func TestMaternity_PendingRequestBlocksNewSubmission(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, maternitySubmission(nextMarch(1), leave.FullPay))
	require.NoError(t, err)

	_, err = svc.Submit(ctx, maternitySubmission(nextMarch(15), leave.HalfPay))
	assert.True(t, leave.IsValidation(err))
}

func TestMaternity_OpenPeriodAdmitsOnlyTierDowngrade(t *testing.T) {
	// GIVEN: An approved FULL_PAY period with no end date
	// WHEN: Submitting continuations at various tiers
	// THEN: Same or higher tier is refused; a downgrade starting on or after
	//       the open period's start is admitted

	svc, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.Submit(ctx, maternitySubmission(nextMarch(1), leave.FullPay))
	require.NoError(t, err)
	_, err = svc.ActOnRequest(ctx, r.ID, leave.RoleApproval, offDave, leave.DecisionApprove, "")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, maternitySubmission(nextMarch(15), leave.FullPay))
	assert.True(t, leave.IsValidation(err), "same tier is not a continuation")

	// A downgrade starting before the open period is refused.
	early := nextMarch(1).AddDays(-10)
	_, err = svc.Submit(ctx, maternitySubmission(early, leave.HalfPay))
	assert.True(t, leave.IsValidation(err))

	_, err = svc.Submit(ctx, maternitySubmission(nextMarch(15), leave.HalfPay))
	assert.NoError(t, err, "a tier downgrade on or after the start is a valid continuation")
}

func TestMaternity_ClosedPeriodRequiresLaterStart(t *testing.T) {
	// GIVEN: An approved period closed at March 28
	// WHEN: Submitting a new maternity request
	// THEN: It must start after March 28

	svc, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.Submit(ctx, maternitySubmission(nextMarch(1), leave.FullPay))
	require.NoError(t, err)
	_, err = svc.ActOnRequest(ctx, r.ID, leave.RoleApproval, offDave, leave.DecisionApprove, "")
	require.NoError(t, err)
	_, err = svc.SetMaternityEndDate(ctx, r.ID, admEve, nextMarch(28), "")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, maternitySubmission(nextMarch(20), leave.FullPay))
	assert.True(t, leave.IsValidation(err))

	_, err = svc.Submit(ctx, maternitySubmission(nextMarch(29), leave.FullPay))
	assert.NoError(t, err)
}

func TestMaternity_AwaitingEndDateWorklist(t *testing.T) {
	// GIVEN: One approved-open maternity request and one closed
	// WHEN: Listing the admin worklist
	// THEN: Only the open period appears

	svc, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.Submit(ctx, maternitySubmission(nextMarch(1), leave.FullPay))
	require.NoError(t, err)
	_, err = svc.ActOnRequest(ctx, r.ID, leave.RoleApproval, offDave, leave.DecisionApprove, "")
	require.NoError(t, err)

	open, err := svc.MaternityAwaitingEndDate(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, r.ID, open[0].ID)

	_, err = svc.SetMaternityEndDate(ctx, r.ID, admEve, nextMarch(28), "")
	require.NoError(t, err)

	open, err = svc.MaternityAwaitingEndDate(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestMaternity_CancelAfterEndDateRestoresPool(t *testing.T) {
	// GIVEN: A closed maternity period with 28 days debited
	// WHEN: An admin cancels it before the leave starts
	// THEN: The full 28 days come back

	svc, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.Submit(ctx, maternitySubmission(nextMarch(1), leave.FullPay))
	require.NoError(t, err)
	_, err = svc.ActOnRequest(ctx, r.ID, leave.RoleApproval, offDave, leave.DecisionApprove, "")
	require.NoError(t, err)
	_, err = svc.SetMaternityEndDate(ctx, r.ID, admEve, nextMarch(28), "")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, r.ID, admEve, "medical update")
	require.NoError(t, err)

	used, remaining := maternityBalance(t, svc)
	assert.Equal(t, 0.0, used)
	assert.Equal(t, 84.0, remaining)
}
