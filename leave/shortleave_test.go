package leave_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/leave/store"
)

func newTestQuotaTracker(t *testing.T) (*leave.QuotaTracker, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return leave.NewQuotaTracker(mem, leave.DefaultConfig(), nil), mem
}

func shortRequest(email string, day leave.Date) *leave.Request {
	r := leave.NewRequest(email, "Test Employee", leave.KindShort, leave.TypeCasual)
	r.StartDate = day
	r.EndDate = day
	r.ShortStart = leave.TimeOfDay{Hour: 10, Minute: 0}
	r.ShortEnd = leave.TimeOfDay{Hour: 11, Minute: 30}
	return r
}

// =============================================================================
// QUOTA RECORD INVARIANTS
// =============================================================================

func TestQuota_UseNeverGoesNegative(t *testing.T) {
	// GIVEN: A 2-slot monthly quota, fully drained
	// WHEN: Using beyond the quota
	// THEN: Used stays put and remaining never drops below zero

	q := leave.NewQuota("alice@example.com", testYear(), 3, 2)

	q.Use()
	q.Use()
	assert.Equal(t, 2, q.Used)
	assert.Equal(t, 0, q.Remaining)

	q.Use() // beyond the quota: no-op
	assert.Equal(t, 2, q.Used)
	assert.Equal(t, 0, q.Remaining)
}

func TestQuota_RevertOnlyAfterUse(t *testing.T) {
	// GIVEN: A fresh quota with nothing used
	// WHEN: Reverting
	// THEN: Nothing changes; a revert after a use restores the slot

	q := leave.NewQuota("alice@example.com", testYear(), 3, 2)

	q.Revert()
	assert.Equal(t, 0, q.Used)
	assert.Equal(t, 2, q.Remaining)

	q.Use()
	q.Revert()
	assert.Equal(t, 0, q.Used)
	assert.Equal(t, 2, q.Remaining)
}

// =============================================================================
// QUOTA TRACKER
// =============================================================================

func TestQuotaTracker_ValidateFailsWhenExhausted(t *testing.T) {
	// GIVEN: Both monthly slots consumed
	// WHEN: Validating another short leave in the same month
	// THEN: A quota-exhausted validation error is returned

	tracker, _ := newTestQuotaTracker(t)
	ctx := context.Background()

	r := shortRequest("alice@example.com", nextMarch(5))
	require.NoError(t, tracker.Consume(ctx, r))
	require.NoError(t, tracker.Consume(ctx, shortRequest("alice@example.com", nextMarch(12))))

	err := tracker.Validate(ctx, shortRequest("alice@example.com", nextMarch(20)))
	require.Error(t, err)
	var quotaErr *leave.QuotaExhaustedError
	assert.ErrorAs(t, err, &quotaErr)
	assert.True(t, leave.IsValidation(err))
	assert.Equal(t, 2, quotaErr.Total)
}

func TestQuotaTracker_MonthsAreIndependent(t *testing.T) {
	// GIVEN: March's quota exhausted
	// WHEN: Validating a short leave in April
	// THEN: It passes; quotas are keyed per calendar month

	tracker, _ := newTestQuotaTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Consume(ctx, shortRequest("alice@example.com", nextMarch(5))))
	require.NoError(t, tracker.Consume(ctx, shortRequest("alice@example.com", nextMarch(12))))

	april := nextMarch(1).AddDays(31)
	assert.NoError(t, tracker.Validate(ctx, shortRequest("alice@example.com", april)))
}

func TestQuotaTracker_ConsumeBeyondQuotaIsNoOp(t *testing.T) {
	// GIVEN: An exhausted quota
	// WHEN: Consume is called again (approval raced past the drain)
	// THEN: No error, and used does not move

	tracker, mem := newTestQuotaTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Consume(ctx, shortRequest("alice@example.com", nextMarch(5))))
	require.NoError(t, tracker.Consume(ctx, shortRequest("alice@example.com", nextMarch(12))))
	require.NoError(t, tracker.Consume(ctx, shortRequest("alice@example.com", nextMarch(20))))

	q, err := mem.GetQuota(ctx, "alice@example.com", testYear(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, q.Used)
	assert.Equal(t, 0, q.Remaining)
}

func TestQuotaTracker_RestoreGivesSlotBack(t *testing.T) {
	// GIVEN: One consumed slot
	// WHEN: The approved short leave is reversed
	// THEN: The slot is available again

	tracker, mem := newTestQuotaTracker(t)
	ctx := context.Background()

	r := shortRequest("alice@example.com", nextMarch(5))
	require.NoError(t, tracker.Consume(ctx, r))
	require.NoError(t, tracker.Restore(ctx, r))

	q, err := mem.GetQuota(ctx, "alice@example.com", testYear(), 3)
	require.NoError(t, err)
	assert.Equal(t, 0, q.Used)
	assert.Equal(t, 2, q.Remaining)
}
