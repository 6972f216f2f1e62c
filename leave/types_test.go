package leave_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/leave"
)

func TestDaysInclusive_CountsBothEndpoints(t *testing.T) {
	from := leave.NewDate(2026, time.March, 10)

	assert.Equal(t, 1, leave.DaysInclusive(from, from))
	assert.Equal(t, 5, leave.DaysInclusive(from, from.AddDays(4)))
	assert.Equal(t, 31, leave.DaysInclusive(leave.NewDate(2026, time.March, 1), leave.NewDate(2026, time.March, 31)))
}

func TestRequest_RecordRoundTripKeepsCreationStamp(t *testing.T) {
	// GIVEN: A request with officer slots and a cancellation trail
	// WHEN: It is flattened to a record and rehydrated
	// THEN: Every field survives, the creation stamp included

	r := leave.NewRequest("alice@example.com", "Alice", leave.KindStandard, leave.TypeCasual)
	r.StartDate = leave.NewDate(2026, time.March, 10)
	r.EndDate = leave.NewDate(2026, time.March, 14)
	r.Reason = "family event"
	r.Acting = &leave.OfficerAssignment{Email: "bob@example.com", Name: "Bob"}
	r.Approval = &leave.OfficerAssignment{Email: "dave@example.com", Name: "Dave"}
	r.ResolveChain()
	r.Status = leave.StatusPendingActing

	got := leave.FromRecord(r.Record())

	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, r.CreatedAt(), got.CreatedAt())
	assert.Equal(t, r.StartDate, got.StartDate)
	assert.Equal(t, r.Chain, got.Chain)
	require.NotNil(t, got.Acting)
	assert.Equal(t, "bob@example.com", got.Acting.Email)
	assert.Nil(t, got.Supervising)

	// The copies are independent.
	got.Acting.Comments = "mutated"
	assert.Empty(t, r.Acting.Comments)
}

func TestRequest_ChainSkipsUnconfiguredSlots(t *testing.T) {
	r := leave.NewRequest("alice@example.com", "Alice", leave.KindStandard, leave.TypeCasual)
	r.Acting = &leave.OfficerAssignment{Email: "bob@example.com"}
	r.Approval = &leave.OfficerAssignment{Email: "dave@example.com"}
	r.ResolveChain()

	require.Equal(t, []leave.OfficerRole{leave.RoleActing, leave.RoleApproval}, r.Chain)

	first, ok := r.FirstRole()
	require.True(t, ok)
	assert.Equal(t, leave.RoleActing, first)

	next, ok := r.NextRole(leave.RoleActing)
	require.True(t, ok)
	assert.Equal(t, leave.RoleApproval, next)

	_, ok = r.NextRole(leave.RoleApproval)
	assert.False(t, ok)
}

func TestRequest_CancellationWindow(t *testing.T) {
	today := leave.Today()

	r := leave.NewRequest("alice@example.com", "Alice", leave.KindStandard, leave.TypeCasual)
	r.StartDate = today
	assert.True(t, r.CanBeCancelled(today), "today itself is still cancellable")

	r.StartDate = today.AddDays(-1)
	assert.False(t, r.CanBeCancelled(today))

	r.StartDate = today.AddDays(7)
	r.Status = leave.StatusRejectedActing
	assert.False(t, r.CanBeCancelled(today), "rejected requests are out of the window")

	r.Status = leave.StatusApproved
	r.Cancelled = true
	assert.False(t, r.CanBeCancelled(today))
}

func TestRequest_EffectiveDaysByKind(t *testing.T) {
	start := leave.NewDate(2026, time.March, 10)

	standard := leave.NewRequest("a@example.com", "A", leave.KindStandard, leave.TypeSick)
	standard.StartDate = start
	standard.EndDate = start.AddDays(2)
	assert.Equal(t, "3", standard.EffectiveDays().String())

	half := leave.NewRequest("a@example.com", "A", leave.KindHalfDay, leave.TypeCasual)
	half.StartDate = start
	half.EndDate = start
	assert.Equal(t, "0.5", half.EffectiveDays().String())
	assert.Equal(t, leave.TypeCasual, half.LedgerType())

	short := leave.NewRequest("a@example.com", "A", leave.KindShort, leave.TypeCasual)
	short.StartDate = start
	short.EndDate = start
	assert.True(t, short.EffectiveDays().IsZero())

	mat := leave.NewRequest("a@example.com", "A", leave.KindMaternity, leave.TypeMaternity)
	mat.StartDate = start
	assert.True(t, mat.EffectiveDays().IsZero(), "open maternity period costs nothing")
	mat.EndDate = start.AddDays(27)
	mat.EndDateSet = true
	assert.Equal(t, "28", mat.EffectiveDays().String())
}
