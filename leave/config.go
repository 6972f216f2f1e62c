package leave

// =============================================================================
// CONFIG - Entitlement defaults, passed in at construction
// =============================================================================

// Unlimited is the sentinel total for pools with no capacity ceiling, e.g.
// duty leave. Usage is still tracked for reporting but never blocks approval.
const Unlimited = -1

// Config carries the entitlement defaults. It is passed into NewService
// explicitly; nothing in this package reads package-level state.
type Config struct {
	// DefaultEntitlements maps each leave type to its annual allotment in
	// days, or Unlimited.
	DefaultEntitlements map[Type]int

	// ShortLeavesPerMonth is the monthly short-leave quota.
	ShortLeavesPerMonth int
}

// DefaultConfig returns the stock allotments: 21 casual, 24 sick, unlimited
// duty, 84 maternity, and 2 short leaves per month.
func DefaultConfig() Config {
	return Config{
		DefaultEntitlements: map[Type]int{
			TypeCasual:    21,
			TypeSick:      24,
			TypeDuty:      Unlimited,
			TypeMaternity: 84,
		},
		ShortLeavesPerMonth: 2,
	}
}

// entitlementOrder is the display order for balance listings.
var entitlementOrder = []Type{TypeCasual, TypeSick, TypeDuty, TypeMaternity}
