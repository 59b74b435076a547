package entities

// SystemCounters is the process-wide singleton record. It is only updated as
// a side effect of engine operations, inside the same atomic scope as the
// records those operations touch.
//
// TreasuryBalance tracks custody exactly: stakes held plus contributions,
// minus withdrawals and executed payouts. The treasury never authorizes an
// outflow exceeding it.
type SystemCounters struct {
	TotalMembers        int64
	TotalProposals      int64
	TotalCollaborations int64
	TreasuryBalance     int64
	// TotalStaked is the staked slice of TreasuryBalance, kept so the
	// treasury status query can report average stake without scanning
	// accounts.
	TotalStaked int64
}

// AverageStake is total staked value per member, 0 with no members.
func (c SystemCounters) AverageStake() int64 {
	if c.TotalMembers == 0 {
		return 0
	}
	return c.TotalStaked / c.TotalMembers
}

// HealthLabel is the qualitative summary served by the statistics query.
func (c SystemCounters) HealthLabel() string {
	switch {
	case c.TotalMembers == 0:
		return "dormant"
	case c.TreasuryBalance == 0:
		return "undercapitalized"
	case c.TotalMembers < 10:
		return "forming"
	case c.TotalProposals == 0:
		return "quiet"
	default:
		return "healthy"
	}
}
