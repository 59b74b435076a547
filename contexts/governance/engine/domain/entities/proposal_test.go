package entities

import (
	"testing"
	"time"
)

func TestProposalDecisionRuleIsStrict(t *testing.T) {
	cases := []struct {
		name      string
		yes       int64
		no        int64
		threshold int64
		want      bool
	}{
		{"clear pass", 30, 10, 20, true},
		{"tie fails", 10, 10, 0, false},
		{"threshold equal fails", 20, 10, 20, false},
		{"majority but below threshold", 15, 10, 20, false},
		{"zero threshold needs positive yes", 1, 0, 0, true},
		{"nobody voted", 0, 0, 0, false},
	}
	for _, tc := range cases {
		p := Proposal{YesVotes: tc.yes, NoVotes: tc.no, ExecutionThreshold: tc.threshold}
		if got := p.Passes(); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestProposalExpiryIsInclusive(t *testing.T) {
	expires := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	p := Proposal{ExpiresAt: expires}

	if p.Expired(expires.Add(-time.Second)) {
		t.Fatalf("expected open window before expiry")
	}
	if !p.Expired(expires) {
		t.Fatalf("expected expiry at the boundary instant")
	}
	if !p.Expired(expires.Add(time.Second)) {
		t.Fatalf("expected expiry after the boundary")
	}
}

func TestApprovalRate(t *testing.T) {
	p := Proposal{}
	if got := p.ApprovalRate(); got != 0 {
		t.Fatalf("expected 0 with no votes, got %f", got)
	}
	p = Proposal{YesVotes: 30, NoVotes: 10}
	if got := p.ApprovalRate(); got != 0.75 {
		t.Fatalf("expected 0.75, got %f", got)
	}
}

func TestTimeRemainingClampsToZero(t *testing.T) {
	expires := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	p := Proposal{ExpiresAt: expires}

	if got := p.TimeRemaining(expires.Add(-time.Hour)); got != time.Hour {
		t.Fatalf("expected one hour remaining, got %v", got)
	}
	if got := p.TimeRemaining(expires.Add(time.Hour)); got != 0 {
		t.Fatalf("expected zero after expiry, got %v", got)
	}
}

func TestCountersHealthLabel(t *testing.T) {
	cases := []struct {
		name     string
		counters SystemCounters
		want     string
	}{
		{"dormant", SystemCounters{}, "dormant"},
		{"undercapitalized", SystemCounters{TotalMembers: 3}, "undercapitalized"},
		{"forming", SystemCounters{TotalMembers: 3, TreasuryBalance: 100}, "forming"},
		{"quiet", SystemCounters{TotalMembers: 12, TreasuryBalance: 100}, "quiet"},
		{"healthy", SystemCounters{TotalMembers: 12, TreasuryBalance: 100, TotalProposals: 2}, "healthy"},
	}
	for _, tc := range cases {
		if got := tc.counters.HealthLabel(); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestAverageStake(t *testing.T) {
	c := SystemCounters{}
	if got := c.AverageStake(); got != 0 {
		t.Fatalf("expected 0 with no members, got %d", got)
	}
	c = SystemCounters{TotalMembers: 4, TotalStaked: 1000}
	if got := c.AverageStake(); got != 250 {
		t.Fatalf("expected 250, got %d", got)
	}
}
