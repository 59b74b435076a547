package entities

import "time"

// CollaborationStatus is a two-state handshake: Proposed until the named
// partner org accepts, then Active. There is no rejection or cancellation
// path.
type CollaborationStatus uint8

const (
	CollaborationStatusUnspecified CollaborationStatus = 0
	CollaborationProposed          CollaborationStatus = 1
	CollaborationActive            CollaborationStatus = 2
)

func (s CollaborationStatus) String() string {
	switch s {
	case CollaborationProposed:
		return "proposed"
	case CollaborationActive:
		return "active"
	default:
		return "unspecified"
	}
}

// Collaboration records a cross-organization partnership tied to a proposal
// that was Active when the record was created. Only the recorded PartnerOrg
// may accept.
type Collaboration struct {
	ID                 uint64
	Initiator          string
	PartnerOrg         string
	ProposalID         uint64
	Status             CollaborationStatus
	CreatedAt          time.Time
	Terms              string
	MutualBenefitScore int64
}
