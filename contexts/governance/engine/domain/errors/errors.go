package errors

import "errors"

// Every engine failure is one of these sentinels, surfaced verbatim to the
// caller with no side effects having occurred. There are no fatal errors in
// the core; the transport layer maps each class to a status code.
var (
	// Membership state.
	ErrAlreadyMember = errors.New("actor is already a member")
	ErrNotMember     = errors.New("actor is not a member")

	// Financial.
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrTransferFailed    = errors.New("asset transfer failed")

	// Proposal validity.
	ErrInvalidProposal    = errors.New("invalid proposal")
	ErrProposalExpired    = errors.New("proposal voting period has ended")
	ErrVotingPeriodActive = errors.New("proposal voting period is still active")
	ErrAlreadyVoted       = errors.New("actor already voted on this proposal")

	// Collaboration state.
	ErrCollaborationNotFound = errors.New("collaboration not found")
	ErrInvalidCollaboration  = errors.New("invalid collaboration")
	ErrPartnerMismatch       = errors.New("actor is not the recorded partner org")

	// Authorization.
	ErrInvalidActor = errors.New("actor identity is required")
	ErrNotOwner     = errors.New("operation restricted to the configured owner")
)
