package commands

import (
	"context"
	"log/slog"
	"strings"

	application "concord/contexts/governance/engine/application"
	"concord/contexts/governance/engine/domain/entities"
	domainerrors "concord/contexts/governance/engine/domain/errors"
	"concord/contexts/governance/engine/ports"
)

const reputationCollaborationInitiated = 3

// CollaborationUseCase records cross-organization partnerships tied to an
// Active proposal. The handshake has exactly one transition, Proposed to
// Active, and only the named partner org may take it. There is no rejection
// or cancellation path.
type CollaborationUseCase struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// Initiate opens a Proposed collaboration naming a partner org distinct from
// the initiating member.
func (uc CollaborationUseCase) Initiate(
	ctx context.Context,
	actorID string,
	partnerOrg string,
	proposalID uint64,
	terms string,
	expectedBenefit int64,
) (entities.Collaboration, error) {
	logger := application.ResolveLogger(uc.Logger)
	actorID = strings.TrimSpace(actorID)
	partnerOrg = strings.TrimSpace(partnerOrg)
	if actorID == "" {
		return entities.Collaboration{}, domainerrors.ErrInvalidActor
	}
	if partnerOrg == "" || partnerOrg == actorID {
		return entities.Collaboration{}, domainerrors.ErrInvalidCollaboration
	}

	now := resolveNow(uc.Clock)
	var collaboration entities.Collaboration
	err := uc.Repo.Atomically(ctx, func(tx ports.Repository) error {
		account, isMember, err := tx.GetAccount(ctx, actorID)
		if err != nil {
			return err
		}
		if !isMember {
			return domainerrors.ErrNotMember
		}

		proposal, found, err := tx.GetProposal(ctx, proposalID)
		if err != nil {
			return err
		}
		if !found || proposal.Status != entities.ProposalActive {
			return domainerrors.ErrInvalidProposal
		}

		counters, err := tx.GetCounters(ctx)
		if err != nil {
			return err
		}
		counters.TotalCollaborations++
		collaboration = entities.Collaboration{
			ID:                 uint64(counters.TotalCollaborations),
			Initiator:          actorID,
			PartnerOrg:         partnerOrg,
			ProposalID:         proposalID,
			Status:             entities.CollaborationProposed,
			CreatedAt:          now,
			Terms:              strings.TrimSpace(terms),
			MutualBenefitScore: expectedBenefit,
		}
		if err := tx.SaveCollaboration(ctx, collaboration); err != nil {
			return err
		}
		if err := tx.SaveCounters(ctx, counters); err != nil {
			return err
		}

		account.CollaborationScore++
		if err := adjustReputation(ctx, tx, &account, reputationCollaborationInitiated, now); err != nil {
			return err
		}
		if err := tx.SaveAccount(ctx, account); err != nil {
			return err
		}

		return appendEvent(ctx, tx, uc.IDGen, "collaboration.initiated", "collaboration", formatProposalID(collaboration.ID), now, map[string]any{
			"collaboration_id": collaboration.ID,
			"initiator":        actorID,
			"partner_org":      partnerOrg,
			"proposal_id":      proposalID,
		})
	})
	if err != nil {
		return entities.Collaboration{}, err
	}

	logger.Info("collaboration initiated",
		"event", "governance_collaboration_initiated",
		"module", "governance/engine",
		"layer", "application",
		"collaboration_id", collaboration.ID,
		"initiator", actorID,
		"partner_org", partnerOrg,
	)
	return collaboration, nil
}

// Accept transitions Proposed to Active. The caller must be the recorded
// partner org; membership is not required of it, partner orgs are external
// identities.
func (uc CollaborationUseCase) Accept(
	ctx context.Context,
	actorID string,
	collaborationID uint64,
) (entities.Collaboration, error) {
	logger := application.ResolveLogger(uc.Logger)
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return entities.Collaboration{}, domainerrors.ErrInvalidActor
	}

	now := resolveNow(uc.Clock)
	var collaboration entities.Collaboration
	err := uc.Repo.Atomically(ctx, func(tx ports.Repository) error {
		record, found, err := tx.GetCollaboration(ctx, collaborationID)
		if err != nil {
			return err
		}
		if !found {
			return domainerrors.ErrCollaborationNotFound
		}
		if record.PartnerOrg != actorID {
			return domainerrors.ErrPartnerMismatch
		}
		if record.Status != entities.CollaborationProposed {
			return domainerrors.ErrInvalidCollaboration
		}

		record.Status = entities.CollaborationActive
		if err := tx.SaveCollaboration(ctx, record); err != nil {
			return err
		}
		collaboration = record

		if err := uc.bumpCollaborationCount(ctx, tx, record.Initiator); err != nil {
			return err
		}
		if err := uc.bumpCollaborationCount(ctx, tx, record.PartnerOrg); err != nil {
			return err
		}

		return appendEvent(ctx, tx, uc.IDGen, "collaboration.accepted", "collaboration", formatProposalID(collaborationID), now, map[string]any{
			"collaboration_id": collaborationID,
			"partner_org":      actorID,
			"initiator":        record.Initiator,
		})
	})
	if err != nil {
		return entities.Collaboration{}, err
	}

	logger.Info("collaboration accepted",
		"event", "governance_collaboration_accepted",
		"module", "governance/engine",
		"layer", "application",
		"collaboration_id", collaborationID,
		"partner_org", actorID,
	)
	return collaboration, nil
}

// bumpCollaborationCount credits analytics for a party when that party is a
// member; external orgs simply have no companion record to credit.
func (uc CollaborationUseCase) bumpCollaborationCount(
	ctx context.Context,
	tx ports.Repository,
	actorID string,
) error {
	analytics, found, err := tx.GetAnalytics(ctx, actorID)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	analytics.CollaborationCount++
	return tx.SaveAnalytics(ctx, analytics)
}
