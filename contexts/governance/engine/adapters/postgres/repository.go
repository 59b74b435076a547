package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"concord/contexts/governance/engine/domain/entities"
	domainerrors "concord/contexts/governance/engine/domain/errors"
	"concord/contexts/governance/engine/ports"
	"concord/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the gorm-backed store. Atomically maps onto a database
// transaction, so the engine's all-or-nothing contract rides on postgres
// transaction semantics.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// AutoMigrate creates or updates the engine's tables.
func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&accountModel{},
		&accountAnalyticsModel{},
		&proposalModel{},
		&ballotModel{},
		&collaborationModel{},
		&countersModel{},
		&outboxModel{},
	)
}

func (r *Repository) Atomically(ctx context.Context, fn func(tx ports.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, logger: r.logger})
	})
}

func (r *Repository) GetAccount(ctx context.Context, actorID string) (entities.Account, bool, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", strings.TrimSpace(actorID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, false, nil
		}
		return entities.Account{}, false, r.logError("governance_repo_get_account_failed", err,
			"actor_id", strings.TrimSpace(actorID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveAccount(ctx context.Context, account entities.Account) error {
	row := accountModelFromEntity(account)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "actor_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"reputation":          row.Reputation,
			"stake":               row.Stake,
			"last_activity":       row.LastActivity,
			"proposals_created":   row.ProposalsCreated,
			"votes_cast":          row.VotesCast,
			"collaboration_score": row.CollaborationScore,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("governance_repo_save_account_failed", err, "actor_id", row.ActorID)
	}
	return nil
}

func (r *Repository) DeleteAccount(ctx context.Context, actorID string) error {
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", strings.TrimSpace(actorID)).
		Delete(&accountModel{}).
		Error
	if err != nil {
		return r.logError("governance_repo_delete_account_failed", err, "actor_id", strings.TrimSpace(actorID))
	}
	return nil
}

func (r *Repository) ListInactiveAccounts(ctx context.Context, cutoff time.Time, limit int) ([]entities.Account, error) {
	tx := r.db.WithContext(ctx).
		Where("last_activity < ?", cutoff.UTC()).
		Order("actor_id ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var rows []accountModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, r.logError("governance_repo_list_inactive_failed", err)
	}
	accounts := make([]entities.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, row.toEntity())
	}
	return accounts, nil
}

func (r *Repository) GetAnalytics(ctx context.Context, actorID string) (entities.AccountAnalytics, bool, error) {
	var row accountAnalyticsModel
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", strings.TrimSpace(actorID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AccountAnalytics{}, false, nil
		}
		return entities.AccountAnalytics{}, false, r.logError("governance_repo_get_analytics_failed", err,
			"actor_id", strings.TrimSpace(actorID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveAnalytics(ctx context.Context, analytics entities.AccountAnalytics) error {
	row := analyticsModelFromEntity(analytics)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "actor_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"cumulative_stake_time": row.CumulativeStakeTime,
			"successful_proposals":  row.SuccessfulProposals,
			"collaboration_count":   row.CollaborationCount,
			"peak_reputation":       row.PeakReputation,
			"participation_rate":    row.ParticipationRate,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("governance_repo_save_analytics_failed", err, "actor_id", row.ActorID)
	}
	return nil
}

func (r *Repository) DeleteAnalytics(ctx context.Context, actorID string) error {
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", strings.TrimSpace(actorID)).
		Delete(&accountAnalyticsModel{}).
		Error
	if err != nil {
		return r.logError("governance_repo_delete_analytics_failed", err, "actor_id", strings.TrimSpace(actorID))
	}
	return nil
}

func (r *Repository) GetProposal(ctx context.Context, proposalID uint64) (entities.Proposal, bool, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).
		Where("id = ?", proposalID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, false, nil
		}
		return entities.Proposal{}, false, r.logError("governance_repo_get_proposal_failed", err,
			"proposal_id", proposalID,
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveProposal(ctx context.Context, proposal entities.Proposal) error {
	row := proposalModelFromEntity(proposal)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"yes_votes": row.YesVotes,
			"no_votes":  row.NoVotes,
			"status":    row.Status,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("governance_repo_save_proposal_failed", err, "proposal_id", row.ID)
	}
	return nil
}

func (r *Repository) GetBallot(ctx context.Context, proposalID uint64, voter string) (entities.Ballot, bool, error) {
	var row ballotModel
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Where("voter = ?", strings.TrimSpace(voter)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Ballot{}, false, nil
		}
		return entities.Ballot{}, false, r.logError("governance_repo_get_ballot_failed", err,
			"proposal_id", proposalID,
			"voter", strings.TrimSpace(voter),
		)
	}
	return row.toEntity(), true, nil
}

// SaveBallot is a bare insert: ballots are write-once and the composite
// primary key turns a duplicate vote into a unique violation.
func (r *Repository) SaveBallot(ctx context.Context, ballot entities.Ballot) error {
	row := ballotModelFromEntity(ballot)
	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyVoted
		}
		return r.logError("governance_repo_save_ballot_failed", err,
			"proposal_id", row.ProposalID,
			"voter", row.Voter,
		)
	}
	return nil
}

func (r *Repository) GetCollaboration(ctx context.Context, collaborationID uint64) (entities.Collaboration, bool, error) {
	var row collaborationModel
	err := r.db.WithContext(ctx).
		Where("id = ?", collaborationID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Collaboration{}, false, nil
		}
		return entities.Collaboration{}, false, r.logError("governance_repo_get_collaboration_failed", err,
			"collaboration_id", collaborationID,
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveCollaboration(ctx context.Context, collaboration entities.Collaboration) error {
	row := collaborationModelFromEntity(collaboration)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"status": row.Status,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("governance_repo_save_collaboration_failed", err, "collaboration_id", row.ID)
	}
	return nil
}

func (r *Repository) GetCounters(ctx context.Context) (entities.SystemCounters, error) {
	var row countersModel
	err := r.db.WithContext(ctx).
		Where("id = ?", countersRowID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.SystemCounters{}, nil
		}
		return entities.SystemCounters{}, r.logError("governance_repo_get_counters_failed", err)
	}
	return row.toEntity(), nil
}

func (r *Repository) SaveCounters(ctx context.Context, counters entities.SystemCounters) error {
	row := countersModelFromEntity(counters)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"total_members":        row.TotalMembers,
			"total_proposals":      row.TotalProposals,
			"total_collaborations": row.TotalCollaborations,
			"treasury_balance":     row.TreasuryBalance,
			"total_staked":         row.TotalStaked,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("governance_repo_save_counters_failed", err)
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, message outbox.Message) error {
	row := outboxModel{
		ID:         message.ID,
		EventType:  message.EventType,
		Payload:    message.Payload,
		Status:     message.Status,
		RetryCount: message.RetryCount,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("governance_repo_append_outbox_failed", err, "outbox_id", row.ID)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error) {
	tx := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var rows []outboxModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, r.logError("governance_repo_list_outbox_failed", err)
	}
	messages := make([]outbox.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, outbox.Message{
			ID:         row.ID,
			EventType:  row.EventType,
			Payload:    row.Payload,
			Status:     row.Status,
			RetryCount: row.RetryCount,
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, messageID string) error {
	err := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("id = ?", messageID).
		Update("status", outbox.StatusPublished).
		Error
	if err != nil {
		return r.logError("governance_repo_mark_outbox_failed", err, "outbox_id", messageID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "governance/engine",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("governance repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
