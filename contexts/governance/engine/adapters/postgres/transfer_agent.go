package postgresadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type custodyEntryModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Direction   string    `gorm:"column:direction;index"`
	Counterpart string    `gorm:"column:counterpart;index"`
	Amount      int64     `gorm:"column:amount"`
	RecordedAt  time.Time `gorm:"column:recorded_at"`
}

func (custodyEntryModel) TableName() string { return "custody_entries" }

const (
	custodyDirectionDraw     = "draw"
	custodyDirectionTransfer = "transfer"
)

// LedgerTransferAgent journals custody movement in postgres. The actual asset
// settlement is handled by the execution environment; this adapter records the
// authoritative entry inside the same database transaction as the state
// change, so a failed insert aborts the whole operation.
type LedgerTransferAgent struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewLedgerTransferAgent(db *gorm.DB, logger *slog.Logger) *LedgerTransferAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerTransferAgent{db: db, logger: logger}
}

func (a *LedgerTransferAgent) AutoMigrate() error {
	return a.db.AutoMigrate(&custodyEntryModel{})
}

func (a *LedgerTransferAgent) Draw(ctx context.Context, from string, amount int64) error {
	return a.record(ctx, custodyDirectionDraw, from, amount)
}

func (a *LedgerTransferAgent) Transfer(ctx context.Context, to string, amount int64) error {
	return a.record(ctx, custodyDirectionTransfer, to, amount)
}

func (a *LedgerTransferAgent) record(ctx context.Context, direction string, counterpart string, amount int64) error {
	row := custodyEntryModel{
		ID:          uuid.NewString(),
		Direction:   direction,
		Counterpart: counterpart,
		Amount:      amount,
		RecordedAt:  time.Now().UTC(),
	}
	if err := a.db.WithContext(ctx).Create(&row).Error; err != nil {
		a.logger.Error("custody entry insert failed",
			"event", "governance_custody_entry_failed",
			"module", "governance/engine",
			"layer", "adapter",
			"direction", direction,
			"counterpart", counterpart,
			"error", err.Error(),
		)
		return err
	}
	return nil
}
