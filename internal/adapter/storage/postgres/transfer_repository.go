package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/hawala-bot/internal/domain"
	"github.com/seu-repo/hawala-bot/internal/observability/telemetry"
	"github.com/seu-repo/hawala-bot/internal/ports"
)

type TransferRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewTransferRepository(db *gorm.DB, log *zap.Logger) ports.TransferRepository {
	return &TransferRepository{
		db:  db,
		log: log,
	}
}

// Create inserts one transfer row. A single INSERT is atomic on the database
// side; a foreign key violation (branch deleted between lookup and insert)
// surfaces here as an error and leaves nothing behind.
func (r *TransferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	start := time.Now()
	err := r.db.WithContext(ctx).Create(transfer).Error
	telemetry.DatabaseLatency.Observe(time.Since(start).Seconds())
	return err
}

func (r *TransferRepository) SumFromBranchToday(ctx context.Context, branchID uint) (float64, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	var total float64
	start := time.Now()
	err := r.db.WithContext(ctx).
		Model(&domain.Transfer{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("source_branch_id = ? AND timestamp >= ? AND timestamp < ?", branchID, startOfDay, endOfDay).
		Scan(&total).Error
	telemetry.DatabaseLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, err
	}
	return total, nil
}
