package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/hawala-bot/internal/domain"
	"github.com/seu-repo/hawala-bot/internal/ports"
)

type BranchRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewBranchRepository(db *gorm.DB, log *zap.Logger) ports.BranchRepository {
	return &BranchRepository{
		db:  db,
		log: log,
	}
}

func (r *BranchRepository) FindByName(ctx context.Context, name string) (*domain.Branch, error) {
	var branch domain.Branch
	err := r.db.WithContext(ctx).First(&branch, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &branch, nil
}

// SeedIfEmpty bootstraps the branches table from the canonical directory.
// Runs inside one transaction so a partial seed never survives a crash.
func (r *BranchRepository) SeedIfEmpty(ctx context.Context, names []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Branch{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			r.log.Debug("Branches table already populated", zap.Int64("count", count))
			return nil
		}
		for _, name := range names {
			if err := tx.Create(&domain.Branch{Name: name, IsActive: true}).Error; err != nil {
				return err
			}
		}
		r.log.Info("Seeded branch directory", zap.Int("branches", len(names)))
		return nil
	})
}
