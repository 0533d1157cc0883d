package ports

import (
	"context"

	"github.com/seu-repo/hawala-bot/internal/domain"
)

type BranchRepository interface {
	// FindByName returns (nil, nil) when no branch carries that name.
	FindByName(ctx context.Context, name string) (*domain.Branch, error)
	// SeedIfEmpty inserts one branch per name, in order, when the table is
	// empty; otherwise it is a no-op. Idempotent across restarts.
	SeedIfEmpty(ctx context.Context, names []string) error
}

type TransferRepository interface {
	// Create inserts the transfer atomically. The persistence layer assigns
	// ID and Timestamp; on failure no partial row survives.
	Create(ctx context.Context, transfer *domain.Transfer) error
	// SumFromBranchToday sums amounts of transfers whose source is branchID
	// and whose timestamp falls on the current local date. Returns 0 when no
	// rows match.
	SumFromBranchToday(ctx context.Context, branchID uint) (float64, error)
}
