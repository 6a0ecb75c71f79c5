package ports

import (
	"context"

	"github.com/bnema/devicepool-cli/internal/domain"
)

type HistoryRepository interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
	List(ctx context.Context) ([]domain.HistoryEntry, error)
}

type SnapshotLog interface {
	Record(ctx context.Context, snapshot domain.PoolSnapshot) error
	Recent(ctx context.Context, limit int) ([]domain.PoolSnapshot, error)
}
