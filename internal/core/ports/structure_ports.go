package ports

import (
	"context"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
)

type StructureRepository interface {
	// Load upserts the structure by natural keys in one transaction.
	Load(ctx context.Context, structure domain.Structure) (*domain.LoadStats, error)
}

type StructureService interface {
	Load(ctx context.Context, structure domain.Structure) (*domain.LoadStats, error)
}
