package ports

import (
	"context"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
)

type StationRepository interface {
	GetForSite(ctx context.Context, number int, siteID int64) (*domain.Station, error)
	ListBySite(ctx context.Context, siteID int64, pendingOnly bool) ([]domain.Station, error)
}

type StationService interface {
	StationData(ctx context.Context, actor *domain.Actor, number int) (*domain.StationData, error)
	ListForOperator(ctx context.Context, actor *domain.Actor, pendingOnly bool) ([]domain.Station, error)
}
