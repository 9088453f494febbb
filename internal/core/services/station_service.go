package services

import (
	"context"
	"fmt"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type stationService struct {
	stations ports.StationRepository
	ledger   ports.LedgerRepository
}

func NewStationService(stations ports.StationRepository, ledger ports.LedgerRepository) ports.StationService {
	return &stationService{
		stations: stations,
		ledger:   ledger,
	}
}

// StationData returns what has been recorded so far for one of the
// operator's stations, so the form can be pre-filled.
func (s *stationService) StationData(ctx context.Context, actor *domain.Actor, number int) (*domain.StationData, error) {
	siteID, err := operatorSite(actor, domain.CapReadStation)
	if err != nil {
		return nil, err
	}

	station, err := s.stations.GetForSite(ctx, number, siteID)
	if err != nil {
		return nil, err
	}

	data, err := s.ledger.StationData(ctx, station.Number)
	if err != nil {
		return nil, fmt.Errorf("failed to load station data: %w", err)
	}
	data.Tallied = station.Tallied
	return data, nil
}

func (s *stationService) ListForOperator(ctx context.Context, actor *domain.Actor, pendingOnly bool) ([]domain.Station, error) {
	siteID, err := operatorSite(actor, domain.CapReadStation)
	if err != nil {
		return nil, err
	}
	return s.stations.ListBySite(ctx, siteID, pendingOnly)
}

func operatorSite(actor *domain.Actor, c domain.Capability) (int64, error) {
	if err := actor.Require(c); err != nil {
		return 0, err
	}
	if actor.SiteID == nil {
		return 0, domain.ErrUnauthorized
	}
	return *actor.SiteID, nil
}
