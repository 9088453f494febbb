package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type stationRepository struct {
	db *sql.DB
}

func NewStationRepository(db *sql.DB) ports.StationRepository {
	return &stationRepository{
		db: db,
	}
}

func (r *stationRepository) GetForSite(ctx context.Context, number int, siteID int64) (*domain.Station, error) {
	query := `SELECT number, site_id, tallied FROM stations WHERE number = $1 AND site_id = $2`
	var st domain.Station
	err := r.db.QueryRowContext(ctx, query, number, siteID).Scan(&st.Number, &st.SiteID, &st.Tallied)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStationNotFound
		}
		return nil, fmt.Errorf("failed to get station: %w", err)
	}
	return &st, nil
}

func (r *stationRepository) ListBySite(ctx context.Context, siteID int64, pendingOnly bool) ([]domain.Station, error) {
	query := `
		SELECT number, site_id, tallied
		FROM stations
		WHERE site_id = $1 AND (NOT $2 OR NOT tallied)
		ORDER BY number
	`
	rows, err := r.db.QueryContext(ctx, query, siteID, pendingOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}
	defer rows.Close()

	stations := []domain.Station{}
	for rows.Next() {
		var st domain.Station
		if err := rows.Scan(&st.Number, &st.SiteID, &st.Tallied); err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}
		stations = append(stations, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stations: %w", err)
	}
	return stations, nil
}
