package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type aggregationRepository struct {
	db *sql.DB
}

func NewAggregationRepository(db *sql.DB) ports.AggregationRepository {
	return &aggregationRepository{
		db: db,
	}
}

func (r *aggregationRepository) snapshot(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	return tx, nil
}

func (r *aggregationRepository) OfficeReport(ctx context.Context, officeIDs []int64) (*domain.OfficeReport, error) {
	tx, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	report := &domain.OfficeReport{
		Totals:           make(map[int64][]domain.OfficeTotalsRow, len(officeIDs)),
		StationsWithData: make(map[int64]int64, len(officeIDs)),
	}

	queryTotals := `
		SELECT n.office_id, p.list_number, p.name, p.abbreviation, p.display_order,
		       COALESCE(SUM(v.votes), 0)
		FROM nominations n
		JOIN parties p ON p.list_number = n.party_list_number
		LEFT JOIN office_vote_records v ON v.nomination_id = n.id
		WHERE n.office_id = ANY($1)
		GROUP BY n.office_id, p.list_number, p.name, p.abbreviation, p.display_order
		ORDER BY n.office_id, p.list_number
	`
	rows, err := tx.QueryContext(ctx, queryTotals, pq.Array(officeIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query office totals: %w", err)
	}
	for rows.Next() {
		var (
			row   domain.OfficeTotalsRow
			order sql.NullInt32
		)
		err := rows.Scan(&row.OfficeID, &row.Party.ListNumber, &row.Party.Name, &row.Party.Abbreviation, &order, &row.Votes)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan office total: %w", err)
		}
		if order.Valid {
			v := int(order.Int32)
			row.Party.DisplayOrder = &v
		}
		report.Totals[row.OfficeID] = append(report.Totals[row.OfficeID], row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating office totals: %w", err)
	}

	queryStations := `
		SELECT n.office_id, COUNT(DISTINCT v.station_number)
		FROM office_vote_records v
		JOIN nominations n ON n.id = v.nomination_id
		WHERE n.office_id = ANY($1)
		GROUP BY n.office_id
	`
	rows, err = tx.QueryContext(ctx, queryStations, pq.Array(officeIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query stations with data: %w", err)
	}
	for rows.Next() {
		var officeID, count int64
		if err := rows.Scan(&officeID, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan stations with data: %w", err)
		}
		report.StationsWithData[officeID] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stations with data: %w", err)
	}

	completion, err := completionIn(ctx, tx)
	if err != nil {
		return nil, err
	}
	report.Completion = *completion

	return report, nil
}

func (r *aggregationRepository) SubjurisdictionCounts(ctx context.Context) ([]domain.StationCount, error) {
	tx, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		SELECT sj.id, sj.name,
		       COUNT(st.number) FILTER (WHERE st.tallied),
		       COUNT(st.number)
		FROM subjurisdictions sj
		LEFT JOIN sites s ON s.subjurisdiction_id = sj.id
		LEFT JOIN stations st ON st.site_id = s.id
		GROUP BY sj.id, sj.name
		ORDER BY sj.name
	`
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query subjurisdiction counts: %w", err)
	}
	defer rows.Close()

	counts := []domain.StationCount{}
	for rows.Next() {
		var (
			c  domain.StationCount
			id int64
		)
		if err := rows.Scan(&id, &c.Name, &c.Tallied, &c.Total); err != nil {
			return nil, fmt.Errorf("failed to scan subjurisdiction count: %w", err)
		}
		c.SubjurisdictionID = &id
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subjurisdiction counts: %w", err)
	}

	queryUnassigned := `
		SELECT COUNT(st.number) FILTER (WHERE st.tallied), COUNT(st.number)
		FROM stations st
		JOIN sites s ON s.id = st.site_id
		WHERE s.subjurisdiction_id IS NULL
	`
	unassigned := domain.StationCount{Name: domain.UnassignedSubjurisdiction}
	if err := tx.QueryRowContext(ctx, queryUnassigned).Scan(&unassigned.Tallied, &unassigned.Total); err != nil {
		return nil, fmt.Errorf("failed to count unassigned stations: %w", err)
	}
	if unassigned.Total > 0 {
		counts = append(counts, unassigned)
	}

	return counts, nil
}

func (r *aggregationRepository) Completion(ctx context.Context) (*domain.Completion, error) {
	tx, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	return completionIn(ctx, tx)
}

// completionIn counts stations with at least one office vote record.
func completionIn(ctx context.Context, tx *sql.Tx) (*domain.Completion, error) {
	query := `
		SELECT (SELECT COUNT(*) FROM stations),
		       (SELECT COUNT(DISTINCT station_number) FROM office_vote_records)
	`
	var c domain.Completion
	if err := tx.QueryRowContext(ctx, query).Scan(&c.TotalStations, &c.StationsWithVotes); err != nil {
		return nil, fmt.Errorf("failed to compute completion: %w", err)
	}
	return &c, nil
}
