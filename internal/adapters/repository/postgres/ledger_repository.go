package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) ports.LedgerRepository {
	return &ledgerRepository{
		db: db,
	}
}

func (r *ledgerRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.LedgerTx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, &ledgerTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) StationData(ctx context.Context, number int) (*domain.StationData, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback()

	data := &domain.StationData{
		StationNumber: number,
		OfficeVotes:   []domain.OfficeVoteRecord{},
		SpecialVotes:  []domain.SpecialVoteRecord{},
	}

	querySummary := `
		SELECT voters_that_voted, envelopes_found, discrepancy, tallied, updated_at
		FROM reconciliation_summaries
		WHERE station_number = $1
	`
	s := &data.Reconciliation
	err = tx.QueryRowContext(ctx, querySummary, number).Scan(
		&s.VotersThatVoted, &s.EnvelopesFound, &s.Discrepancy, &s.Tallied, &s.UpdatedAt,
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get reconciliation summary: %w", err)
	}
	s.StationNumber = number

	queryOffice := `
		SELECT nomination_id, votes, updated_at
		FROM office_vote_records
		WHERE station_number = $1
		ORDER BY nomination_id
	`
	rows, err := tx.QueryContext(ctx, queryOffice, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get office votes: %w", err)
	}
	for rows.Next() {
		rec := domain.OfficeVoteRecord{StationNumber: number}
		if err := rows.Scan(&rec.NominationID, &rec.Votes, &rec.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan office vote: %w", err)
		}
		data.OfficeVotes = append(data.OfficeVotes, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating office votes: %w", err)
	}

	querySpecial := `
		SELECT office_id, category, votes, updated_at
		FROM special_vote_records
		WHERE station_number = $1
		ORDER BY office_id, category
	`
	rows, err = tx.QueryContext(ctx, querySpecial, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get special votes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		rec := domain.SpecialVoteRecord{StationNumber: number}
		if err := rows.Scan(&rec.OfficeID, &rec.Category, &rec.Votes, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan special vote: %w", err)
		}
		data.SpecialVotes = append(data.SpecialVotes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating special votes: %w", err)
	}

	return data, nil
}

type ledgerTx struct {
	tx *sql.Tx
}

func (t *ledgerTx) LockStation(ctx context.Context, number int, siteID int64) (*domain.Station, error) {
	query := `
		SELECT number, site_id, tallied
		FROM stations
		WHERE number = $1 AND site_id = $2
		FOR UPDATE
	`
	var st domain.Station
	err := t.tx.QueryRowContext(ctx, query, number, siteID).Scan(&st.Number, &st.SiteID, &st.Tallied)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStationNotFound
		}
		return nil, fmt.Errorf("failed to lock station: %w", err)
	}
	return &st, nil
}

func (t *ledgerTx) UpsertOfficeVote(ctx context.Context, rec domain.OfficeVoteRecord) error {
	query := `
		INSERT INTO office_vote_records (station_number, nomination_id, votes)
		VALUES ($1, $2, $3)
		ON CONFLICT (station_number, nomination_id) DO UPDATE
		SET votes = EXCLUDED.votes,
		    updated_at = NOW()
	`
	if _, err := t.tx.ExecContext(ctx, query, rec.StationNumber, rec.NominationID, rec.Votes); err != nil {
		return fmt.Errorf("failed to upsert office vote: %w", classify(err))
	}
	return nil
}

func (t *ledgerTx) UpsertSpecialVote(ctx context.Context, rec domain.SpecialVoteRecord) error {
	query := `
		INSERT INTO special_vote_records (station_number, office_id, category, votes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (station_number, office_id, category) DO UPDATE
		SET votes = EXCLUDED.votes,
		    updated_at = NOW()
	`
	if _, err := t.tx.ExecContext(ctx, query, rec.StationNumber, rec.OfficeID, string(rec.Category), rec.Votes); err != nil {
		return fmt.Errorf("failed to upsert special vote: %w", classify(err))
	}
	return nil
}

func (t *ledgerTx) UpsertReconciliation(ctx context.Context, s domain.ReconciliationSummary) error {
	query := `
		INSERT INTO reconciliation_summaries (station_number, voters_that_voted, envelopes_found, discrepancy, tallied)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (station_number) DO UPDATE
		SET voters_that_voted = EXCLUDED.voters_that_voted,
		    envelopes_found = EXCLUDED.envelopes_found,
		    discrepancy = EXCLUDED.discrepancy,
		    tallied = EXCLUDED.tallied,
		    updated_at = NOW()
	`
	_, err := t.tx.ExecContext(ctx, query, s.StationNumber, s.VotersThatVoted, s.EnvelopesFound, s.Discrepancy, s.Tallied)
	if err != nil {
		return fmt.Errorf("failed to upsert reconciliation summary: %w", classify(err))
	}
	return nil
}

func (t *ledgerTx) MarkTallied(ctx context.Context, number int) error {
	query := `UPDATE stations SET tallied = TRUE WHERE number = $1`
	if _, err := t.tx.ExecContext(ctx, query, number); err != nil {
		return fmt.Errorf("failed to mark station tallied: %w", err)
	}
	return nil
}
