package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type structureRepository struct {
	db *sql.DB
}

func NewStructureRepository(db *sql.DB) ports.StructureRepository {
	return &structureRepository{
		db: db,
	}
}

// Load upserts every entity by its natural key. Loading the same file
// twice leaves the database unchanged.
func (r *structureRepository) Load(ctx context.Context, st domain.Structure) (*domain.LoadStats, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stats := &domain.LoadStats{}

	subjurisdictionIDs := make(map[string]int64, len(st.Subjurisdictions))
	for _, name := range st.Subjurisdictions {
		name = strings.TrimSpace(name)
		query := `
			INSERT INTO subjurisdictions (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`
		var id int64
		if err := tx.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to upsert subjurisdiction %q: %w", name, classify(err))
		}
		subjurisdictionIDs[name] = id
		stats.Subjurisdictions++
	}

	stmtStation, err := tx.PrepareContext(ctx, `
		INSERT INTO stations (number, site_id) VALUES ($1, $2)
		ON CONFLICT (number) DO UPDATE SET site_id = EXCLUDED.site_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare station statement: %w", err)
	}
	defer stmtStation.Close()

	for _, site := range st.Sites {
		var subjurisdictionID *int64
		if sj := strings.TrimSpace(site.Subjurisdiction); sj != "" {
			id, ok := subjurisdictionIDs[sj]
			if !ok {
				return nil, fmt.Errorf("%w: unknown subjurisdiction %q", domain.ErrValidation, sj)
			}
			subjurisdictionID = &id
		}

		query := `
			INSERT INTO sites (name, subjurisdiction_id) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET subjurisdiction_id = EXCLUDED.subjurisdiction_id
			RETURNING id
		`
		var siteID int64
		if err := tx.QueryRowContext(ctx, query, strings.TrimSpace(site.Name), subjurisdictionID).Scan(&siteID); err != nil {
			return nil, fmt.Errorf("failed to upsert site %q: %w", site.Name, classify(err))
		}
		stats.Sites++

		for _, number := range site.Stations {
			if _, err := stmtStation.ExecContext(ctx, number, siteID); err != nil {
				return nil, fmt.Errorf("failed to upsert station %d: %w", number, classify(err))
			}
			stats.Stations++
		}
	}

	for _, p := range st.Parties {
		query := `
			INSERT INTO parties (list_number, name, abbreviation, display_order)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (list_number) DO UPDATE
			SET name = EXCLUDED.name,
			    abbreviation = EXCLUDED.abbreviation,
			    display_order = EXCLUDED.display_order
		`
		if _, err := tx.ExecContext(ctx, query, p.ListNumber, p.Name, p.Abbreviation, p.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to upsert party %d: %w", p.ListNumber, classify(err))
		}
		stats.Parties++
	}

	stmtNomination, err := tx.PrepareContext(ctx, `
		INSERT INTO nominations (party_list_number, office_id) VALUES ($1, $2)
		ON CONFLICT (party_list_number, office_id) DO NOTHING
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare nomination statement: %w", err)
	}
	defer stmtNomination.Close()

	for _, e := range st.Elections {
		queryElection := `
			INSERT INTO elections (name, kind) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET kind = EXCLUDED.kind
			RETURNING id
		`
		var electionID int64
		if err := tx.QueryRowContext(ctx, queryElection, strings.TrimSpace(e.Name), string(e.Kind)).Scan(&electionID); err != nil {
			return nil, fmt.Errorf("failed to upsert election %q: %w", e.Name, classify(err))
		}

		for _, o := range e.Offices {
			kind := o.Kind
			if kind == "" {
				kind = e.Kind
			}
			queryOffice := `
				INSERT INTO offices (name, kind, election_id) VALUES ($1, $2, $3)
				ON CONFLICT ((LOWER(name))) DO UPDATE
				SET kind = EXCLUDED.kind,
				    election_id = EXCLUDED.election_id
				RETURNING id
			`
			var officeID int64
			err := tx.QueryRowContext(ctx, queryOffice, strings.TrimSpace(o.Name), string(kind), electionID).Scan(&officeID)
			if err != nil {
				return nil, fmt.Errorf("failed to upsert office %q: %w", o.Name, classify(err))
			}
			stats.Offices++

			for _, list := range o.Parties {
				if _, err := stmtNomination.ExecContext(ctx, list, officeID); err != nil {
					return nil, fmt.Errorf("failed to add nomination %d for %q: %w", list, o.Name, classify(err))
				}
				stats.Nominations++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return stats, nil
}
