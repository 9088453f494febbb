package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type ballotRepository struct {
	db *sql.DB
}

func NewBallotRepository(db *sql.DB) ports.BallotRepository {
	return &ballotRepository{
		db: db,
	}
}

func (r *ballotRepository) ListOffices(ctx context.Context) ([]domain.Office, error) {
	query := `SELECT id, name, kind, election_id FROM offices ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list offices: %w", err)
	}
	defer rows.Close()

	offices := []domain.Office{}
	for rows.Next() {
		var o domain.Office
		if err := rows.Scan(&o.ID, &o.Name, &o.Kind, &o.ElectionID); err != nil {
			return nil, fmt.Errorf("failed to scan office: %w", err)
		}
		offices = append(offices, o)
	}
	return offices, rows.Err()
}

func (r *ballotRepository) ListParties(ctx context.Context) ([]domain.Party, error) {
	query := `
		SELECT list_number, name, abbreviation, display_order
		FROM parties
		ORDER BY display_order NULLS LAST, list_number
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	defer rows.Close()

	parties := []domain.Party{}
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, err
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

func (r *ballotRepository) ListNominations(ctx context.Context) ([]domain.Nomination, error) {
	query := `SELECT id, party_list_number, office_id FROM nominations ORDER BY office_id, party_list_number`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list nominations: %w", err)
	}
	defer rows.Close()

	nominations := []domain.Nomination{}
	for rows.Next() {
		var n domain.Nomination
		if err := rows.Scan(&n.ID, &n.PartyListNumber, &n.OfficeID); err != nil {
			return nil, fmt.Errorf("failed to scan nomination: %w", err)
		}
		nominations = append(nominations, n)
	}
	return nominations, rows.Err()
}

func (r *ballotRepository) GetOfficeByID(ctx context.Context, id int64) (*domain.Office, error) {
	query := `SELECT id, name, kind, election_id FROM offices WHERE id = $1`
	return r.getOffice(ctx, query, id)
}

func (r *ballotRepository) GetOfficeByName(ctx context.Context, name string) (*domain.Office, error) {
	query := `SELECT id, name, kind, election_id FROM offices WHERE LOWER(name) = LOWER($1)`
	return r.getOffice(ctx, query, name)
}

func (r *ballotRepository) getOffice(ctx context.Context, query string, arg any) (*domain.Office, error) {
	var o domain.Office
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&o.ID, &o.Name, &o.Kind, &o.ElectionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOfficeNotFound
		}
		return nil, fmt.Errorf("failed to get office: %w", err)
	}
	return &o, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParty(row rowScanner) (domain.Party, error) {
	var (
		p     domain.Party
		order sql.NullInt32
	)
	if err := row.Scan(&p.ListNumber, &p.Name, &p.Abbreviation, &order); err != nil {
		return p, fmt.Errorf("failed to scan party: %w", err)
	}
	if order.Valid {
		v := int(order.Int32)
		p.DisplayOrder = &v
	}
	return p, nil
}
