package ports

import (
	"context"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
)

type BallotRepository interface {
	ListOffices(ctx context.Context) ([]domain.Office, error)
	ListParties(ctx context.Context) ([]domain.Party, error)
	ListNominations(ctx context.Context) ([]domain.Nomination, error)
	GetOfficeByID(ctx context.Context, id int64) (*domain.Office, error)
	// GetOfficeByName matches case-insensitively.
	GetOfficeByName(ctx context.Context, name string) (*domain.Office, error)
}

type BallotService interface {
	Ballot(ctx context.Context, actor *domain.Actor) (*domain.Ballot, error)
	// ResolveOffice accepts a numeric id, an office name or an alias.
	ResolveOffice(ctx context.Context, ref string) (*domain.Office, error)
}
