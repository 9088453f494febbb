package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type ballotService struct {
	repo ports.BallotRepository
}

func NewBallotService(repo ports.BallotRepository) ports.BallotService {
	return &ballotService{
		repo: repo,
	}
}

func (s *ballotService) Ballot(ctx context.Context, actor *domain.Actor) (*domain.Ballot, error) {
	if err := actor.Require(domain.CapReadBallot); err != nil {
		return nil, err
	}

	offices, err := s.repo.ListOffices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list offices: %w", err)
	}
	parties, err := s.repo.ListParties(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	nominations, err := s.repo.ListNominations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list nominations: %w", err)
	}

	matrix := make(map[int]map[int64]int64, len(parties))
	for _, n := range nominations {
		byOffice, ok := matrix[n.PartyListNumber]
		if !ok {
			byOffice = make(map[int64]int64)
			matrix[n.PartyListNumber] = byOffice
		}
		byOffice[n.OfficeID] = n.ID
	}

	return &domain.Ballot{
		Offices:           offices,
		Parties:           parties,
		Nominations:       matrix,
		SpecialCategories: domain.SpecialCategories,
	}, nil
}

func (s *ballotService) ResolveOffice(ctx context.Context, ref string) (*domain.Office, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.ErrOfficeNotFound
	}

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return s.repo.GetOfficeByID(ctx, id)
	}

	return s.repo.GetOfficeByName(ctx, domain.CanonicalOfficeName(ref))
}
