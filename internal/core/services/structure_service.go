package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type structureService struct {
	repo ports.StructureRepository
}

func NewStructureService(repo ports.StructureRepository) ports.StructureService {
	return &structureService{
		repo: repo,
	}
}

func (s *structureService) Load(ctx context.Context, structure domain.Structure) (*domain.LoadStats, error) {
	if err := validateStructure(structure); err != nil {
		return nil, err
	}
	return s.repo.Load(ctx, structure)
}

func validateStructure(st domain.Structure) error {
	subjurisdictions := make(map[string]bool, len(st.Subjurisdictions))
	for _, name := range st.Subjurisdictions {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("%w: empty subjurisdiction name", domain.ErrValidation)
		}
		subjurisdictions[name] = true
	}

	stations := make(map[int]string)
	for _, site := range st.Sites {
		if strings.TrimSpace(site.Name) == "" {
			return fmt.Errorf("%w: site without name", domain.ErrValidation)
		}
		if sj := strings.TrimSpace(site.Subjurisdiction); sj != "" && !subjurisdictions[sj] {
			return fmt.Errorf("%w: site %q references unknown subjurisdiction %q", domain.ErrValidation, site.Name, sj)
		}
		for _, n := range site.Stations {
			if n <= 0 {
				return fmt.Errorf("%w: station number %d must be positive", domain.ErrValidation, n)
			}
			if other, dup := stations[n]; dup {
				return fmt.Errorf("%w: station %d listed under %q and %q", domain.ErrValidation, n, other, site.Name)
			}
			stations[n] = site.Name
		}
	}

	parties := make(map[int]bool, len(st.Parties))
	for _, p := range st.Parties {
		if p.ListNumber <= 0 {
			return fmt.Errorf("%w: party list number %d must be positive", domain.ErrValidation, p.ListNumber)
		}
		if parties[p.ListNumber] {
			return fmt.Errorf("%w: party list %d declared twice", domain.ErrValidation, p.ListNumber)
		}
		parties[p.ListNumber] = true
	}

	offices := make(map[string]bool)
	for _, e := range st.Elections {
		if !e.Kind.Valid() {
			return fmt.Errorf("%w: election %q has unknown kind %q", domain.ErrValidation, e.Name, e.Kind)
		}
		for _, o := range e.Offices {
			key := strings.ToLower(strings.TrimSpace(o.Name))
			if key == "" {
				return fmt.Errorf("%w: office without name in election %q", domain.ErrValidation, e.Name)
			}
			if offices[key] {
				return fmt.Errorf("%w: office %q declared twice", domain.ErrValidation, o.Name)
			}
			offices[key] = true
			if o.Kind != "" && !o.Kind.Valid() {
				return fmt.Errorf("%w: office %q has unknown kind %q", domain.ErrValidation, o.Name, o.Kind)
			}

			nominated := make(map[int]bool, len(o.Parties))
			for _, list := range o.Parties {
				if !parties[list] {
					return fmt.Errorf("%w: office %q nominates unknown party list %d", domain.ErrValidation, o.Name, list)
				}
				if nominated[list] {
					return fmt.Errorf("%w: list %d for office %q", domain.ErrDuplicateNominee, list, o.Name)
				}
				nominated[list] = true
			}
		}
	}
	return nil
}
