package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type aggregationService struct {
	repo   ports.AggregationRepository
	ballot ports.BallotService
}

func NewAggregationService(repo ports.AggregationRepository, ballot ports.BallotService) ports.AggregationService {
	return &aggregationService{
		repo:   repo,
		ballot: ballot,
	}
}

func (s *aggregationService) SummaryByOffice(ctx context.Context, actor *domain.Actor, officeRef string) (*domain.OfficeSummary, error) {
	if err := actor.Require(domain.CapViewResults); err != nil {
		return nil, err
	}

	office, err := s.ballot.ResolveOffice(ctx, officeRef)
	if err != nil {
		return nil, err
	}

	report, err := s.repo.OfficeReport(ctx, []int64{office.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to build office report: %w", err)
	}

	return summarizeOffice(*office, report), nil
}

func (s *aggregationService) SummaryCombined(ctx context.Context, actor *domain.Actor, refA, refB string) (*domain.CombinedSummary, error) {
	if err := actor.Require(domain.CapViewResults); err != nil {
		return nil, err
	}

	officeA, err := s.ballot.ResolveOffice(ctx, refA)
	if err != nil {
		return nil, err
	}
	officeB, err := s.ballot.ResolveOffice(ctx, refB)
	if err != nil {
		return nil, err
	}

	report, err := s.repo.OfficeReport(ctx, []int64{officeA.ID, officeB.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to build combined report: %w", err)
	}

	a := summarizeOffice(*officeA, report)
	b := summarizeOffice(*officeB, report)

	completion := report.Completion
	completion.Percentage = domain.Percentage(completion.StationsWithVotes, completion.TotalStations)

	return &domain.CombinedSummary{
		OfficeA:    *officeA,
		OfficeB:    *officeB,
		Rows:       mergeSummaries(a, b),
		Completion: completion,
	}, nil
}

func (s *aggregationService) CompletionBySubjurisdiction(ctx context.Context, actor *domain.Actor) ([]domain.SubjurisdictionProgress, error) {
	if err := actor.Require(domain.CapViewResults); err != nil {
		return nil, err
	}

	counts, err := s.repo.SubjurisdictionCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count stations: %w", err)
	}

	progress := make([]domain.SubjurisdictionProgress, 0, len(counts))
	var unassigned domain.SubjurisdictionProgress
	for _, c := range counts {
		if c.SubjurisdictionID == nil {
			unassigned.Tallied += c.Tallied
			unassigned.Total += c.Total
			continue
		}
		progress = append(progress, domain.SubjurisdictionProgress{
			Name:       c.Name,
			Tallied:    c.Tallied,
			Total:      c.Total,
			Percentage: domain.Percentage(c.Tallied, c.Total),
		})
	}
	if unassigned.Total > 0 {
		unassigned.Name = domain.UnassignedSubjurisdiction
		unassigned.Percentage = domain.Percentage(unassigned.Tallied, unassigned.Total)
		progress = append(progress, unassigned)
	}

	return progress, nil
}

func (s *aggregationService) GlobalCompletion(ctx context.Context, actor *domain.Actor) (*domain.Completion, error) {
	if err := actor.Require(domain.CapViewResults); err != nil {
		return nil, err
	}

	completion, err := s.repo.Completion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute completion: %w", err)
	}
	completion.Percentage = domain.Percentage(completion.StationsWithVotes, completion.TotalStations)
	return completion, nil
}

func summarizeOffice(office domain.Office, report *domain.OfficeReport) *domain.OfficeSummary {
	rows := report.Totals[office.ID]

	var total int64
	for _, r := range rows {
		total += r.Votes
	}

	parties := make([]domain.PartyTotal, 0, len(rows))
	for _, r := range rows {
		parties = append(parties, domain.PartyTotal{
			ListNumber:   r.Party.ListNumber,
			Party:        r.Party.Name,
			Abbreviation: r.Party.Abbreviation,
			Votes:        r.Votes,
			Percentage:   domain.Percentage(r.Votes, total),
			DisplayOrder: r.Party.DisplayOrder,
		})
	}
	sort.SliceStable(parties, func(i, j int) bool {
		if parties[i].Votes != parties[j].Votes {
			return parties[i].Votes > parties[j].Votes
		}
		oi, oj := parties[i].DisplayOrder, parties[j].DisplayOrder
		switch {
		case oi != nil && oj != nil && *oi != *oj:
			return *oi < *oj
		case oi != nil && oj == nil:
			return true
		case oi == nil && oj != nil:
			return false
		}
		return parties[i].ListNumber < parties[j].ListNumber
	})

	withData := report.StationsWithData[office.ID]
	totalStations := report.Completion.TotalStations

	return &domain.OfficeSummary{
		Office:            office,
		Parties:           parties,
		TotalValid:        total,
		StationsWithData:  withData,
		TotalStations:     totalStations,
		StationPercentage: domain.Percentage(withData, totalStations),
	}
}

// mergeSummaries joins two office summaries by party. Rows follow the order
// in which parties first appear in a, then b, before the stable sort.
func mergeSummaries(a, b *domain.OfficeSummary) []domain.CombinedRow {
	index := make(map[int]int)
	var rows []domain.CombinedRow

	row := func(p domain.PartyTotal) *domain.CombinedRow {
		i, ok := index[p.ListNumber]
		if !ok {
			i = len(rows)
			index[p.ListNumber] = i
			rows = append(rows, domain.CombinedRow{ListNumber: p.ListNumber, Party: p.Party})
		}
		return &rows[i]
	}

	for _, p := range a.Parties {
		r := row(p)
		r.VotesA, r.PercentageA = p.Votes, p.Percentage
	}
	for _, p := range b.Parties {
		r := row(p)
		r.VotesB, r.PercentageB = p.Votes, p.Percentage
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].VotesA+rows[i].VotesB > rows[j].VotesA+rows[j].VotesB
	})
	return rows
}
