package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type submissionService struct {
	ledger ports.LedgerRepository
	audit  ports.AuditLogger
	logger *slog.Logger
}

func NewSubmissionService(ledger ports.LedgerRepository, audit ports.AuditLogger, logger *slog.Logger) ports.SubmissionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &submissionService{
		ledger: ledger,
		audit:  audit,
		logger: logger,
	}
}

func (s *submissionService) Submit(ctx context.Context, actor *domain.Actor, input ports.SubmitInput) (*ports.SubmitResult, error) {
	if err := actor.Require(domain.CapSubmitVotes); err != nil {
		return nil, err
	}
	if actor.SiteID == nil {
		return nil, domain.ErrUnauthorized
	}
	if input.StationNumber <= 0 {
		return nil, domain.ErrStationNotFound
	}

	result := &ports.SubmitResult{StationNumber: input.StationNumber}
	rejected := false

	err := s.ledger.WithinTx(ctx, func(ctx context.Context, tx ports.LedgerTx) error {
		station, err := tx.LockStation(ctx, input.StationNumber, *actor.SiteID)
		if err != nil {
			return err
		}
		if station.Tallied && !input.Overwrite {
			rejected = true
			return domain.ErrAlreadyTallied
		}
		result.Edited = station.Tallied

		for _, v := range input.OfficeVotes {
			if v.NominationID == nil {
				continue
			}
			err := tx.UpsertOfficeVote(ctx, domain.OfficeVoteRecord{
				StationNumber: station.Number,
				NominationID:  *v.NominationID,
				Votes:         domain.CoerceCount(v.Votes),
			})
			if err != nil {
				return fmt.Errorf("office vote for nomination %d: %w", *v.NominationID, err)
			}
			result.OfficeVotes++
		}

		for _, v := range input.SpecialVotes {
			if v.OfficeID == nil || v.Category == "" {
				continue
			}
			category, err := domain.ParseSpecialCategory(v.Category)
			if err != nil {
				return fmt.Errorf("special vote %q for office %d: %w", v.Category, *v.OfficeID, err)
			}
			err = tx.UpsertSpecialVote(ctx, domain.SpecialVoteRecord{
				StationNumber: station.Number,
				OfficeID:      *v.OfficeID,
				Category:      category,
				Votes:         domain.CoerceCount(v.Votes),
			})
			if err != nil {
				return fmt.Errorf("special vote %q for office %d: %w", category, *v.OfficeID, err)
			}
			result.SpecialVotes++
		}

		summary := domain.NewReconciliationSummary(station.Number, input.Reconciliation.VotersThatVoted, input.Reconciliation.EnvelopesFound)
		if reported := input.Reconciliation.Discrepancy; reported != 0 && reported != int64(summary.Discrepancy) {
			s.logger.DebugContext(ctx, "reported discrepancy differs from derived one",
				"mesa_id", station.Number,
				"reported", reported,
				"derived", summary.Discrepancy,
			)
		}
		if err := tx.UpsertReconciliation(ctx, summary); err != nil {
			return fmt.Errorf("reconciliation summary: %w", err)
		}

		if !station.Tallied {
			if err := tx.MarkTallied(ctx, station.Number); err != nil {
				return fmt.Errorf("mark tallied: %w", err)
			}
		}
		return nil
	})

	switch {
	case err == nil:
	case rejected:
		event := domain.NewAuditEvent(domain.AuditStationRejected, actor, input.StationNumber)
		event.Detail = "already tallied, overwrite not requested"
		s.audit.Record(ctx, event)
		return nil, domain.ErrAlreadyTallied
	case errors.Is(err, domain.ErrStationNotFound), errors.Is(err, domain.ErrValidation):
		return nil, err
	default:
		s.logger.ErrorContext(ctx, "vote submission failed",
			"mesa_id", input.StationNumber,
			"usuario", actor.Username,
			"error", err,
		)
		return nil, fmt.Errorf("%w: submission for station %d", domain.ErrInternal, input.StationNumber)
	}

	action := domain.AuditStationTallied
	if result.Edited {
		action = domain.AuditStationEdited
	}
	s.audit.Record(ctx, domain.NewAuditEvent(action, actor, input.StationNumber))

	return result, nil
}
