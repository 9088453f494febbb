package ports

import (
	"context"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
)

// AggregationRepository reads committed ledger state. Each method runs
// against a single read-only snapshot.
type AggregationRepository interface {
	OfficeReport(ctx context.Context, officeIDs []int64) (*domain.OfficeReport, error)
	SubjurisdictionCounts(ctx context.Context) ([]domain.StationCount, error)
	Completion(ctx context.Context) (*domain.Completion, error)
}

type AggregationService interface {
	SummaryByOffice(ctx context.Context, actor *domain.Actor, officeRef string) (*domain.OfficeSummary, error)
	SummaryCombined(ctx context.Context, actor *domain.Actor, refA, refB string) (*domain.CombinedSummary, error)
	CompletionBySubjurisdiction(ctx context.Context, actor *domain.Actor) ([]domain.SubjurisdictionProgress, error)
	GlobalCompletion(ctx context.Context, actor *domain.Actor) (*domain.Completion, error)
}
