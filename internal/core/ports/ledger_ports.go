package ports

import (
	"context"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
)

// LedgerTx is the set of writes available inside one submission transaction.
type LedgerTx interface {
	// LockStation returns the station owned by siteID and holds a row lock on
	// it until the transaction ends.
	LockStation(ctx context.Context, number int, siteID int64) (*domain.Station, error)
	UpsertOfficeVote(ctx context.Context, rec domain.OfficeVoteRecord) error
	UpsertSpecialVote(ctx context.Context, rec domain.SpecialVoteRecord) error
	UpsertReconciliation(ctx context.Context, summary domain.ReconciliationSummary) error
	MarkTallied(ctx context.Context, number int) error
}

type LedgerRepository interface {
	// WithinTx runs fn in a single transaction, committing only if fn
	// returns nil.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
	StationData(ctx context.Context, number int) (*domain.StationData, error)
}

type OfficeVoteInput struct {
	NominationID *int64
	Votes        int64
}

type SpecialVoteInput struct {
	OfficeID *int64
	Category string
	Votes    int64
}

type ReconciliationInput struct {
	VotersThatVoted int64
	EnvelopesFound  int64
	Discrepancy     int64
}

type SubmitInput struct {
	StationNumber  int
	OfficeVotes    []OfficeVoteInput
	SpecialVotes   []SpecialVoteInput
	Reconciliation ReconciliationInput
	Overwrite      bool
}

type SubmitResult struct {
	StationNumber int
	Edited        bool
	OfficeVotes   int
	SpecialVotes  int
}

type SubmissionService interface {
	Submit(ctx context.Context, actor *domain.Actor, input SubmitInput) (*SubmitResult, error)
}
