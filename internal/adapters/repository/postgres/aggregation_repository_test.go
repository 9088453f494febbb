package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repo "github.com/vncsmyrnk/escrutinio/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
)

func TestAggregation_OfficeReport(t *testing.T) {
	f := setupFixture(t)
	defer f.db.Teardown(t)
	ctx := context.Background()
	svc := f.submission()

	_, err := svc.Submit(ctx, operatorAt(f.siteID["Escuela 1"]), f.ballotFor(1001, 100, 50))
	require.NoError(t, err)
	_, err = svc.Submit(ctx, operatorAt(f.siteID["Escuela 2"]), f.ballotFor(1003, 20, 30))
	require.NoError(t, err)

	dip := f.officeID["Diputados Provinciales"]
	conc := f.officeID["Concejales"]
	report, err := repo.NewAggregationRepository(f.db.DB).OfficeReport(ctx, []int64{dip, conc})
	require.NoError(t, err)

	totals := map[int]int64{}
	for _, row := range report.Totals[dip] {
		totals[row.Party.ListNumber] = row.Votes
	}
	assert.Equal(t, map[int]int64{501: 120, 502: 80, 503: 0}, totals, "nominated parties without votes appear with zero")
	assert.Len(t, report.Totals[conc], 2)
	assert.Equal(t, int64(2), report.StationsWithData[dip])
	assert.Zero(t, report.StationsWithData[conc])
	assert.Equal(t, domain.Completion{TotalStations: 4, StationsWithVotes: 2}, report.Completion)
}

func TestAggregation_SubjurisdictionCounts(t *testing.T) {
	f := setupFixture(t)
	defer f.db.Teardown(t)
	ctx := context.Background()

	_, err := f.submission().Submit(ctx, operatorAt(f.siteID["Escuela Rural"]), f.ballotFor(9001, 5, 5))
	require.NoError(t, err)

	counts, err := repo.NewAggregationRepository(f.db.DB).SubjurisdictionCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	assert.Equal(t, "Norte", counts[0].Name)
	assert.Equal(t, int64(3), counts[0].Total)
	assert.Zero(t, counts[0].Tallied)

	assert.Nil(t, counts[1].SubjurisdictionID)
	assert.Equal(t, domain.UnassignedSubjurisdiction, counts[1].Name)
	assert.Equal(t, int64(1), counts[1].Total)
	assert.Equal(t, int64(1), counts[1].Tallied)
}
