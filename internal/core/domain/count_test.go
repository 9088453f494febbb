package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceCount(t *testing.T) {
	assert.Equal(t, 0, CoerceCount(-5))
	assert.Equal(t, 0, CoerceCount(0))
	assert.Equal(t, 42, CoerceCount(42))
	assert.Equal(t, MaxCount, CoerceCount(math.MaxInt64))
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"12", 12},
		{`"12"`, 12},
		{" 7 ", 7},
		{"-5", -5},
		{"3.9", 3},
		{"abc", 0},
		{"", 0},
		{"null", 0},
		{"NaN", 0},
		{"1e400", 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCount(tt.raw))
		})
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 30.0, Percentage(30, 100))
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, 0.0, Percentage(10, 0))
}

func TestNewReconciliationSummaryDerivesDiscrepancy(t *testing.T) {
	s := NewReconciliationSummary(1001, 200, 198)
	assert.Equal(t, 200, s.VotersThatVoted)
	assert.Equal(t, 198, s.EnvelopesFound)
	assert.Equal(t, -2, s.Discrepancy)
	assert.True(t, s.Tallied)

	s = NewReconciliationSummary(1001, -1, 10)
	assert.Equal(t, 0, s.VotersThatVoted)
	assert.Equal(t, 10, s.Discrepancy)
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleOperator.Can(CapSubmitVotes))
	assert.False(t, RolePanelist.Can(CapSubmitVotes))
	assert.False(t, RoleAdmin.Can(CapSubmitVotes))
	assert.True(t, RolePanelist.Can(CapViewResults))
	assert.False(t, RoleOperator.Can(CapViewResults))
	assert.False(t, Role("guest").Valid())

	var nilActor *Actor
	assert.ErrorIs(t, nilActor.Require(CapReadBallot), ErrUnauthorized)
}

func TestParseSpecialCategory(t *testing.T) {
	c, err := ParseSpecialCategory(" Blanco ")
	assert.NoError(t, err)
	assert.Equal(t, CategoryBlank, c)

	_, err = ParseSpecialCategory("robado")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCanonicalOfficeName(t *testing.T) {
	assert.Equal(t, "Diputados Provinciales", CanonicalOfficeName("diputados"))
	assert.Equal(t, "Concejales", CanonicalOfficeName("CONCEJAL"))
	assert.Equal(t, "Intendente", CanonicalOfficeName(" Intendente "))
}
