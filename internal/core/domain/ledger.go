package domain

import "time"

// OfficeVoteRecord holds the votes a station reported for one nomination.
type OfficeVoteRecord struct {
	StationNumber int       `json:"-"`
	NominationID  int64     `json:"partido_postulacion_id"`
	Votes         int       `json:"votos"`
	UpdatedAt     time.Time `json:"-"`
}

// SpecialVoteRecord holds blank, null, challenged... votes for one office.
type SpecialVoteRecord struct {
	StationNumber int             `json:"-"`
	OfficeID      int64           `json:"cargo_postulacion_id"`
	Category      SpecialCategory `json:"tipo"`
	Votes         int             `json:"votos"`
	UpdatedAt     time.Time       `json:"-"`
}

// ReconciliationSummary is the per-station envelope count check.
type ReconciliationSummary struct {
	StationNumber   int       `json:"-"`
	VotersThatVoted int       `json:"electores_votaron"`
	EnvelopesFound  int       `json:"sobres_encontrados"`
	Discrepancy     int       `json:"diferencia"`
	Tallied         bool      `json:"escrutada"`
	UpdatedAt       time.Time `json:"-"`
}

// NewReconciliationSummary builds a tallied summary from raw counters.
// The discrepancy is always derived from the two counters.
func NewReconciliationSummary(station int, voters, envelopes int64) ReconciliationSummary {
	v := CoerceCount(voters)
	e := CoerceCount(envelopes)
	return ReconciliationSummary{
		StationNumber:   station,
		VotersThatVoted: v,
		EnvelopesFound:  e,
		Discrepancy:     e - v,
		Tallied:         true,
	}
}

// StationData is everything recorded for one station.
type StationData struct {
	StationNumber  int                   `json:"mesa_id"`
	Tallied        bool                  `json:"escrutada"`
	Reconciliation ReconciliationSummary `json:"resumen_mesa"`
	OfficeVotes    []OfficeVoteRecord    `json:"votos_cargo"`
	SpecialVotes   []SpecialVoteRecord   `json:"votos_especiales"`
}
