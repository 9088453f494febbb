package domain

// PartyTotal is one party's votes for an office.
type PartyTotal struct {
	ListNumber   int     `json:"numero_lista"`
	Party        string  `json:"partido"`
	Abbreviation string  `json:"sigla"`
	Votes        int64   `json:"votos"`
	Percentage   float64 `json:"porcentaje"`
	DisplayOrder *int    `json:"-"`
}

type OfficeSummary struct {
	Office            Office       `json:"cargo"`
	Parties           []PartyTotal `json:"partidos"`
	TotalValid        int64        `json:"total_validos"`
	StationsWithData  int64        `json:"mesas_con_datos"`
	TotalStations     int64        `json:"total_mesas"`
	StationPercentage float64      `json:"porcentaje_mesas"`
}

type CombinedRow struct {
	ListNumber  int     `json:"numero_lista"`
	Party       string  `json:"partido"`
	VotesA      int64   `json:"votos_a"`
	PercentageA float64 `json:"porcentaje_a"`
	VotesB      int64   `json:"votos_b"`
	PercentageB float64 `json:"porcentaje_b"`
}

type CombinedSummary struct {
	OfficeA    Office        `json:"cargo_a"`
	OfficeB    Office        `json:"cargo_b"`
	Rows       []CombinedRow `json:"rows"`
	Completion Completion    `json:"completion"`
}

// SubjurisdictionProgress is the tallied share of one subjurisdiction.
type SubjurisdictionProgress struct {
	Name       string  `json:"nombre"`
	Tallied    int64   `json:"escrutadas"`
	Total      int64   `json:"total"`
	Percentage float64 `json:"porcentaje"`
}

// UnassignedSubjurisdiction names the bucket for sites without one.
const UnassignedSubjurisdiction = "Sin subcomando"

// Completion counts stations with at least one office vote record.
type Completion struct {
	TotalStations     int64   `json:"total_mesas"`
	StationsWithVotes int64   `json:"mesas_escrutadas"`
	Percentage        float64 `json:"porcentaje_escrutadas"`
}

// StationCount is a raw (tallied, total) pair keyed by subjurisdiction.
type StationCount struct {
	SubjurisdictionID *int64
	Name              string
	Tallied           int64
	Total             int64
}

// OfficeTotalsRow is a raw aggregation row for one nominated party.
type OfficeTotalsRow struct {
	OfficeID int64
	Party    Party
	Votes    int64
}

// OfficeReport is the raw material for office summaries, read from one
// snapshot. Totals lists every nominated party, including those without votes.
type OfficeReport struct {
	Totals           map[int64][]OfficeTotalsRow
	StationsWithData map[int64]int64
	Completion       Completion
}
