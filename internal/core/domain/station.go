package domain

// Subjurisdiction groups sites for completion reporting.
type Subjurisdiction struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

type Site struct {
	ID                int64  `json:"id"`
	Name              string `json:"nombre"`
	SubjurisdictionID *int64 `json:"subcomando_id,omitempty"`
}

// Station is a single ballot box, identified by its station number.
type Station struct {
	Number  int   `json:"mesa_id"`
	SiteID  int64 `json:"escuela_id"`
	Tallied bool  `json:"escrutada"`
}
