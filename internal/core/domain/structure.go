package domain

// Structure is the pre-election reference data loaded in bulk.
type Structure struct {
	Subjurisdictions []string         `yaml:"subcomandos"`
	Sites            []StructureSite  `yaml:"escuelas"`
	Elections        []StructureElect `yaml:"elecciones"`
	Parties          []Party          `yaml:"partidos"`
}

type StructureSite struct {
	Name            string `yaml:"nombre"`
	Subjurisdiction string `yaml:"subcomando"`
	Stations        []int  `yaml:"mesas"`
}

type StructureElect struct {
	Name    string            `yaml:"nombre"`
	Kind    ElectionKind      `yaml:"tipo"`
	Offices []StructureOffice `yaml:"cargos"`
}

type StructureOffice struct {
	Name    string       `yaml:"nombre"`
	Kind    ElectionKind `yaml:"tipo"`
	Parties []int        `yaml:"partidos"`
}

type LoadStats struct {
	Subjurisdictions int `json:"subcomandos"`
	Sites            int `json:"escuelas"`
	Stations         int `json:"mesas"`
	Offices          int `json:"cargos"`
	Parties          int `json:"partidos"`
	Nominations      int `json:"candidaturas"`
}
