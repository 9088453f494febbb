package domain

import "strings"

type ElectionKind string

const (
	KindExecutive   ElectionKind = "executive"
	KindLegislative ElectionKind = "legislative"
)

func (k ElectionKind) Valid() bool {
	return k == KindExecutive || k == KindLegislative
}

type Election struct {
	ID   int64        `json:"id"`
	Name string       `json:"nombre"`
	Kind ElectionKind `json:"tipo"`
}

type Office struct {
	ID         int64        `json:"id"`
	Name       string       `json:"nombre"`
	Kind       ElectionKind `json:"tipo"`
	ElectionID int64        `json:"eleccion_id"`
}

// Party is keyed by its list number.
type Party struct {
	ListNumber   int    `json:"numero_lista" yaml:"numero_lista"`
	Name         string `json:"nombre" yaml:"nombre"`
	Abbreviation string `json:"sigla" yaml:"sigla"`
	DisplayOrder *int   `json:"orden,omitempty" yaml:"orden"`
}

// Nomination pairs one party with one office.
type Nomination struct {
	ID              int64 `json:"id"`
	PartyListNumber int   `json:"numero_lista"`
	OfficeID        int64 `json:"cargo_id"`
}

// SpecialCategory classifies votes that are not cast for a party.
type SpecialCategory string

const (
	CategoryBlank      SpecialCategory = "blanco"
	CategoryNull       SpecialCategory = "nulo"
	CategoryAppealed   SpecialCategory = "recurrido"
	CategoryChallenged SpecialCategory = "impugnado"
	CategoryCommand    SpecialCategory = "comando"
)

var SpecialCategories = []SpecialCategory{
	CategoryNull,
	CategoryBlank,
	CategoryAppealed,
	CategoryChallenged,
	CategoryCommand,
}

func ParseSpecialCategory(s string) (SpecialCategory, error) {
	c := SpecialCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SpecialCategories {
		if c == known {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// OfficeAliases maps the short names used by dashboards to office names.
var OfficeAliases = map[string]string{
	"DIPUTADOS":              "Diputados Provinciales",
	"DIPUTADOS PROVINCIALES": "Diputados Provinciales",
	"CONCEJALES":             "Concejales",
	"CONCEJAL":               "Concejales",
}

// CanonicalOfficeName resolves an alias, falling back to the trimmed input.
func CanonicalOfficeName(ref string) string {
	ref = strings.TrimSpace(ref)
	if name, ok := OfficeAliases[strings.ToUpper(ref)]; ok {
		return name
	}
	return ref
}

// Ballot is the reference data an operator needs to fill a station form.
type Ballot struct {
	Offices           []Office                `json:"cargos"`
	Parties           []Party                 `json:"partidos"`
	Nominations       map[int]map[int64]int64 `json:"candidaturas"`
	SpecialCategories []SpecialCategory       `json:"tipos_voto_especial"`
}
