package domain

import "strings"

// Sector is a coarse investment category inferred from overview text.
type Sector string

// Known sectors.
const (
	SectorResidentialRealEstate Sector = "Residential Real Estate"
	SectorCommercialRealEstate  Sector = "Commercial Real Estate"
	SectorRealEstate            Sector = "Real Estate"
	SectorTechnology            Sector = "Technology"
	SectorHealthcare            Sector = "Healthcare"
	SectorUnknown               Sector = "Unknown"
)

// String returns the display label.
func (s Sector) String() string {
	return string(s)
}

// SectorRule maps keywords to a sector.
// A rule matches when any keyword is a case-insensitive substring of the text.
// When a matching rule has Refinements, the first matching refinement decides
// the sector; if none match, the rule's own Sector applies.
type SectorRule struct {
	Keywords    []string
	Sector      Sector
	Refinements SectorRules
}

func (r SectorRule) matches(lower string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// SectorRules is an ordered rule table. The first matching rule wins.
type SectorRules []SectorRule

// Classify returns the sector for text. It is total: text matching no rule
// is SectorUnknown.
func (rs SectorRules) Classify(text string) Sector {
	return rs.classify(strings.ToLower(text), SectorUnknown)
}

func (rs SectorRules) classify(lower string, fallback Sector) Sector {
	for _, rule := range rs {
		if rule.matches(lower) {
			return rule.Refinements.classify(lower, rule.Sector)
		}
	}
	return fallback
}

// DefaultSectorRules is the built-in classification table.
var DefaultSectorRules = SectorRules{
	{
		Keywords: []string{"real estate"},
		Sector:   SectorRealEstate,
		Refinements: SectorRules{
			{Keywords: []string{"residential", "apartment", "housing"}, Sector: SectorResidentialRealEstate},
			{Keywords: []string{"commercial", "office", "retail", "industrial"}, Sector: SectorCommercialRealEstate},
		},
	},
	{Keywords: []string{"technology", "software", "saas", "ai"}, Sector: SectorTechnology},
	{Keywords: []string{"healthcare"}, Sector: SectorHealthcare},
}

// DetermineSector classifies text with DefaultSectorRules.
func DetermineSector(text string) Sector {
	return DefaultSectorRules.Classify(text)
}
