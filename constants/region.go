package constants

import (
	"strings"
)

// Region identifies the issuing water utility and its bill layout family.
type Region string

const (
	Selangor       Region = "Selangor"
	Selangor2      Region = "Selangor2" // newer Air Selangor layout ("baharu"/"lama" columns)
	Melaka         Region = "Melaka"
	NegeriSembilan Region = "Negeri-Sembilan"
	Kedah          Region = "Kedah"
	Johor          Region = "Johor"
	Unknown        Region = "unknown"
)

var allRegions = []Region{
	Selangor,
	Selangor2,
	Melaka,
	NegeriSembilan,
	Kedah,
	Johor,
}

// Regions returns every known region, excluding Unknown.
func Regions() []Region {
	out := make([]Region, len(allRegions))
	copy(out, allRegions)
	return out
}

func (r Region) String() string { return string(r) }

// IsKnown reports whether r is one of the supported regions.
func (r Region) IsKnown() bool {
	for _, k := range allRegions {
		if r == k {
			return true
		}
	}
	return false
}

// TemplateName is the on-disk template basename for the region (lowercase).
func (r Region) TemplateName() string {
	return strings.ToLower(string(r)) + ".json"
}

// Canonicalize maps a loosely spelled region name onto the closed set.
func Canonicalize(input string) (Region, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return Unknown, false
	}

	synonyms := map[string]Region{
		"negeri sembilan": NegeriSembilan,
		"negeri_sembilan": NegeriSembilan,
		"n9":              NegeriSembilan,
		"selangor-2":      Selangor2,
		"selangor_2":      Selangor2,
	}
	if r, ok := synonyms[normalized]; ok {
		return r, true
	}

	for _, r := range allRegions {
		if normalized == strings.ToLower(string(r)) {
			return r, true
		}
	}
	return Unknown, false
}
