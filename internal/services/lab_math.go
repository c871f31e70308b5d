package services

import "strings"

// ProteinTotal24h derives the total protein mass excreted over a window,
// in grams, from the lab concentration (mg/L) and the collected volume
// (ml). A zero volume yields zero; negative inputs are rejected at the
// form boundary and are not re-validated here.
func ProteinTotal24h(concentrationMgPerL float64, totalVolumeML float64) float64 {
	return concentrationMgPerL * totalVolumeML / 1_000_000
}

// Dipstick readings are categorical; charting needs them on a numeric
// axis. Both plain grades ("1+") and plus-notation ("++") of the same
// clinical step map to one ordinal.
var dipstickOrdinals = map[string]float64{
	"-":        0,
	"neg":      0,
	"negative": 0,
	"±":        0.5,
	"+-":       0.5,
	"+":        0.5,
	"trace":    0.5,
	"1+":       1,
	"++":       1,
	"2+":       2,
	"+++":      2,
	"3+":       3,
	"++++":     3,
	"4+":       4,
	"+++++":    4,
}

// DipstickOrdinal maps a free-text dipstick label onto the fixed ordinal
// scale {0, 0.5, 1, 2, 3, 4}. Unrecognized labels report ok=false and
// mean "no data", which charting must keep distinct from the most
// negative reading.
func DipstickOrdinal(label string) (float64, bool) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	ordinal, ok := dipstickOrdinals[normalized]
	return ordinal, ok
}
