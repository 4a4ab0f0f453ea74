package emissions

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EPA greenhouse gas equivalency divisors, kg CO2e per unit.
const (
	MilesDrivenFactor      = 0.192
	SmartphoneChargeFactor = 0.00822
	TreeSeedlingFactor     = 60.0
	HomeDayFactor          = 18.3

	// MinEquivalencyKg is the smallest footprint that gets equivalencies; below it
	// they round to nothing meaningful.
	MinEquivalencyKg = 1.0
)

var printer = message.NewPrinter(language.English)

// Equivalency expresses a footprint as a relatable quantity.
type Equivalency struct {
	Label     string  `json:"label" yaml:"label"`
	Value     float64 `json:"value" yaml:"value"`
	Formatted string  `json:"formatted" yaml:"formatted"`
}

// Equivalencies converts a footprint in tons to EPA equivalencies. Footprints under
// MinEquivalencyKg yield nil.
func Equivalencies(tons float64) []Equivalency {
	kg := tons * 1000
	if math.IsNaN(kg) || math.IsInf(kg, 0) || kg < MinEquivalencyKg {
		return nil
	}
	build := func(label string, factor float64) Equivalency {
		v := kg / factor
		return Equivalency{Label: label, Value: v, Formatted: FormatCount(v)}
	}
	return []Equivalency{
		build("miles driven", MilesDrivenFactor),
		build("smartphones charged", SmartphoneChargeFactor),
		build("tree seedlings grown for 10 years", TreeSeedlingFactor),
		build("days of home electricity", HomeDayFactor),
	}
}

// Summary renders the first two equivalencies as a sentence, or "" when there are none.
func Summary(eqs []Equivalency) string {
	if len(eqs) < 2 {
		return ""
	}
	return fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
		eqs[0].Formatted, eqs[1].Formatted)
}

// FormatCount rounds v to a whole number with thousand separators.
func FormatCount(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}
