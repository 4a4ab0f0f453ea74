// Package emissions estimates per-category carbon emissions and aggregates them
// into a footprint.
package emissions

import (
	"time"
)

// Result is the estimate for one category in metric tons of CO2e.
type Result struct {
	Category     Category  `json:"category" yaml:"category"`
	Tons         float64   `json:"tons" yaml:"tons"`
	Precision    int       `json:"precision" yaml:"precision"`
	CalculatedAt time.Time `json:"calculatedAt" yaml:"calculatedAt"`
}

// Estimator maps category inputs to emission estimates. It holds no mutable state and
// is safe for concurrent use.
type Estimator struct {
	electricityFactor float64
	now               func() time.Time
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithElectricityFactor sets the grid factor (kg CO2e per kWh) used when a house input
// does not carry its own. Non-positive values are ignored.
func WithElectricityFactor(f float64) Option {
	return func(e *Estimator) {
		if f > 0 {
			e.electricityFactor = f
		}
	}
}

// WithClock overrides the clock used to stamp results.
func WithClock(now func() time.Time) Option {
	return func(e *Estimator) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEstimator builds an Estimator with the default factors.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		electricityFactor: DefaultElectricityFactor,
		now:               func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate computes the rounded result for an input. It never fails: a nil or empty
// input yields zero tons.
func (e *Estimator) Estimate(in Input) Result {
	if in == nil {
		return Result{CalculatedAt: e.now()}
	}
	c := in.Category()
	return Result{
		Category:     c,
		Tons:         round(e.raw(in), c.Precision()),
		Precision:    c.Precision(),
		CalculatedAt: e.now(),
	}
}

func (e *Estimator) raw(in Input) float64 {
	var tons float64
	switch v := in.(type) {
	case *HouseInput:
		if v != nil {
			tons = e.house(v)
		}
	case *CarInput:
		if v != nil {
			tons = car(v)
		}
	case *FlightsInput:
		if v != nil {
			tons = flights(v)
		}
	case *BusInput:
		if v != nil {
			tons = bus(v)
		}
	case *TrainInput:
		if v != nil {
			tons = train(v)
		}
	case *MotorbikeInput:
		if v != nil {
			tons = motorbike(v)
		}
	case *FoodInput:
		if v != nil {
			tons = food(*v)
		}
	case *OthersInput:
		if v != nil {
			tons = others(*v)
		}
	}
	if tons < 0 {
		return 0
	}
	return tons
}

func (e *Estimator) house(in *HouseInput) float64 {
	electricityFactor := e.electricityFactor
	if in.ElectricityFactor != nil {
		electricityFactor = in.ElectricityFactor.Float()
	}

	kg := in.Electricity.Float() * electricityFactor
	kg += in.NaturalGas.Float() * unitFactor(gasFactors, in.NaturalGasUnit, GasKWh, GasTherms)
	kg += in.HeatingOil.Float() * unitFactor(oilFactors, in.HeatingOilUnit, OilGallons, OilLiters)
	kg += in.Coal.Float() * coalPerKWh
	kg += in.LPG.Float() * unitFactor(lpgFactors, in.LPGUnit, LPGTherms, LPGKg)
	kg += in.Propane.Float() * unitFactor(propaneFactors, in.PropaneUnit, PropaneGallons, PropaneKg)
	kg += in.WoodPellets.Float() * unitFactor(pelletFactors, in.WoodPelletsUnit, PelletTons, PelletKg)

	mix, ok := energyMix[in.EnergySource]
	if !ok {
		mix = energyMix[SourceGrid]
	}
	tons := kg * mix / 1000
	if residents := in.Residents.Float(); residents > 0 {
		tons /= residents
	}
	return tons
}

// unitFactor picks between a carrier's two units. An empty selector or the primary
// unit uses the primary factor; any other selector uses the alternate one.
func unitFactor[U ~string](table map[U]float64, unit, primary, alternate U) float64 {
	if unit == "" || unit == primary {
		return table[primary]
	}
	return table[alternate]
}

func car(in *CarInput) float64 {
	return in.Mileage.Float() * in.Efficiency.Float() / 1_000_000
}

func flights(in *FlightsInput) float64 {
	kg := flightLeg(in.FlightLeg)
	for _, leg := range in.Legs {
		kg += flightLeg(leg)
	}
	return kg / 1000
}

func flightLeg(leg FlightLeg) float64 {
	miles := leg.Distance.Float()
	if miles == 0 {
		return 0
	}
	class, ok := classMultipliers[leg.Class]
	if !ok {
		class = 1
	}
	kg := miles * distanceBand(miles) * class
	if leg.Return {
		kg *= returnTripMultiplier
	}
	trips := 1.0
	if leg.Trips != nil {
		trips = leg.Trips.Float()
	}
	kg *= trips
	if leg.RadiativeForcing {
		kg *= radiativeForcingFactor
	}
	return kg
}

func toKm(distance float64, unit DistanceUnit) float64 {
	if unit == Miles {
		return distance * milesToKm
	}
	return distance
}

func bus(in *BusInput) float64 {
	km := toKm(in.Distance.Float(), in.Unit)
	return km * busFactors[in.BusType] / 1000
}

func train(in *TrainInput) float64 {
	km := toKm(in.Distance.Float(), in.Unit)
	return km * trainFactors[in.TrainType] * coachMultipliers[in.CoachClass] / 1000
}

func motorbike(in *MotorbikeInput) float64 {
	km := toKm(in.Distance.Float(), in.DistanceUnit)
	mileage := in.Mileage.Float()
	if mileage == 0 {
		var ok bool
		if mileage, ok = bikeMileage[in.BikeType]; !ok {
			mileage = defaultBikeMileage
		}
	}
	if km == 0 || mileage == 0 {
		return 0
	}
	return km / mileage * petrolKgPerLitre / 1000
}

func food(in FoodInput) float64 {
	var kg float64
	for _, item := range FoodItems {
		yearlyKg := in[item].Float() * 365 / 1000
		kg += yearlyKg * foodFactors[item]
	}
	return kg / 1000
}

func others(in OthersInput) float64 {
	var kg float64
	for _, category := range SpendCategories {
		kg += in[category].Float() * spendFactors[category]
	}
	return kg / 1000
}
