package emissions

import "strings"

// Category identifies one of the calculator categories.
type Category string

const (
	CategoryHouse     Category = "house"
	CategoryCar       Category = "car"
	CategoryFlights   Category = "flights"
	CategoryBus       Category = "bus"
	CategoryTrains    Category = "trains"
	CategoryMotorbike Category = "motorbike"
	CategoryFood      Category = "food"
	CategoryOthers    Category = "others"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryHouse,
	CategoryCar,
	CategoryFlights,
	CategoryBus,
	CategoryTrains,
	CategoryMotorbike,
	CategoryFood,
	CategoryOthers,
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Precision is the number of decimals a category result is rounded to.
func (c Category) Precision() int {
	switch c {
	case CategoryBus, CategoryTrains:
		return 3
	case CategoryMotorbike:
		return 4
	default:
		return 2
	}
}

// NewInput returns an empty input value for the category, ready to be decoded into.
func NewInput(c Category) (Input, bool) {
	switch c {
	case CategoryHouse:
		return &HouseInput{}, true
	case CategoryCar:
		return &CarInput{}, true
	case CategoryFlights:
		return &FlightsInput{}, true
	case CategoryBus:
		return &BusInput{}, true
	case CategoryTrains:
		return &TrainInput{}, true
	case CategoryMotorbike:
		return &MotorbikeInput{}, true
	case CategoryFood:
		return &FoodInput{}, true
	case CategoryOthers:
		return &OthersInput{}, true
	}
	return nil, false
}

// Input is implemented only by the category input types in this package.
type Input interface {
	Category() Category
	input()
}

// Selector types for the categorical fields.
type (
	EnergySource  string
	GasUnit       string
	OilUnit       string
	LPGUnit       string
	PropaneUnit   string
	PelletUnit    string
	DistanceUnit  string
	FlightClass   string
	BusType       string
	TrainType     string
	CoachClass    string
	BikeType      string
	FoodItem      string
	SpendCategory string
)

const (
	SourceGrid      EnergySource = "grid"
	SourceMixed     EnergySource = "mixed"
	SourceRenewable EnergySource = "renewable"

	GasKWh    GasUnit = "kWh"
	GasTherms GasUnit = "therms"

	OilGallons OilUnit = "gallons"
	OilLiters  OilUnit = "liters"

	LPGTherms LPGUnit = "therms"
	LPGKg     LPGUnit = "kg"

	PropaneGallons PropaneUnit = "gallons"
	PropaneKg      PropaneUnit = "kg"

	PelletTons PelletUnit = "tons"
	PelletKg   PelletUnit = "kg"

	Kilometers DistanceUnit = "km"
	Miles      DistanceUnit = "miles"

	ClassEconomy        FlightClass = "economy"
	ClassPremiumEconomy FlightClass = "premium-economy"
	ClassBusiness       FlightClass = "business"
	ClassFirst          FlightClass = "first"

	BusVeryOld  BusType = "very-old"
	BusOrdinary BusType = "ordinary"
	BusDeluxe   BusType = "deluxe"
	BusVolvo    BusType = "volvo"
	BusCNG      BusType = "cng"
	BusElectric BusType = "electric"

	TrainVandeBharat TrainType = "vande-bharat"
	TrainRajdhani    TrainType = "rajdhani"
	TrainShatabdi    TrainType = "shatabdi"
	TrainDuronto     TrainType = "duronto"
	TrainGaribRath   TrainType = "garib-rath"
	TrainExpress     TrainType = "express"
	TrainSuperfast   TrainType = "superfast"
	TrainPassenger   TrainType = "passenger"
	TrainEMULocal    TrainType = "emu-local"
	TrainDEMULocal   TrainType = "demu-local"
	TrainMetro       TrainType = "metro"

	CoachAC1           CoachClass = "ac-1"
	CoachAC2           CoachClass = "ac-2"
	CoachAC3           CoachClass = "ac-3"
	CoachACChair       CoachClass = "ac-chair"
	CoachSleeper       CoachClass = "sleeper"
	CoachGeneral       CoachClass = "general"
	CoachSecondSitting CoachClass = "second-sitting"

	BikeCommuter BikeType = "commuter"
	BikeSport    BikeType = "sport"
	BikePremium  BikeType = "premium"
	BikeScooter  BikeType = "scooter"
	BikeElectric BikeType = "electric"
)

// HouseInput covers household energy use. Quantities are per year.
type HouseInput struct {
	Electricity       Quantity     `json:"electricity" yaml:"electricity"`
	ElectricityFactor *Quantity    `json:"electricityFactor,omitempty" yaml:"electricityFactor,omitempty"`
	NaturalGas        Quantity     `json:"naturalGas" yaml:"naturalGas"`
	NaturalGasUnit    GasUnit      `json:"naturalGasUnit,omitempty" yaml:"naturalGasUnit,omitempty"`
	HeatingOil        Quantity     `json:"heatingOil" yaml:"heatingOil"`
	HeatingOilUnit    OilUnit      `json:"heatingOilUnit,omitempty" yaml:"heatingOilUnit,omitempty"`
	Coal              Quantity     `json:"coal" yaml:"coal"`
	LPG               Quantity     `json:"lpg" yaml:"lpg"`
	LPGUnit           LPGUnit      `json:"lpgUnit,omitempty" yaml:"lpgUnit,omitempty"`
	Propane           Quantity     `json:"propane" yaml:"propane"`
	PropaneUnit       PropaneUnit  `json:"propaneUnit,omitempty" yaml:"propaneUnit,omitempty"`
	WoodPellets       Quantity     `json:"woodenPellets" yaml:"woodenPellets"`
	WoodPelletsUnit   PelletUnit   `json:"woodenPelletsUnit,omitempty" yaml:"woodenPelletsUnit,omitempty"`
	Residents         Quantity     `json:"residents" yaml:"residents"`
	EnergySource      EnergySource `json:"energySource,omitempty" yaml:"energySource,omitempty"`
}

// CarInput is annual mileage in km and tailpipe efficiency in g CO2/km.
type CarInput struct {
	Mileage    Quantity `json:"mileage" yaml:"mileage"`
	Efficiency Quantity `json:"efficiency" yaml:"efficiency"`
}

// FlightLeg describes one itinerary. Distance is in miles.
type FlightLeg struct {
	Distance         Quantity    `json:"distance" yaml:"distance"`
	Class            FlightClass `json:"flightClass,omitempty" yaml:"flightClass,omitempty"`
	Return           bool        `json:"isReturnTrip" yaml:"isReturnTrip"`
	Trips            *Quantity   `json:"numberOfTrips,omitempty" yaml:"numberOfTrips,omitempty"`
	RadiativeForcing bool        `json:"includeRadiativeForcing" yaml:"includeRadiativeForcing"`
}

// FlightsInput is one inline leg plus any additional legs.
type FlightsInput struct {
	FlightLeg `yaml:",inline"`
	Legs      []FlightLeg `json:"legs,omitempty" yaml:"legs,omitempty"`
}

// BusInput is a single bus journey.
type BusInput struct {
	Distance Quantity     `json:"distance" yaml:"distance"`
	Unit     DistanceUnit `json:"unit,omitempty" yaml:"unit,omitempty"`
	BusType  BusType      `json:"busType" yaml:"busType"`
}

// TrainInput is a single rail journey.
type TrainInput struct {
	Distance   Quantity     `json:"distance" yaml:"distance"`
	Unit       DistanceUnit `json:"unit,omitempty" yaml:"unit,omitempty"`
	TrainType  TrainType    `json:"trainType" yaml:"trainType"`
	CoachClass CoachClass   `json:"coachClass" yaml:"coachClass"`
}

// MotorbikeInput is a single bike trip. Mileage is km per litre; zero means the
// default for the bike type.
type MotorbikeInput struct {
	Distance     Quantity     `json:"distance" yaml:"distance"`
	DistanceUnit DistanceUnit `json:"distanceUnit,omitempty" yaml:"distanceUnit,omitempty"`
	Mileage      Quantity     `json:"mileage" yaml:"mileage"`
	BikeType     BikeType     `json:"bikeType,omitempty" yaml:"bikeType,omitempty"`
}

// FoodInput holds daily grams (or ml) consumed per item.
type FoodInput map[FoodItem]Quantity

// OthersInput holds annual spend per consumption category.
type OthersInput map[SpendCategory]Quantity

func (*HouseInput) Category() Category     { return CategoryHouse }
func (*CarInput) Category() Category       { return CategoryCar }
func (*FlightsInput) Category() Category   { return CategoryFlights }
func (*BusInput) Category() Category       { return CategoryBus }
func (*TrainInput) Category() Category     { return CategoryTrains }
func (*MotorbikeInput) Category() Category { return CategoryMotorbike }
func (*FoodInput) Category() Category      { return CategoryFood }
func (*OthersInput) Category() Category    { return CategoryOthers }

func (*HouseInput) input()     {}
func (*CarInput) input()       {}
func (*FlightsInput) input()   {}
func (*BusInput) input()       {}
func (*TrainInput) input()     {}
func (*MotorbikeInput) input() {}
func (*FoodInput) input()      {}
func (*OthersInput) input()    {}
