package emissions

// Emission factors. House values are kg CO2e per unit, transport values are kg per
// passenger-km unless stated otherwise, food is kg per kg eaten and others is kg per
// unit of currency spent.

const (
	DefaultElectricityFactor = 0.5
	coalPerKWh               = 0.34
	milesToKm                = 1.60934
	petrolKgPerLitre         = 2.31
	radiativeForcingFactor   = 2.7
	returnTripMultiplier     = 2
	defaultBikeMileage       = 45
	shortHaulMiles           = 1500
	mediumHaulMiles          = 4000
)

var gasFactors = map[GasUnit]float64{
	GasKWh:    0.185,
	GasTherms: 5.3,
}

var oilFactors = map[OilUnit]float64{
	OilGallons: 10.15,
	OilLiters:  2.52,
}

var lpgFactors = map[LPGUnit]float64{
	LPGTherms: 5.68,
	LPGKg:     1.51,
}

var propaneFactors = map[PropaneUnit]float64{
	PropaneGallons: 5.72,
	PropaneKg:      1.54,
}

var pelletFactors = map[PelletUnit]float64{
	PelletTons: 1540,
	PelletKg:   1.54,
}

var energyMix = map[EnergySource]float64{
	SourceGrid:      1.0,
	SourceMixed:     0.7,
	SourceRenewable: 0.1,
}

var classMultipliers = map[FlightClass]float64{
	ClassEconomy:        1,
	ClassPremiumEconomy: 1.3,
	ClassBusiness:       2,
	ClassFirst:          3,
}

var busFactors = map[BusType]float64{
	BusVeryOld:  0.105,
	BusOrdinary: 0.089,
	BusDeluxe:   0.082,
	BusVolvo:    0.075,
	BusCNG:      0.068,
	BusElectric: 0.045,
}

var trainFactors = map[TrainType]float64{
	TrainVandeBharat: 0.045,
	TrainRajdhani:    0.055,
	TrainShatabdi:    0.050,
	TrainDuronto:     0.058,
	TrainGaribRath:   0.052,
	TrainExpress:     0.065,
	TrainSuperfast:   0.062,
	TrainPassenger:   0.075,
	TrainEMULocal:    0.040,
	TrainDEMULocal:   0.070,
	TrainMetro:       0.035,
}

var coachMultipliers = map[CoachClass]float64{
	CoachAC1:           1.4,
	CoachAC2:           1.25,
	CoachAC3:           1.15,
	CoachACChair:       1.2,
	CoachSleeper:       1.0,
	CoachGeneral:       0.9,
	CoachSecondSitting: 0.95,
}

// bikeMileage is the assumed km per litre when the rider does not give one.
var bikeMileage = map[BikeType]float64{
	BikeCommuter: 55,
	BikeSport:    35,
	BikePremium:  40,
	BikeScooter:  45,
	BikeElectric: 0,
}

// Food items.
const (
	FoodRice       FoodItem = "rice"
	FoodWheat      FoodItem = "wheat"
	FoodPulses     FoodItem = "pulses"
	FoodChicken    FoodItem = "chicken"
	FoodMutton     FoodItem = "mutton"
	FoodFish       FoodItem = "fish"
	FoodMilk       FoodItem = "milk"
	FoodCurd       FoodItem = "curd"
	FoodPaneer     FoodItem = "paneer"
	FoodGhee       FoodItem = "ghee"
	FoodVegetables FoodItem = "vegetables"
	FoodFruits     FoodItem = "fruits"
	FoodSugar      FoodItem = "sugar"
	FoodTea        FoodItem = "tea"
	FoodCoffee     FoodItem = "coffee"
	FoodCookingOil FoodItem = "cooking_oil"
)

// FoodItems lists the recognised food items in form order.
var FoodItems = []FoodItem{
	FoodRice, FoodWheat, FoodPulses, FoodChicken, FoodMutton, FoodFish, FoodMilk, FoodCurd,
	FoodPaneer, FoodGhee, FoodVegetables, FoodFruits, FoodSugar, FoodTea, FoodCoffee,
	FoodCookingOil,
}

var foodFactors = map[FoodItem]float64{
	FoodRice:       2.7,
	FoodWheat:      1.1,
	FoodPulses:     0.9,
	FoodChicken:    6.9,
	FoodMutton:     39.2,
	FoodFish:       6.1,
	FoodMilk:       3.2,
	FoodCurd:       2.9,
	FoodPaneer:     8.8,
	FoodGhee:       23.9,
	FoodVegetables: 2.0,
	FoodFruits:     1.1,
	FoodSugar:      3.7,
	FoodTea:        5.7,
	FoodCoffee:     16.5,
	FoodCookingOil: 6.3,
}

// Spend categories.
const (
	SpendPharmaceuticals   SpendCategory = "pharmaceuticals"
	SpendClothesTextiles   SpendCategory = "clothesTextiles"
	SpendPaperProducts     SpendCategory = "paperProducts"
	SpendComputersIT       SpendCategory = "computersIT"
	SpendTelevisionRadio   SpendCategory = "televisionRadio"
	SpendMotorVehicles     SpendCategory = "motorVehicles"
	SpendFurnitureGoods    SpendCategory = "furnitureGoods"
	SpendHotelsRestaurants SpendCategory = "hotelsRestaurants"
	SpendPhoneCallCosts    SpendCategory = "phoneCallCosts"
	SpendBankingFinance    SpendCategory = "bankingFinance"
	SpendInsurance         SpendCategory = "insurance"
	SpendEducation         SpendCategory = "education"
	SpendRecreational      SpendCategory = "recreational"
)

// SpendCategories lists the recognised spend categories in form order.
var SpendCategories = []SpendCategory{
	SpendPharmaceuticals, SpendClothesTextiles, SpendPaperProducts, SpendComputersIT,
	SpendTelevisionRadio, SpendMotorVehicles, SpendFurnitureGoods, SpendHotelsRestaurants,
	SpendPhoneCallCosts, SpendBankingFinance, SpendInsurance, SpendEducation,
	SpendRecreational,
}

var spendFactors = map[SpendCategory]float64{
	SpendPharmaceuticals:   0.00012,
	SpendClothesTextiles:   0.00018,
	SpendPaperProducts:     0.00025,
	SpendComputersIT:       0.00015,
	SpendTelevisionRadio:   0.00020,
	SpendMotorVehicles:     0.00035,
	SpendFurnitureGoods:    0.00022,
	SpendHotelsRestaurants: 0.00008,
	SpendPhoneCallCosts:    0.00005,
	SpendBankingFinance:    0.00003,
	SpendInsurance:         0.00002,
	SpendEducation:         0.00004,
	SpendRecreational:      0.00010,
}

// distanceBand returns kg CO2 per passenger-mile for a one-way flight distance.
func distanceBand(miles float64) float64 {
	switch {
	case miles < shortHaulMiles:
		return 0.24
	case miles < mediumHaulMiles:
		return 0.18
	default:
		return 0.15
	}
}
