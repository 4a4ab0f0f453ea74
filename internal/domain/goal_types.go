package domain

// GoalType is the kind of sustainability goal.
type GoalType string

const (
	GoalCarbon           GoalType = "carbon"
	GoalPlants           GoalType = "plants"
	GoalBicycle          GoalType = "bicycle"
	GoalRecycle          GoalType = "recycle"
	GoalWater            GoalType = "water"
	GoalEnergy           GoalType = "energy"
	GoalWaste            GoalType = "waste"
	GoalSolar            GoalType = "solar"
	GoalReusable         GoalType = "reusable"
	GoalCustom           GoalType = "custom"
	GoalShortShowers     GoalType = "shortshowers"
	GoalLessMeat         GoalType = "lessmeat"
	GoalCompost          GoalType = "compost"
	GoalPublicTransport  GoalType = "publictransport"
	GoalColdWash         GoalType = "coldwash"
	GoalEcoPackaging     GoalType = "ecopackaging"
	GoalEnergyEfficient  GoalType = "energyefficient"
	GoalCollectRainwater GoalType = "collectrainwater"
)

// CustomUnit is the unit assigned to custom goals.
const CustomUnit = "units"

// defaultCarbonFactor applies to custom goals and any type without its own factor.
const defaultCarbonFactor = 0.5

// CatalogActivity is a suggested activity with its default impact.
type CatalogActivity struct {
	Label  string  `json:"label" yaml:"label"`
	Impact float64 `json:"impact" yaml:"impact"`
}

// GoalTypeInfo describes a goal type.
type GoalTypeInfo struct {
	Type         GoalType          `json:"value" yaml:"value"`
	Label        string            `json:"label" yaml:"label"`
	Unit         string            `json:"unit" yaml:"unit"`
	CarbonFactor float64           `json:"carbonFactor" yaml:"carbonFactor"`
	Activities   []CatalogActivity `json:"activities" yaml:"activities"`
}

var goalTypes = []GoalTypeInfo{
	{GoalCarbon, "Reduce Carbon Footprint", "kg CO₂", 1, []CatalogActivity{
		{"Biked to work", 0.5},
		{"Used public transport", 0.8},
		{"Worked from home", 1.2},
		{"Carpooled", 0.3},
		{"Used renewable energy", 1.0},
		{"Walked instead of driving", 0.4},
		{"Electric vehicle usage", 1.5},
	}},
	{GoalPlants, "Grow Plants", "plants", 22, []CatalogActivity{
		{"Planted seeds", 1},
		{"Watered plants", 0},
		{"Added compost", 0},
		{"Transplanted seedlings", 2},
		{"Started herb garden", 3},
		{"Planted tree sapling", 1},
	}},
	{GoalBicycle, "Travel by Bicycle", "km", 0.15, []CatalogActivity{
		{"Commute to work", 10},
		{"Grocery shopping", 5},
		{"Leisure ride", 15},
		{"Errands around town", 8},
		{"Weekend long ride", 25},
		{"School pickup/drop", 6},
	}},
	{GoalRecycle, "Recycle Items", "items", 0.5, []CatalogActivity{
		{"Recycled plastic bottles", 5},
		{"Recycled paper", 3},
		{"Recycled electronics", 1},
		{"Composted organic waste", 2},
		{"Recycled glass containers", 4},
		{"Recycled cardboard", 2},
	}},
	{GoalWater, "Save Water", "liters", 0.0003, []CatalogActivity{
		{"Shorter shower", 10},
		{"Fixed leaky faucet", 50},
		{"Collected rainwater", 20},
		{"Used water-efficient appliances", 30},
		{"Turned off tap while brushing", 5},
		{"Full dishwasher loads only", 15},
	}},
	{GoalEnergy, "Save Energy", "kWh", 0.5, []CatalogActivity{
		{"Switched to LED bulbs", 2},
		{"Unplugged unused devices", 1},
		{"Used natural light", 0.5},
		{"Adjusted thermostat", 3},
		{"Air-dried clothes", 2.5},
		{"Used energy-efficient appliances", 4},
	}},
	{GoalWaste, "Reduce Waste", "items", 2, []CatalogActivity{
		{"Avoided single-use packaging", 3},
		{"Brought reusable bags", 2},
		{"Refused plastic straws", 1},
		{"Used refillable water bottle", 1},
		{"Composted food scraps", 2},
		{"Donated instead of throwing away", 3},
	}},
	{GoalSolar, "Use Renewable Energy", "days", 3, []CatalogActivity{
		{"Used solar panels", 1},
		{"Solar water heating", 1},
		{"Solar garden lights", 1},
		{"Solar phone charger", 1},
		{"Community solar program", 1},
	}},
	{GoalReusable, "Use Reusable Products", "items", 1, []CatalogActivity{
		{"Used reusable shopping bags", 1},
		{"Used reusable water bottle", 1},
		{"Used reusable food containers", 1},
		{"Used reusable coffee cup", 1},
		{"Used cloth napkins", 1},
		{"Used rechargeable batteries", 1},
	}},
	{GoalCustom, "Custom Goal", CustomUnit, defaultCarbonFactor, nil},
	{GoalShortShowers, "Take Short Showers", "minutes saved", 0.01, []CatalogActivity{
		{"Took a 5-minute shower", 30},
		{"Used a low-flow showerhead", 20},
		{"Turned off water while shampooing", 15},
		{"Skipped shower today", 50},
		{"Showered with a bucket instead of tap", 25},
	}},
	{GoalLessMeat, "Reduce Meat Consumption", "meals", 2.5, []CatalogActivity{
		{"Ate a vegetarian meal", 2},
		{"Ate a vegan meal", 3},
		{"Avoided beef in one meal", 4},
		{"Had a meat-free day", 5},
		{"Cooked a plant-based recipe", 2.5},
	}},
	{GoalCompost, "Compost Waste", "kg", 0.8, []CatalogActivity{
		{"Composted kitchen scraps", 0.5},
		{"Started a compost bin", 1.0},
		{"Used compost in garden", 0.4},
		{"Separated wet and dry waste", 0.3},
		{"Taught someone to compost", 0.6},
	}},
	{GoalPublicTransport, "Use Public Transport", "km", 0.12, []CatalogActivity{
		{"Took the metro instead of car", 1.0},
		{"Used the bus for commuting", 0.8},
		{"Avoided driving for the day", 2.0},
		{"Used shared mobility (e.g. cabpool)", 0.6},
		{"Walked to the station or stop", 0.3},
	}},
	{GoalColdWash, "Use Cold Water for Washing", "loads", 0.6, []CatalogActivity{
		{"Used cold water for washing clothes", 1.2},
		{"Reduced washing machine cycles", 1.0},
		{"Used eco mode on washing machine", 1.5},
		{"Did full load instead of half", 0.8},
		{"Air-dried clothes instead of using dryer", 2.0},
	}},
	{GoalEcoPackaging, "Buy Eco-Friendly Products", "items", 0.3, []CatalogActivity{
		{"Bought product with eco packaging", 0.5},
		{"Avoided single-use packaging", 0.4},
		{"Reused boxes or containers", 0.3},
		{"Chose plastic-free groceries", 0.6},
		{"Refilled old containers", 0.5},
	}},
	{GoalEnergyEfficient, "Use Energy Efficient Devices", "devices", 1.5, []CatalogActivity{
		{"Replaced bulb with LED", 2.0},
		{"Used energy-efficient appliance", 1.5},
		{"Turned off appliances not in use", 1.0},
		{"Enabled power-saving mode", 0.7},
		{"Unplugged chargers overnight", 0.5},
	}},
	{GoalCollectRainwater, "Collect Rainwater", "liters", 0.0002, []CatalogActivity{
		{"Collected rainwater in a bucket", 10},
		{"Used rainwater for watering plants", 5},
		{"Washed car with rainwater", 8},
		{"Installed a rain barrel", 20},
		{"Harvested rooftop rainwater", 25},
	}},
}

var goalTypeIndex = func() map[GoalType]int {
	idx := make(map[GoalType]int, len(goalTypes))
	for i, gt := range goalTypes {
		idx[gt.Type] = i
	}
	return idx
}()

// GoalTypes returns the goal type table in display order. The returned slice is a copy.
func GoalTypes() []GoalTypeInfo {
	out := make([]GoalTypeInfo, len(goalTypes))
	for i, gt := range goalTypes {
		gt.Activities = append([]CatalogActivity(nil), gt.Activities...)
		out[i] = gt
	}
	return out
}

// LookupGoalType returns the table entry for t.
func LookupGoalType(t GoalType) (GoalTypeInfo, bool) {
	i, ok := goalTypeIndex[t]
	if !ok {
		return GoalTypeInfo{}, false
	}
	return goalTypes[i], true
}

// CatalogImpact returns the default impact of a catalog activity for a goal type.
func CatalogImpact(t GoalType, label string) (float64, bool) {
	info, ok := LookupGoalType(t)
	if !ok {
		return 0, false
	}
	for _, a := range info.Activities {
		if a.Label == label {
			return a.Impact, true
		}
	}
	return 0, false
}

func carbonFactor(t GoalType) float64 {
	if info, ok := LookupGoalType(t); ok {
		return info.CarbonFactor
	}
	return defaultCarbonFactor
}
