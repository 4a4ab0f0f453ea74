package emissions

// VehicleDatabase is a regional list of manufacturers offered when picking a car.
type VehicleDatabase struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Manufacturers []Manufacturer `json:"manufacturers" yaml:"manufacturers"`
}

// Manufacturer is one make and its models.
type Manufacturer struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Models []string `json:"models" yaml:"models"`
}

// Vehicles returns the vehicle databases. The slice is freshly built on each call.
func Vehicles() []VehicleDatabase {
	return []VehicleDatabase{
		{
			ID:   "india-car-database",
			Name: "India car database",
			Manufacturers: []Manufacturer{
				{"ford-india", "Ford India Pvt. Ltd.", []string{"Figo", "EcoSport", "Freestyle", "Endeavour"}},
				{"honda-india", "Honda Cars India Ltd.", []string{"City", "Amaze", "WR-V", "Jazz", "CR-V"}},
				{"hyundai-india", "Hyundai Motor India Ltd.", []string{"i10", "i20", "Verna", "Creta", "Tucson"}},
				{"mahindra", "Mahindra & Mahindra Ltd.", []string{"XUV500", "Scorpio", "Bolero", "Thar", "XUV300"}},
				{"maruti-suzuki", "Maruti Suzuki India Ltd.", []string{"Swift", "Baleno", "Alto", "Dzire", "Vitara Brezza"}},
				{"nissan-india", "Nissan Motor India Pvt. Ltd.", []string{"Micra", "Sunny", "Terrano", "X-Trail"}},
				{"renault-india", "Renault India Pvt. Ltd.", []string{"Kwid", "Duster", "Captur", "Lodgy"}},
				{"skoda-india", "Skoda Auto Volkswagen India Pvt. Ltd.", []string{"Rapid", "Octavia", "Superb", "Kodiaq"}},
				{"tata-motors", "Tata Motors Ltd.", []string{"Tiago", "Tigor", "Nexon", "Harrier", "Safari"}},
				{"toyota-india", "Toyota Kirloskar Motor Pvt. Ltd.", []string{"Etios", "Yaris", "Innova", "Fortuner", "Camry"}},
			},
		},
		{
			ID:   "us-car-database",
			Name: "US car database",
			Manufacturers: []Manufacturer{
				{"acura", "Acura", []string{"ILX", "TLX", "RLX", "RDX", "MDX"}},
				{"audi", "Audi", []string{"A3", "A4", "A6", "A8", "Q3", "Q5", "Q7"}},
				{"bmw", "BMW", []string{"3 Series", "5 Series", "7 Series", "X3", "X5", "X7"}},
				{"buick", "Buick", []string{"Encore", "Envision", "Enclave", "Regal"}},
				{"cadillac", "Cadillac", []string{"ATS", "CTS", "XTS", "XT4", "XT5", "Escalade"}},
				{"chevrolet", "Chevrolet", []string{"Spark", "Sonic", "Cruze", "Malibu", "Impala", "Equinox"}},
				{"chrysler", "Chrysler", []string{"300", "Pacifica"}},
				{"dodge", "Dodge", []string{"Charger", "Challenger", "Durango", "Journey"}},
				{"ford", "Ford", []string{"Fiesta", "Focus", "Fusion", "Mustang", "Escape", "Explorer"}},
				{"honda", "Honda", []string{"Fit", "Civic", "Accord", "CR-V", "Pilot", "Ridgeline"}},
				{"hyundai", "Hyundai", []string{"Accent", "Elantra", "Sonata", "Tucson", "Santa Fe"}},
				{"infiniti", "Infiniti", []string{"Q50", "Q60", "QX50", "QX60", "QX80"}},
				{"jaguar", "Jaguar", []string{"XE", "XF", "XJ", "F-PACE", "E-PACE"}},
				{"jeep", "Jeep", []string{"Compass", "Cherokee", "Grand Cherokee", "Wrangler"}},
				{"lexus", "Lexus", []string{"IS", "ES", "GS", "LS", "NX", "RX", "GX"}},
				{"mercedes-benz", "Mercedes-Benz", []string{"C-Class", "E-Class", "S-Class", "GLC", "GLE", "GLS"}},
				{"nissan", "Nissan", []string{"Versa", "Sentra", "Altima", "Maxima", "Rogue", "Pathfinder"}},
				{"toyota", "Toyota", []string{"Yaris", "Corolla", "Camry", "Avalon", "RAV4", "Highlander"}},
				{"volkswagen", "Volkswagen", []string{"Jetta", "Passat", "Arteon", "Tiguan", "Atlas"}},
			},
		},
		{
			ID:   "eu-car-database",
			Name: "EU car database",
			Manufacturers: []Manufacturer{
				{"audi", "Audi", []string{"A1", "A3", "A4", "A6", "A8", "Q2", "Q3", "Q5"}},
				{"bmw", "BMW", []string{"1 Series", "3 Series", "5 Series", "X1", "X3", "X5"}},
				{"citroen", "Citroën", []string{"C1", "C3", "C4", "C5", "Berlingo"}},
				{"fiat", "Fiat", []string{"500", "Panda", "Punto", "Tipo", "500X"}},
				{"ford", "Ford", []string{"Fiesta", "Focus", "Mondeo", "Kuga", "Edge"}},
				{"honda", "Honda", []string{"Jazz", "Civic", "Accord", "CR-V", "HR-V"}},
				{"hyundai", "Hyundai", []string{"i10", "i20", "i30", "Tucson", "Santa Fe"}},
				{"kia", "Kia", []string{"Picanto", "Rio", "Ceed", "Sportage", "Sorento"}},
				{"land-rover", "Land Rover", []string{"Evoque", "Discovery Sport", "Discovery", "Defender"}},
				{"mercedes-benz", "Mercedes-Benz", []string{"A-Class", "C-Class", "E-Class", "GLA", "GLC"}},
				{"mini", "Mini", []string{"Cooper", "Countryman", "Clubman"}},
				{"nissan", "Nissan", []string{"Micra", "Note", "Pulsar", "Qashqai", "X-Trail"}},
				{"opel", "Opel", []string{"Corsa", "Astra", "Insignia", "Crossland", "Grandland"}},
				{"peugeot", "Peugeot", []string{"108", "208", "308", "508", "2008", "3008"}},
				{"renault", "Renault", []string{"Clio", "Megane", "Scenic", "Captur", "Kadjar"}},
				{"seat", "Seat", []string{"Ibiza", "Leon", "Ateca", "Tarraco"}},
				{"skoda", "Skoda", []string{"Fabia", "Octavia", "Superb", "Karoq", "Kodiaq"}},
				{"toyota", "Toyota", []string{"Yaris", "Auris", "Avensis", "C-HR", "RAV4"}},
				{"volkswagen", "Volkswagen", []string{"Polo", "Golf", "Passat", "Tiguan", "Touareg"}},
				{"volvo", "Volvo", []string{"V40", "S60", "V60", "XC40", "XC60", "XC90"}},
			},
		},
	}
}
