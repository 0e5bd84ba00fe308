package wizard

import "strings"

// Canonical attribute keys. Wizard field labels vary between brands and
// catalog versions; every accepted label maps onto one of these.
const (
	KeyModel        = "Модель"
	KeyBrand        = "Марка"
	KeySeries       = "Серия"
	KeyModelYear    = "Модельный год"
	KeyReleaseYear  = "Год выпуска"
	KeyProduceYear  = "Год производства"
	KeyRegion       = "Регион"
	KeyBody         = "Кузов"
	KeyGrade        = "Комплектация"
	KeyDoors        = "Двери"
	KeyEngine       = "Двигатель"
	KeyDisplacement = "Объем"
	KeyPower        = "Мощность"
	KeyFuel         = "Топливо"
	KeyTransmission = "КПП"
	KeyDrive        = "Привод"
	KeySteering     = "Руль"
	KeyGeneration   = "Поколение"
	KeyModification = "Модификация"
	KeyMarket       = "Рынок"
)

// yearKeys are the canonical keys whose options are compared exactly.
var yearKeys = []string{KeyModelYear, KeyReleaseYear, KeyProduceYear}

// aliasTable lists the accepted surface labels per canonical key. Order
// matters where a label appears twice ("Market"): the earlier key wins.
var aliasTable = []struct {
	key    string
	labels []string
}{
	{KeyModel, []string{"Model", "ModelName", "model_name"}},
	{KeyBrand, []string{"Brand", "Manufacturer", "Make"}},
	{KeySeries, []string{"Series", "ModelSeries"}},
	{KeyModelYear, []string{"Год", "Year", "ModelYear", "model_year"}},
	{KeyReleaseYear, []string{"ProductionYear", "production_year", "YearOfManufacture"}},
	{KeyProduceYear, []string{"ManufactureYear", "manufacture_year"}},
	{KeyRegion, []string{"Region", "Market"}},
	{KeyBody, []string{"Body", "Тип кузова", "BodyType"}},
	{KeyGrade, []string{"Grade", "Trim"}},
	{KeyDoors, []string{"Doors", "DoorCount"}},
	{KeyEngine, []string{"Engine", "EngineType"}},
	{KeyDisplacement, []string{"Displacement", "EngineCapacity"}},
	{KeyPower, []string{"Power", "EnginePower"}},
	{KeyFuel, []string{"Fuel", "FuelType"}},
	{KeyTransmission, []string{"Transmission", "GearBox"}},
	{KeyDrive, []string{"Drive", "DriveType"}},
	{KeySteering, []string{"Steering", "SteeringType"}},
	{KeyGeneration, []string{"Generation"}},
	{KeyModification, []string{"Modification"}},
	{KeyMarket, []string{"destinationRegion"}},
}

var (
	labelIndex = map[string]string{}   // lower-cased label -> canonical key
	keyLabels  = map[string][]string{} // canonical key -> labels, itself first
)

func init() {
	for _, e := range aliasTable {
		keyLabels[e.key] = append([]string{e.key}, e.labels...)
		for _, l := range keyLabels[e.key] {
			lower := strings.ToLower(l)
			if _, dup := labelIndex[lower]; !dup {
				labelIndex[lower] = e.key
			}
		}
	}
}

// Canonical returns the canonical key for a field label, matching labels
// case-insensitively. Unknown labels are returned trimmed but otherwise
// unchanged, so they still work as their own key.
func Canonical(label string) string {
	label = strings.TrimSpace(label)
	if key, ok := labelIndex[strings.ToLower(label)]; ok {
		return key
	}
	return label
}

// Labels returns every label accepted for a canonical key, the key itself
// first. It returns nil for keys outside the table.
func Labels(key string) []string {
	labels := keyLabels[key]
	if labels == nil {
		return nil
	}
	return append([]string(nil), labels...)
}

// IsYear reports whether label names a year-like attribute.
func IsYear(label string) bool {
	key := Canonical(label)
	for _, y := range yearKeys {
		if key == y {
			return true
		}
	}
	return false
}
