package catalog

import (
	"strings"

	"github.com/matzehuels/partscout/pkg/integrations/autodoc"
)

// attrFormat is the display prefix and suffix of a modification attribute.
type attrFormat struct{ prefix, suffix string }

// attrFormats lists the attribute keys shown to users. Keys missing here,
// including technical ones such as ssd and carId, are hidden.
var attrFormats = map[string]attrFormat{
	"grade":        {},
	"transmission": {"КПП", ""},
	"engine":       {"Двигатель", ""},
	"power":        {"Мощность", "л.с."},
	"doors":        {"", "дв."},

	"engineType":     {"Тип двигателя", ""},
	"engineCode":     {"Код двигателя", ""},
	"engineCapacity": {"", "л"},
	"enginePower":    {"Мощность", "л.с."},
	"fuelType":       {"Топливо", ""},
	"fuelSystem":     {"Топливная система", ""},
	"cylinderCount":  {"", "цил."},

	"bodyType":  {},
	"bodyCode":  {"Код кузова", ""},
	"steering":  {"Руль", ""},
	"driveType": {"Привод", ""},
	"wheelBase": {"База", "мм"},
	"seats":     {"", "мест"},

	"model":        {"Модель", ""},
	"brand":        {"Марка", ""},
	"modification": {"Модификация", ""},
	"series":       {"Серия", ""},
	"generation":   {"Поколение", ""},
	"chassis":      {"Шасси", ""},
	"modelCode":    {"Код модели", ""},

	"destinationRegion": {"Регион", ""},
	"market":            {"Рынок", ""},
	"country":           {"Страна", ""},

	"year":            {"Год", ""},
	"productionStart": {"Начало выпуска", ""},
	"productionEnd":   {"Конец выпуска", ""},
	"productionDate":  {"Дата производства", ""},

	"gearboxType": {"Тип КПП", ""},
	"gearCount":   {"Передач", ""},
	"weight":      {"Масса", "кг"},
	"clearance":   {"Клиренс", "мм"},

	"equipment": {"Оборудование", ""},
	"options":   {"Опции", ""},
	"trim":      {"Отделка", ""},
	"color":     {"Цвет", ""},
}

// attrPriority is the display order of the most telling attributes.
var attrPriority = []string{
	"brand", "model", "series", "grade", "bodyType", "engineCapacity",
	"power", "transmission", "driveType", "doors", "steering", "year",
}

const notAvailable = "Н/Д"

// FormatAttribute renders one attribute for display. It reports false for
// hidden keys and for empty or "Н/Д" values.
func FormatAttribute(key, value string) (string, bool) {
	f, ok := attrFormats[key]
	value = strings.TrimSpace(value)
	if !ok || value == "" || value == notAvailable {
		return "", false
	}
	if f.prefix != "" {
		value = f.prefix + ": " + value
	}
	if f.suffix != "" {
		value = value + " " + f.suffix
	}
	return value, true
}

// Describe formats attrs, priority keys first, the rest in input order.
// A repeated key is shown once, with its first displayable value.
func Describe(attrs []autodoc.Attribute) []string {
	formatted := make(map[string]string, len(attrs))
	var order []string
	for _, a := range attrs {
		if _, dup := formatted[a.Key]; dup {
			continue
		}
		if s, ok := FormatAttribute(a.Key, a.Value); ok {
			formatted[a.Key] = s
			order = append(order, a.Key)
		}
	}

	out := make([]string, 0, len(order))
	prioritized := make(map[string]bool, len(attrPriority))
	for _, key := range attrPriority {
		prioritized[key] = true
		if s, ok := formatted[key]; ok {
			out = append(out, s)
		}
	}
	for _, key := range order {
		if !prioritized[key] {
			out = append(out, formatted[key])
		}
	}
	return out
}

// Summary is a one-line description of a modification.
func Summary(m autodoc.Modification) string {
	parts := Describe(m.Attributes)
	if len(parts) == 0 {
		return "#" + m.CarID
	}
	return strings.Join(parts, " | ")
}
