package templates

// Frequency define la cadencia de una tarea generada desde un template.
// @Enum once, daily, weekly
type Frequency string

const (
	FrequencyOnce   Frequency = "once"
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// Category agrupa templates en la UI de tareas de camada.
// @Enum health, care, documentation, socialization, other
type Category string

const (
	CategoryHealth        Category = "health"
	CategoryCare          Category = "care"
	CategoryDocumentation Category = "documentation"
	CategorySocialization Category = "socialization"
	CategoryOther         Category = "other"
)

// validFrequencies y validCategories: enums estrictos, se rechaza todo lo demás.
var validFrequencies = map[Frequency]bool{
	FrequencyOnce:   true,
	FrequencyDaily:  true,
	FrequencyWeekly: true,
}

var validCategories = map[Category]bool{
	CategoryHealth:        true,
	CategoryCare:          true,
	CategoryDocumentation: true,
	CategorySocialization: true,
	CategoryOther:         true,
}

func ValidFrequency(f Frequency) bool { return validFrequencies[f] }
func ValidCategory(c Category) bool   { return validCategories[c] }

// WeekOffsetThreshold: offsets hasta 21 son días; por encima, semanas.
// Umbral heredado del modelo de datos original; se conserva por compatibilidad
// con templates ya copiados a tenants.
const WeekOffsetThreshold = 21

// OffsetDays traduce el offset crudo de un template a días calendario.
func OffsetDays(offset int) int {
	if offset <= WeekOffsetThreshold {
		return offset
	}
	return offset * 7
}
