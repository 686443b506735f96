package tasks

// Status define el ciclo de vida de una instancia de tarea.
// Todas las transiciones son acciones explícitas del operador.
// @Enum pending, completed, skipped
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
)

var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusCompleted: true,
	StatusSkipped:   true,
}

func ValidStatus(s Status) bool { return validStatuses[s] }
