package tasks

import (
	"time"

	"breeding-scheduler/internal/domain/templates"
)

// Instance es una tarea concreta materializada desde un template del tenant
// para una camada. Se crea una vez en batch; después solo cambia su status.
type Instance struct {
	ID       string
	LitterID string
	TenantID string

	// TemplateID referencia el TenantTemplate que la originó.
	TemplateID string

	Title       string
	Description string

	DueDate   time.Time
	Offset    int
	Frequency templates.Frequency
	Category  templates.Category

	Status      Status
	CompletedAt *time.Time
	Notes       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stats resume el avance de las tareas de una camada.
type Stats struct {
	Total     int
	Completed int
	Pending   int
	Skipped   int

	// CompletionRate = round(completed/total*100); 0 si no hay tareas.
	CompletionRate int
}
