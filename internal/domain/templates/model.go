package templates

import "time"

// GlobalTemplate es un template de tarea del catálogo global.
// Lo edita el operador del sistema; una vez copiado a un tenant es inmutable
// desde el punto de vista de esa copia (no hay re-sync automático).
type GlobalTemplate struct {
	ID string

	Title       string
	Description string

	// Offset respecto a la fecha de nacimiento: 0–21 días, >21 semanas.
	Offset    int
	Frequency Frequency
	Category  Category

	Active    bool
	SortOrder int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TenantTemplate es la copia editable de un GlobalTemplate para un tenant.
// OriginID referencia el template global del que se copió.
type TenantTemplate struct {
	ID       string
	TenantID string
	OriginID string

	Title       string
	Description string

	Offset    int
	Frequency Frequency
	Category  Category

	Active    bool
	SortOrder int

	CreatedAt time.Time
	UpdatedAt time.Time
}
