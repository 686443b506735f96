package events

import (
	"context"
	"time"
)

// HealthKind distingue los recordatorios sanitarios programados.
type HealthKind string

const (
	HealthKindVaccination HealthKind = "vaccination"
	HealthKindDeworming   HealthKind = "deworming"
)

// Buyer es un comprador/reservante asociado a una camada.
type Buyer struct {
	ID    string
	Name  string
	Email string

	// RemindersOptIn: el comprador aceptó recibir avisos.
	RemindersOptIn bool
	DepositPaid    bool
}

// Litter es la vista de solo lectura de un evento de cría (camada activa).
type Litter struct {
	ID       string
	TenantID string

	BirthDate  time.Time
	PickupDate *time.Time

	Buyers []Buyer
}

// Female es una hembra reproductora con su último inicio de celo registrado.
type Female struct {
	ID   string
	Name string

	LastHeatStart *time.Time
}

// HealthDue es una vacuna o desparasitación con fecha programada.
type HealthDue struct {
	ID         string
	AnimalID   string
	AnimalName string

	Kind    HealthKind
	Product string
	DueDate time.Time
}

// Source expone los datos de cría que el motor consume.
// Es propiedad de la capa de registros (documentos); aquí solo se lee.
type Source interface {
	ListActiveLitters(ctx context.Context, tenantID string) ([]Litter, error)
	ListFemales(ctx context.Context, tenantID string) ([]Female, error)
	ListHealthDue(ctx context.Context, tenantID string) ([]HealthDue, error)

	// ListTenantIDs soporta el trigger periódico (scan de todos los tenants).
	ListTenantIDs(ctx context.Context) ([]string, error)
}
