package reminders

import "context"

type PolicyRepository interface {
	// Get devuelve el override almacenado; override vacío si el tenant
	// nunca configuró nada.
	Get(ctx context.Context, tenantID string) (PolicyOverride, error)
	Save(ctx context.Context, tenantID string, o PolicyOverride) error
}

// Ledger es el registro de recordatorios ya disparados, con backend
// inyectado y desalojo explícito (cap LedgerCap, más viejo primero).
// No es atómico entre Fired y Mark: el scanner serializa por tenant.
type Ledger interface {
	Fired(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}
