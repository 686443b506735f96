package templates

import "context"

type GlobalRepository interface {
	Create(ctx context.Context, t GlobalTemplate) error
	Update(ctx context.Context, t GlobalTemplate) error
	GetByID(ctx context.Context, id string) (GlobalTemplate, error)
	List(ctx context.Context, includeInactive bool) ([]GlobalTemplate, error)
}

type TenantRepository interface {
	// CreateBatch escribe todas las copias o ninguna (seed atómico).
	CreateBatch(ctx context.Context, ts []TenantTemplate) error
	Update(ctx context.Context, t TenantTemplate) error
	GetByID(ctx context.Context, id string) (TenantTemplate, error)
	ListByTenant(ctx context.Context, tenantID string) ([]TenantTemplate, error)
	CountByTenant(ctx context.Context, tenantID string) (int, error)
}
