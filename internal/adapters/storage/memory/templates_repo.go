package memory

import (
	"context"
	"errors"
	"sync"

	"breeding-scheduler/internal/domain/templates"
)

var (
	ErrNotFound = errors.New("not found")
)

type globalTemplateRepo struct {
	mu   sync.RWMutex
	byID map[string]templates.GlobalTemplate
}

func NewGlobalTemplateRepo() templates.GlobalRepository {
	return &globalTemplateRepo{
		byID: make(map[string]templates.GlobalTemplate),
	}
}

func (r *globalTemplateRepo) Create(ctx context.Context, t templates.GlobalTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		return errors.New("template id required")
	}
	if _, exists := r.byID[t.ID]; exists {
		return errors.New("template already exists")
	}

	r.byID[t.ID] = t
	return nil
}

func (r *globalTemplateRepo) Update(ctx context.Context, t templates.GlobalTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[t.ID]; !ok {
		return ErrNotFound
	}
	r.byID[t.ID] = t
	return nil
}

func (r *globalTemplateRepo) GetByID(ctx context.Context, id string) (templates.GlobalTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return templates.GlobalTemplate{}, ErrNotFound
	}
	return t, nil
}

func (r *globalTemplateRepo) List(ctx context.Context, includeInactive bool) ([]templates.GlobalTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]templates.GlobalTemplate, 0, len(r.byID))
	for _, t := range r.byID {
		if !includeInactive && !t.Active {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

type tenantTemplateRepo struct {
	mu   sync.RWMutex
	byID map[string]templates.TenantTemplate
}

func NewTenantTemplateRepo() templates.TenantRepository {
	return &tenantTemplateRepo{
		byID: make(map[string]templates.TenantTemplate),
	}
}

func (r *tenantTemplateRepo) CreateBatch(ctx context.Context, ts []templates.TenantTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Validar todo antes de tocar el mapa: batch todo-o-nada.
	for _, t := range ts {
		if t.ID == "" {
			return errors.New("template id required")
		}
		if _, exists := r.byID[t.ID]; exists {
			return errors.New("template already exists")
		}
	}
	for _, t := range ts {
		r.byID[t.ID] = t
	}
	return nil
}

func (r *tenantTemplateRepo) Update(ctx context.Context, t templates.TenantTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[t.ID]; !ok {
		return ErrNotFound
	}
	r.byID[t.ID] = t
	return nil
}

func (r *tenantTemplateRepo) GetByID(ctx context.Context, id string) (templates.TenantTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return templates.TenantTemplate{}, ErrNotFound
	}
	return t, nil
}

func (r *tenantTemplateRepo) ListByTenant(ctx context.Context, tenantID string) ([]templates.TenantTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]templates.TenantTemplate, 0)
	for _, t := range r.byID {
		if t.TenantID == tenantID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *tenantTemplateRepo) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, t := range r.byID {
		if t.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}
