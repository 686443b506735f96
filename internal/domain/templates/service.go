package templates

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("template not found")
)

type Service struct {
	global GlobalRepository
	tenant TenantRepository
	now    func() time.Time
}

func NewService(global GlobalRepository, tenant TenantRepository) *Service {
	return &Service{
		global: global,
		tenant: tenant,
		now:    time.Now,
	}
}

type CreateGlobalInput struct {
	Title       string
	Description string
	Offset      int
	Frequency   Frequency
	Category    Category
}

// CreateGlobal agrega un template al catálogo global.
// Valida offset y enums antes de escribir (nada inválido llega al repo).
func (s *Service) CreateGlobal(ctx context.Context, in CreateGlobalInput) (GlobalTemplate, error) {
	if strings.TrimSpace(in.Title) == "" {
		return GlobalTemplate{}, ErrInvalidInput
	}
	if in.Offset < 0 {
		return GlobalTemplate{}, ErrInvalidInput
	}
	if !ValidFrequency(in.Frequency) {
		return GlobalTemplate{}, ErrInvalidInput
	}
	if in.Category == "" {
		in.Category = CategoryOther
	}
	if !ValidCategory(in.Category) {
		return GlobalTemplate{}, ErrInvalidInput
	}

	// SortOrder: al final del catálogo actual (incluye inactivos).
	existing, err := s.global.List(ctx, true)
	if err != nil {
		return GlobalTemplate{}, err
	}
	maxOrder := 0
	for _, t := range existing {
		if t.SortOrder > maxOrder {
			maxOrder = t.SortOrder
		}
	}

	now := s.now()
	t := GlobalTemplate{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Offset:      in.Offset,
		Frequency:   in.Frequency,
		Category:    in.Category,
		Active:      true,
		SortOrder:   maxOrder + 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.global.Create(ctx, t); err != nil {
		return GlobalTemplate{}, err
	}
	return t, nil
}

func (s *Service) ListGlobal(ctx context.Context, includeInactive bool) ([]GlobalTemplate, error) {
	out, err := s.global.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

// DeactivateGlobal apaga un template del catálogo. Nunca se borra en duro:
// las copias en tenants guardan OriginID y la referencia debe seguir siendo válida.
func (s *Service) DeactivateGlobal(ctx context.Context, id string) (GlobalTemplate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return GlobalTemplate{}, ErrInvalidInput
	}
	t, err := s.global.GetByID(ctx, id)
	if err != nil {
		return GlobalTemplate{}, err
	}
	if !t.Active {
		return t, nil // idempotente
	}
	t.Active = false
	t.UpdatedAt = s.now()
	if err := s.global.Update(ctx, t); err != nil {
		return GlobalTemplate{}, err
	}
	return t, nil
}

// SeedResult reporta qué hizo Seed: operación explícita y observable,
// no un efecto lateral escondido.
type SeedResult struct {
	TenantID      string
	Seeded        int
	AlreadySeeded bool
}

// Seed copia todos los templates globales activos al set del tenant,
// preservando offset/frequency/category/sortOrder y guardando el origen.
// Idempotente: si el tenant ya tiene templates, no hace nada.
// Después del seed los sets divergen a propósito: editar el catálogo global
// NO re-sincroniza tenants existentes.
func (s *Service) Seed(ctx context.Context, tenantID string) (SeedResult, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return SeedResult{}, ErrInvalidInput
	}

	n, err := s.tenant.CountByTenant(ctx, tenantID)
	if err != nil {
		return SeedResult{}, err
	}
	if n > 0 {
		return SeedResult{TenantID: tenantID, AlreadySeeded: true}, nil
	}

	actives, err := s.global.List(ctx, false)
	if err != nil {
		return SeedResult{}, err
	}

	now := s.now()
	copies := make([]TenantTemplate, 0, len(actives))
	for _, g := range actives {
		copies = append(copies, TenantTemplate{
			ID:          uuid.NewString(),
			TenantID:    tenantID,
			OriginID:    g.ID,
			Title:       g.Title,
			Description: g.Description,
			Offset:      g.Offset,
			Frequency:   g.Frequency,
			Category:    g.Category,
			Active:      true,
			SortOrder:   g.SortOrder,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	// Batch todo-o-nada: un seed fallido no deja copias parciales,
	// el caller simplemente reintenta.
	if err := s.tenant.CreateBatch(ctx, copies); err != nil {
		return SeedResult{TenantID: tenantID}, err
	}

	return SeedResult{TenantID: tenantID, Seeded: len(copies)}, nil
}

func (s *Service) ListTenant(ctx context.Context, tenantID string) ([]TenantTemplate, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, ErrInvalidInput
	}
	out, err := s.tenant.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

// UpdateTenantInput usa punteros para PATCH real: nil = no tocar.
type UpdateTenantInput struct {
	Title       *string
	Description *string
	Offset      *int
	Frequency   *Frequency
	Category    *Category
	Active      *bool
	SortOrder   *int
}

// UpdateTenant edita la copia del tenant. El template global de origen
// no se toca nunca desde acá.
func (s *Service) UpdateTenant(ctx context.Context, tenantID, id string, in UpdateTenantInput) (TenantTemplate, error) {
	tenantID = strings.TrimSpace(tenantID)
	id = strings.TrimSpace(id)
	if tenantID == "" || id == "" {
		return TenantTemplate{}, ErrInvalidInput
	}

	t, err := s.tenant.GetByID(ctx, id)
	if err != nil {
		return TenantTemplate{}, err
	}
	if t.TenantID != tenantID {
		return TenantTemplate{}, ErrNotFound
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return TenantTemplate{}, ErrInvalidInput
		}
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Offset != nil {
		if *in.Offset < 0 {
			return TenantTemplate{}, ErrInvalidInput
		}
		t.Offset = *in.Offset
	}
	if in.Frequency != nil {
		if !ValidFrequency(*in.Frequency) {
			return TenantTemplate{}, ErrInvalidInput
		}
		t.Frequency = *in.Frequency
	}
	if in.Category != nil {
		if !ValidCategory(*in.Category) {
			return TenantTemplate{}, ErrInvalidInput
		}
		t.Category = *in.Category
	}
	if in.Active != nil {
		t.Active = *in.Active
	}
	if in.SortOrder != nil {
		t.SortOrder = *in.SortOrder
	}

	t.UpdatedAt = s.now()
	if err := s.tenant.Update(ctx, t); err != nil {
		return TenantTemplate{}, err
	}
	return t, nil
}

// ActiveForTenant es lo que consume el materializador de tareas.
func (s *Service) ActiveForTenant(ctx context.Context, tenantID string) ([]TenantTemplate, error) {
	all, err := s.ListTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]TenantTemplate, 0, len(all))
	for _, t := range all {
		if t.Active {
			out = append(out, t)
		}
	}
	return out, nil
}
