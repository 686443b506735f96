package tasks

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"breeding-scheduler/internal/domain/templates"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// TemplateSource es lo que el materializador necesita del módulo de templates.
type TemplateSource interface {
	ActiveForTenant(ctx context.Context, tenantID string) ([]templates.TenantTemplate, error)
}

type Service struct {
	repo      Repository
	templates TemplateSource
	now       func() time.Time
}

func NewService(repo Repository, tmpl TemplateSource) *Service {
	return &Service{
		repo:      repo,
		templates: tmpl,
		now:       time.Now,
	}
}

// DueDate calcula la fecha de vencimiento desde la fecha del evento (nacimiento)
// y el offset del template: <=21 suma días, >21 suma offset*7 días.
// Determinística: mismo (eventDate, offset) => misma fecha siempre.
func DueDate(eventDate time.Time, offset int) time.Time {
	return eventDate.AddDate(0, 0, templates.OffsetDays(offset))
}

// Generate materializa una instancia pending por cada template activo del
// tenant, en un solo batch todo-o-nada. No detecta duplicados: para regenerar,
// el caller debe llamar DeleteForLitter primero. Llamadas concurrentes para la
// misma camada deben serializarlas quien invoca (lock por camada).
func (s *Service) Generate(ctx context.Context, litterID, tenantID string, eventDate time.Time) ([]Instance, error) {
	litterID = strings.TrimSpace(litterID)
	tenantID = strings.TrimSpace(tenantID)
	if litterID == "" || tenantID == "" {
		return nil, ErrInvalidInput
	}
	if eventDate.IsZero() {
		return nil, ErrInvalidInput
	}

	tmpls, err := s.templates.ActiveForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]Instance, 0, len(tmpls))
	for _, t := range tmpls {
		out = append(out, Instance{
			ID:          uuid.NewString(),
			LitterID:    litterID,
			TenantID:    tenantID,
			TemplateID:  t.ID,
			Title:       t.Title,
			Description: t.Description,
			DueDate:     DueDate(eventDate, t.Offset),
			Offset:      t.Offset,
			Frequency:   t.Frequency,
			Category:    t.Category,
			Status:      StatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	// Todo-o-nada: si el batch falla no queda ninguna instancia y el caller
	// reintenta la operación completa.
	if err := s.repo.CreateBatch(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteForLitter borra todas las instancias de la camada. Devuelve cuántas.
func (s *Service) DeleteForLitter(ctx context.Context, litterID string) (int, error) {
	litterID = strings.TrimSpace(litterID)
	if litterID == "" {
		return 0, ErrInvalidInput
	}
	return s.repo.DeleteByLitter(ctx, litterID)
}

func (s *Service) ListByLitter(ctx context.Context, litterID string) ([]Instance, error) {
	litterID = strings.TrimSpace(litterID)
	if litterID == "" {
		return nil, ErrInvalidInput
	}
	out, err := s.repo.ListByLitter(ctx, litterID)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

// UpdateStatus aplica una transición explícita:
// - pending -> completed: setea CompletedAt=now
// - pending -> skipped
// - completed/skipped -> pending (reabrir): limpia CompletedAt
// Ninguna instancia transiciona sola.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status, notes *string) (Instance, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Instance{}, ErrInvalidInput
	}
	if !ValidStatus(status) {
		return Instance{}, ErrInvalidInput
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Instance{}, err
	}

	now := s.now()
	switch status {
	case StatusCompleted:
		completedAt := now
		t.CompletedAt = &completedAt
	default:
		t.CompletedAt = nil
	}
	t.Status = status
	if notes != nil {
		t.Notes = strings.TrimSpace(*notes)
	}
	t.UpdatedAt = now

	if err := s.repo.Update(ctx, t); err != nil {
		return Instance{}, err
	}
	return t, nil
}

// StatsForLitter calcula el resumen de avance de la camada.
func (s *Service) StatsForLitter(ctx context.Context, litterID string) (Stats, error) {
	ts, err := s.ListByLitter(ctx, litterID)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{Total: len(ts)}
	for _, t := range ts {
		switch t.Status {
		case StatusCompleted:
			st.Completed++
		case StatusSkipped:
			st.Skipped++
		default:
			st.Pending++
		}
	}
	if st.Total > 0 {
		st.CompletionRate = int(math.Round(float64(st.Completed) / float64(st.Total) * 100))
	}
	return st, nil
}
