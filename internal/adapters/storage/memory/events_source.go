package memory

import (
	"context"
	"sort"
	"sync"

	"breeding-scheduler/internal/ports/events"
)

// EventSource es la implementación en memoria del puerto de lectura de
// eventos de cría. Sirve para modo dev y tests; en producción la capa de
// registros (Postgres) es la dueña de estos datos.
type EventSource struct {
	mu      sync.RWMutex
	litters map[string]events.Litter
	females map[string][]events.Female
	dues    map[string][]events.HealthDue
}

func NewEventSource() *EventSource {
	return &EventSource{
		litters: make(map[string]events.Litter),
		females: make(map[string][]events.Female),
		dues:    make(map[string][]events.HealthDue),
	}
}

// PutLitter agrega o reemplaza una camada activa (seed de dev/tests).
func (s *EventSource) PutLitter(l events.Litter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.litters[l.ID] = l
}

func (s *EventSource) PutFemale(tenantID string, f events.Female) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.females[tenantID] = append(s.females[tenantID], f)
}

func (s *EventSource) PutHealthDue(tenantID string, d events.HealthDue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dues[tenantID] = append(s.dues[tenantID], d)
}

func (s *EventSource) ListActiveLitters(ctx context.Context, tenantID string) ([]events.Litter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]events.Litter, 0)
	for _, l := range s.litters {
		if l.TenantID == tenantID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *EventSource) ListFemales(ctx context.Context, tenantID string) ([]events.Female, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]events.Female(nil), s.females[tenantID]...), nil
}

func (s *EventSource) ListHealthDue(ctx context.Context, tenantID string) ([]events.HealthDue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]events.HealthDue(nil), s.dues[tenantID]...), nil
}

func (s *EventSource) ListTenantIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	out := make([]string, 0)

	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, l := range s.litters {
		add(l.TenantID)
	}
	for id := range s.females {
		add(id)
	}
	for id := range s.dues {
		add(id)
	}

	sort.Strings(out)
	return out, nil
}
