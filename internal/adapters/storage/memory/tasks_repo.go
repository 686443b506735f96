package memory

import (
	"context"
	"errors"
	"sync"

	"breeding-scheduler/internal/domain/tasks"
)

type taskRepo struct {
	mu   sync.RWMutex
	byID map[string]tasks.Instance
}

func NewTaskRepo() tasks.Repository {
	return &taskRepo{
		byID: make(map[string]tasks.Instance),
	}
}

func (r *taskRepo) CreateBatch(ctx context.Context, ts []tasks.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Validar todo antes de escribir: o entran todas o ninguna.
	for _, t := range ts {
		if t.ID == "" {
			return errors.New("task id required")
		}
		if _, exists := r.byID[t.ID]; exists {
			return errors.New("task already exists")
		}
	}
	for _, t := range ts {
		r.byID[t.ID] = t
	}
	return nil
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (tasks.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return tasks.Instance{}, ErrNotFound
	}
	return t, nil
}

func (r *taskRepo) Update(ctx context.Context, t tasks.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[t.ID]; !ok {
		return ErrNotFound
	}
	r.byID[t.ID] = t
	return nil
}

func (r *taskRepo) ListByLitter(ctx context.Context, litterID string) ([]tasks.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tasks.Instance, 0)
	for _, t := range r.byID {
		if t.LitterID == litterID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *taskRepo) DeleteByLitter(ctx context.Context, litterID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, t := range r.byID {
		if t.LitterID == litterID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}
