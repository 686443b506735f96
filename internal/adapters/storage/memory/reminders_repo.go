package memory

import (
	"context"
	"sync"

	"breeding-scheduler/internal/domain/reminders"
)

type policyRepo struct {
	mu       sync.RWMutex
	byTenant map[string]reminders.PolicyOverride
}

func NewPolicyRepo() reminders.PolicyRepository {
	return &policyRepo{
		byTenant: make(map[string]reminders.PolicyOverride),
	}
}

func (r *policyRepo) Get(ctx context.Context, tenantID string) (reminders.PolicyOverride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Sin override guardado => override vacío (todo cae al default).
	return r.byTenant[tenantID], nil
}

func (r *policyRepo) Save(ctx context.Context, tenantID string, o reminders.PolicyOverride) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byTenant[tenantID] = o
	return nil
}

// ledger en memoria: set + orden de inserción para desalojar el más viejo
// cuando se pasa del cap.
type ledger struct {
	mu    sync.Mutex
	cap   int
	keys  map[string]struct{}
	order []string
}

func NewLedger() reminders.Ledger {
	return NewLedgerWithCap(reminders.LedgerCap)
}

func NewLedgerWithCap(cap int) reminders.Ledger {
	if cap <= 0 {
		cap = reminders.LedgerCap
	}
	return &ledger{
		cap:  cap,
		keys: make(map[string]struct{}),
	}
}

func (l *ledger) Fired(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.keys[key]
	return ok, nil
}

func (l *ledger) Mark(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.keys[key]; ok {
		return nil
	}

	l.keys[key] = struct{}{}
	l.order = append(l.order, key)

	// Desalojo oldest-first por encima del cap.
	for len(l.order) > l.cap {
		oldest := l.order[0]
		l.order = l.order[1:]
		delete(l.keys, oldest)
	}
	return nil
}
