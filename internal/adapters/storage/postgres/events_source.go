package postgres

import (
	"context"
	"database/sql"

	"breeding-scheduler/internal/ports/events"
)

// EventSourceRepo lee los datos de cría desde las tablas de la capa de
// registros. Este core solo los consume; las escrituras pasan por los
// formularios CRUD (fuera de este módulo).
type EventSourceRepo struct {
	db *sql.DB
}

func NewEventSourceRepo(db *sql.DB) *EventSourceRepo {
	return &EventSourceRepo{db: db}
}

func (r *EventSourceRepo) ListActiveLitters(ctx context.Context, tenantID string) ([]events.Litter, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tenant_id, birth_date, pickup_date
		FROM litters
		WHERE tenant_id = $1 AND status = 'active'
		ORDER BY birth_date ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.Litter, 0)
	for rows.Next() {
		var l events.Litter
		if err := rows.Scan(&l.ID, &l.TenantID, &l.BirthDate, &l.PickupDate); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		buyers, err := r.listBuyers(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Buyers = buyers
	}
	return out, nil
}

func (r *EventSourceRepo) listBuyers(ctx context.Context, litterID string) ([]events.Buyer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, reminders_opt_in, deposit_paid
		FROM litter_buyers
		WHERE litter_id = $1
		ORDER BY name ASC
	`, litterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.Buyer, 0)
	for rows.Next() {
		var b events.Buyer
		if err := rows.Scan(&b.ID, &b.Name, &b.Email, &b.RemindersOptIn, &b.DepositPaid); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *EventSourceRepo) ListFemales(ctx context.Context, tenantID string) ([]events.Female, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, last_heat_start
		FROM animals
		WHERE tenant_id = $1 AND sex = 'female'
		ORDER BY name ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.Female, 0)
	for rows.Next() {
		var f events.Female
		if err := rows.Scan(&f.ID, &f.Name, &f.LastHeatStart); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *EventSourceRepo) ListHealthDue(ctx context.Context, tenantID string) ([]events.HealthDue, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT h.id, h.animal_id, a.name, h.kind, h.product, h.due_date
		FROM health_due h
		JOIN animals a ON a.id = h.animal_id
		WHERE h.tenant_id = $1
		ORDER BY h.due_date ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.HealthDue, 0)
	for rows.Next() {
		var d events.HealthDue
		var kind string
		if err := rows.Scan(&d.ID, &d.AnimalID, &d.AnimalName, &kind, &d.Product, &d.DueDate); err != nil {
			return nil, err
		}
		d.Kind = events.HealthKind(kind)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *EventSourceRepo) ListTenantIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT tenant_id FROM litters
		UNION
		SELECT DISTINCT tenant_id FROM animals
		ORDER BY 1
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
