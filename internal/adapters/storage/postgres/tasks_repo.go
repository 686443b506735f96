package postgres

import (
	"context"
	"database/sql"
	"strings"

	"breeding-scheduler/internal/domain/tasks"
	"breeding-scheduler/internal/domain/templates"
)

type TasksRepo struct {
	db *sql.DB
}

func NewTasksRepo(db *sql.DB) *TasksRepo {
	return &TasksRepo{db: db}
}

// CreateBatch escribe el batch completo en una transacción.
// Si algo falla, rollback: cero estado parcial.
func (r *TasksRepo) CreateBatch(ctx context.Context, ts []tasks.Instance) error {
	if len(ts) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, t := range ts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO task_instances (
				id, litter_id, tenant_id, template_id,
				title, description,
				due_date, offset_value, frequency, category,
				status, completed_at, notes,
				created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		`,
			t.ID,
			t.LitterID,
			t.TenantID,
			t.TemplateID,
			t.Title,
			t.Description,
			t.DueDate,
			t.Offset,
			string(t.Frequency),
			string(t.Category),
			string(t.Status),
			t.CompletedAt,
			t.Notes,
			t.CreatedAt,
			t.UpdatedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *TasksRepo) GetByID(ctx context.Context, id string) (tasks.Instance, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return tasks.Instance{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, litter_id, tenant_id, template_id,
			title, description,
			due_date, offset_value, frequency, category,
			status, completed_at, notes,
			created_at, updated_at
		FROM task_instances
		WHERE id = $1
	`, id)

	return scanTask(row)
}

func (r *TasksRepo) Update(ctx context.Context, t tasks.Instance) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE task_instances
		SET status = $2, completed_at = $3, notes = $4, updated_at = $5
		WHERE id = $1
	`,
		t.ID,
		string(t.Status),
		t.CompletedAt,
		t.Notes,
		t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TasksRepo) ListByLitter(ctx context.Context, litterID string) ([]tasks.Instance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, litter_id, tenant_id, template_id,
			title, description,
			due_date, offset_value, frequency, category,
			status, completed_at, notes,
			created_at, updated_at
		FROM task_instances
		WHERE litter_id = $1
		ORDER BY due_date ASC
	`, litterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]tasks.Instance, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TasksRepo) DeleteByLitter(ctx context.Context, litterID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM task_instances WHERE litter_id = $1
	`, litterID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func scanTask(row rowScanner) (tasks.Instance, error) {
	var t tasks.Instance
	var freq, cat, status string
	if err := row.Scan(
		&t.ID,
		&t.LitterID,
		&t.TenantID,
		&t.TemplateID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&t.Offset,
		&freq,
		&cat,
		&status,
		&t.CompletedAt,
		&t.Notes,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return tasks.Instance{}, ErrNotFound
		}
		return tasks.Instance{}, err
	}
	t.Frequency = templates.Frequency(freq)
	t.Category = templates.Category(cat)
	t.Status = tasks.Status(status)
	return t, nil
}
