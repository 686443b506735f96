package postgres

import (
	"context"
	"database/sql"
	"strings"

	"breeding-scheduler/internal/domain/templates"
)

type GlobalTemplatesRepo struct {
	db *sql.DB
}

func NewGlobalTemplatesRepo(db *sql.DB) *GlobalTemplatesRepo {
	return &GlobalTemplatesRepo{db: db}
}

func (r *GlobalTemplatesRepo) Create(ctx context.Context, t templates.GlobalTemplate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO global_templates (
			id, title, description,
			offset_value, frequency, category,
			active, sort_order,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		t.ID,
		t.Title,
		t.Description,
		t.Offset,
		string(t.Frequency),
		string(t.Category),
		t.Active,
		t.SortOrder,
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

func (r *GlobalTemplatesRepo) Update(ctx context.Context, t templates.GlobalTemplate) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE global_templates
		SET title = $2, description = $3,
			offset_value = $4, frequency = $5, category = $6,
			active = $7, sort_order = $8, updated_at = $9
		WHERE id = $1
	`,
		t.ID,
		t.Title,
		t.Description,
		t.Offset,
		string(t.Frequency),
		string(t.Category),
		t.Active,
		t.SortOrder,
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

func (r *GlobalTemplatesRepo) GetByID(ctx context.Context, id string) (templates.GlobalTemplate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return templates.GlobalTemplate{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description,
			offset_value, frequency, category,
			active, sort_order,
			created_at, updated_at
		FROM global_templates
		WHERE id = $1
	`, id)

	return scanGlobalTemplate(row)
}

func (r *GlobalTemplatesRepo) List(ctx context.Context, includeInactive bool) ([]templates.GlobalTemplate, error) {
	q := `
		SELECT id, title, description,
			offset_value, frequency, category,
			active, sort_order,
			created_at, updated_at
		FROM global_templates
	`
	if !includeInactive {
		q += " WHERE active = true"
	}
	q += " ORDER BY sort_order ASC"

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]templates.GlobalTemplate, 0)
	for rows.Next() {
		t, err := scanGlobalTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGlobalTemplate(row rowScanner) (templates.GlobalTemplate, error) {
	var t templates.GlobalTemplate
	var freq, cat string
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Offset,
		&freq,
		&cat,
		&t.Active,
		&t.SortOrder,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return templates.GlobalTemplate{}, ErrNotFound
		}
		return templates.GlobalTemplate{}, err
	}
	t.Frequency = templates.Frequency(freq)
	t.Category = templates.Category(cat)
	return t, nil
}

type TenantTemplatesRepo struct {
	db *sql.DB
}

func NewTenantTemplatesRepo(db *sql.DB) *TenantTemplatesRepo {
	return &TenantTemplatesRepo{db: db}
}

// CreateBatch inserta todas las copias en una transacción: o entran todas
// o ninguna (seed atómico).
func (r *TenantTemplatesRepo) CreateBatch(ctx context.Context, ts []templates.TenantTemplate) error {
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
			INSERT INTO tenant_templates (
				id, tenant_id, origin_id,
				title, description,
				offset_value, frequency, category,
				active, sort_order,
				created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		`,
			t.ID,
			t.TenantID,
			t.OriginID,
			t.Title,
			t.Description,
			t.Offset,
			string(t.Frequency),
			string(t.Category),
			t.Active,
			t.SortOrder,
			t.CreatedAt,
			t.UpdatedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *TenantTemplatesRepo) Update(ctx context.Context, t templates.TenantTemplate) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenant_templates
		SET title = $2, description = $3,
			offset_value = $4, frequency = $5, category = $6,
			active = $7, sort_order = $8, updated_at = $9
		WHERE id = $1
	`,
		t.ID,
		t.Title,
		t.Description,
		t.Offset,
		string(t.Frequency),
		string(t.Category),
		t.Active,
		t.SortOrder,
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

func (r *TenantTemplatesRepo) GetByID(ctx context.Context, id string) (templates.TenantTemplate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return templates.TenantTemplate{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, origin_id,
			title, description,
			offset_value, frequency, category,
			active, sort_order,
			created_at, updated_at
		FROM tenant_templates
		WHERE id = $1
	`, id)

	return scanTenantTemplate(row)
}

func (r *TenantTemplatesRepo) ListByTenant(ctx context.Context, tenantID string) ([]templates.TenantTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tenant_id, origin_id,
			title, description,
			offset_value, frequency, category,
			active, sort_order,
			created_at, updated_at
		FROM tenant_templates
		WHERE tenant_id = $1
		ORDER BY sort_order ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]templates.TenantTemplate, 0)
	for rows.Next() {
		t, err := scanTenantTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TenantTemplatesRepo) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tenant_templates WHERE tenant_id = $1
	`, tenantID).Scan(&n)
	return n, err
}

func scanTenantTemplate(row rowScanner) (templates.TenantTemplate, error) {
	var t templates.TenantTemplate
	var freq, cat string
	if err := row.Scan(
		&t.ID,
		&t.TenantID,
		&t.OriginID,
		&t.Title,
		&t.Description,
		&t.Offset,
		&freq,
		&cat,
		&t.Active,
		&t.SortOrder,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return templates.TenantTemplate{}, ErrNotFound
		}
		return templates.TenantTemplate{}, err
	}
	t.Frequency = templates.Frequency(freq)
	t.Category = templates.Category(cat)
	return t, nil
}
