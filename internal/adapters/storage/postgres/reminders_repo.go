package postgres

import (
	"context"
	"database/sql"

	"breeding-scheduler/internal/domain/reminders"
)

type PolicyRepo struct {
	db *sql.DB
}

func NewPolicyRepo(db *sql.DB) *PolicyRepo {
	return &PolicyRepo{db: db}
}

// Get devuelve el override del tenant. Columnas NULL = campo sin setear
// (cae al default en el merge del servicio).
func (r *PolicyRepo) Get(ctx context.Context, tenantID string) (reminders.PolicyOverride, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT enabled, pickup_window_days, deposit_reminders_enabled,
			heat_forecast_window_days, vaccination_window_days
		FROM reminder_policies
		WHERE tenant_id = $1
	`, tenantID)

	var o reminders.PolicyOverride
	if err := row.Scan(
		&o.Enabled,
		&o.PickupWindowDays,
		&o.DepositRemindersEnabled,
		&o.HeatForecastWindowDays,
		&o.VaccinationWindowDays,
	); err != nil {
		if err == sql.ErrNoRows {
			return reminders.PolicyOverride{}, nil
		}
		return reminders.PolicyOverride{}, err
	}
	return o, nil
}

func (r *PolicyRepo) Save(ctx context.Context, tenantID string, o reminders.PolicyOverride) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reminder_policies (
			tenant_id, enabled, pickup_window_days, deposit_reminders_enabled,
			heat_forecast_window_days, vaccination_window_days
		) VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (tenant_id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			pickup_window_days = EXCLUDED.pickup_window_days,
			deposit_reminders_enabled = EXCLUDED.deposit_reminders_enabled,
			heat_forecast_window_days = EXCLUDED.heat_forecast_window_days,
			vaccination_window_days = EXCLUDED.vaccination_window_days
	`,
		tenantID,
		o.Enabled,
		o.PickupWindowDays,
		o.DepositRemindersEnabled,
		o.HeatForecastWindowDays,
		o.VaccinationWindowDays,
	)
	return err
}

type LedgerRepo struct {
	db *sql.DB
}

func NewLedgerRepo(db *sql.DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

func (r *LedgerRepo) Fired(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM reminder_ledger WHERE key = $1)
	`, key).Scan(&exists)
	return exists, err
}

// Mark inserta el key y recorta el ledger a los LedgerCap más nuevos,
// en una sola transacción. ON CONFLICT DO NOTHING: un mark duplicado
// (scans concurrentes) es inocuo.
func (r *LedgerRepo) Mark(ctx context.Context, key string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reminder_ledger (key) VALUES ($1)
		ON CONFLICT (key) DO NOTHING
	`, key); err != nil {
		return err
	}

	// Desalojo oldest-first: seq es BIGSERIAL, menor = más viejo.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM reminder_ledger
		WHERE seq NOT IN (
			SELECT seq FROM reminder_ledger
			ORDER BY seq DESC
			LIMIT $1
		)
	`, reminders.LedgerCap); err != nil {
		return err
	}

	return tx.Commit()
}
