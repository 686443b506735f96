package reminders

import (
	"fmt"
	"time"
)

// Type identifica cada familia de recordatorios que el scanner evalúa.
type Type string

const (
	TypePickup      Type = "pickup"
	TypeDeposit     Type = "deposit"
	TypeHeat        Type = "heat"
	TypeVaccination Type = "vaccination"
)

// Policy es la configuración resuelta de recordatorios de un tenant.
type Policy struct {
	Enabled                 bool
	PickupWindowDays        int
	DepositRemindersEnabled bool
	HeatForecastWindowDays  int
	VaccinationWindowDays   int
}

// DefaultPolicy son los valores cuando el tenant no configuró nada.
func DefaultPolicy() Policy {
	return Policy{
		Enabled:                 true,
		PickupWindowDays:        7,
		DepositRemindersEnabled: true,
		HeatForecastWindowDays:  14,
		VaccinationWindowDays:   7,
	}
}

// PolicyOverride es lo que se persiste por tenant: punteros, nil = usar default.
// El merge es shallow, campo por campo.
type PolicyOverride struct {
	Enabled                 *bool
	PickupWindowDays        *int
	DepositRemindersEnabled *bool
	HeatForecastWindowDays  *int
	VaccinationWindowDays   *int
}

// Resolve aplica el override sobre los defaults.
func (o PolicyOverride) Resolve() Policy {
	p := DefaultPolicy()
	if o.Enabled != nil {
		p.Enabled = *o.Enabled
	}
	if o.PickupWindowDays != nil {
		p.PickupWindowDays = *o.PickupWindowDays
	}
	if o.DepositRemindersEnabled != nil {
		p.DepositRemindersEnabled = *o.DepositRemindersEnabled
	}
	if o.HeatForecastWindowDays != nil {
		p.HeatForecastWindowDays = *o.HeatForecastWindowDays
	}
	if o.VaccinationWindowDays != nil {
		p.VaccinationWindowDays = *o.VaccinationWindowDays
	}
	return p
}

// HeatForecastDays: el próximo celo se proyecta a 180 días del último inicio
// registrado, sin ajustar por la variación histórica de cada hembra.
// Se conserva tal cual del modelo original; no afirmamos que sea correcto.
const HeatForecastDays = 180

// LedgerCap limita el ledger de idempotencia a los últimos 500 keys.
// Al insertar por encima del tope se desalojan los más viejos primero.
const LedgerCap = 500

// Key arma la clave opaca de idempotencia de un recordatorio con fecha.
// Un recordatorio dispara a lo sumo una vez por key, aunque el scan se repita
// dentro de la ventana.
func Key(t Type, eventID, recipientID string, targetDate time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%s", t, eventID, recipientID, targetDate.Format("2006-01-02"))
}

// DepositKey clava el recordatorio de seña a la semana-época del scan en vez
// de a una fecha hito: una seña impaga se recuerda a lo sumo una vez por
// ventana de 7 días, no una única vez en la vida.
func DepositKey(eventID, recipientID string, epochWeek int64) string {
	return fmt.Sprintf("%s:%s:%s:week-%d", TypeDeposit, eventID, recipientID, epochWeek)
}

// EpochWeek: semanas completas desde el epoch Unix.
func EpochWeek(t time.Time) int64 {
	return t.Unix() / (7 * 24 * 60 * 60)
}

// ScanResult es lo que devuelve un scan; los errores por destinatario se
// acumulan acá y nunca abortan el resto del recorrido.
type ScanResult struct {
	TenantID string

	// Ran=false: el scan cortó antes de evaluar nada (policy apagada o
	// notifier sin configurar). Reason explica cuál de los dos.
	Ran    bool
	Reason string

	Sent    int
	Skipped int
	Errors  []string
}
