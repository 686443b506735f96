package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"breeding-scheduler/internal/platform/logger"
	"breeding-scheduler/internal/ports/events"
	"breeding-scheduler/internal/ports/notify"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

const defaultSendTimeout = 10 * time.Second

type Service struct {
	policies PolicyRepository
	ledger   Ledger
	source   events.Source

	// notifier puede ser nil: el scan corta sin efectos.
	notifier    notify.Notifier
	sendTimeout time.Duration

	log logger.Logger
	now func() time.Time

	// Un scan por tenant a la vez: Fired+Mark no es atómico contra
	// scans concurrentes del mismo tenant.
	mu          sync.Mutex
	tenantLocks map[string]*sync.Mutex
}

func NewService(policies PolicyRepository, ledger Ledger, source events.Source, notifier notify.Notifier, log logger.Logger) *Service {
	return &Service{
		policies:    policies,
		ledger:      ledger,
		source:      source,
		notifier:    notifier,
		sendTimeout: defaultSendTimeout,
		log:         log,
		now:         time.Now,
		tenantLocks: make(map[string]*sync.Mutex),
	}
}

// GetPolicy resuelve la policy del tenant: override almacenado sobre defaults.
func (s *Service) GetPolicy(ctx context.Context, tenantID string) (Policy, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return Policy{}, ErrInvalidInput
	}
	o, err := s.policies.Get(ctx, tenantID)
	if err != nil {
		return Policy{}, err
	}
	return o.Resolve(), nil
}

// UpdatePolicy aplica un patch sobre el override almacenado (campos nil no se
// tocan) y devuelve la policy resuelta.
func (s *Service) UpdatePolicy(ctx context.Context, tenantID string, patch PolicyOverride) (Policy, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return Policy{}, ErrInvalidInput
	}
	if patch.PickupWindowDays != nil && *patch.PickupWindowDays < 0 {
		return Policy{}, ErrInvalidInput
	}
	if patch.HeatForecastWindowDays != nil && *patch.HeatForecastWindowDays < 0 {
		return Policy{}, ErrInvalidInput
	}
	if patch.VaccinationWindowDays != nil && *patch.VaccinationWindowDays < 0 {
		return Policy{}, ErrInvalidInput
	}

	o, err := s.policies.Get(ctx, tenantID)
	if err != nil {
		return Policy{}, err
	}
	if patch.Enabled != nil {
		o.Enabled = patch.Enabled
	}
	if patch.PickupWindowDays != nil {
		o.PickupWindowDays = patch.PickupWindowDays
	}
	if patch.DepositRemindersEnabled != nil {
		o.DepositRemindersEnabled = patch.DepositRemindersEnabled
	}
	if patch.HeatForecastWindowDays != nil {
		o.HeatForecastWindowDays = patch.HeatForecastWindowDays
	}
	if patch.VaccinationWindowDays != nil {
		o.VaccinationWindowDays = patch.VaccinationWindowDays
	}
	if err := s.policies.Save(ctx, tenantID, o); err != nil {
		return Policy{}, err
	}
	return o.Resolve(), nil
}

// dateOnly normaliza a medianoche UTC; toda la aritmética de ventanas se hace
// a granularidad de día.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// inWindow: la fecha hito cae en la banda inclusiva de 3 días
// [hoy+windowDays-1, hoy+windowDays+1].
func inWindow(today, milestone time.Time, windowDays int) bool {
	days := int(dateOnly(milestone).Sub(dateOnly(today)).Hours() / 24)
	return days >= windowDays-1 && days <= windowDays+1
}

// Scan recorre los eventos de cría activos del tenant y dispara los
// recordatorios cuya fecha hito cae en ventana, a lo sumo una vez por key.
// Corta sin efectos si la policy está apagada o no hay notifier.
// Los fallos de envío se acumulan en el resultado y el key NO se marca,
// así el próximo scan reintenta.
func (s *Service) Scan(ctx context.Context, tenantID string) (ScanResult, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return ScanResult{}, ErrInvalidInput
	}

	res := ScanResult{TenantID: tenantID}

	if s.notifier == nil {
		res.Reason = "notifier unbound"
		return res, nil
	}

	pol, err := s.GetPolicy(ctx, tenantID)
	if err != nil {
		return res, err
	}
	if !pol.Enabled {
		res.Reason = "reminders disabled"
		return res, nil
	}

	lock := s.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()

	res.Ran = true
	today := dateOnly(s.now())

	// Un fallo de lectura en cualquiera de las tres fuentes se acumula y el
	// scan sigue con las demás.
	litters, err := s.source.ListActiveLitters(ctx, tenantID)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("list litters: %v", err))
	}

	for _, l := range litters {
		// Pickup: compradores opt-in cuando la fecha de entrega entra en ventana.
		if l.PickupDate != nil && inWindow(today, *l.PickupDate, pol.PickupWindowDays) {
			pickup := dateOnly(*l.PickupDate)
			for _, b := range l.Buyers {
				if err := ctx.Err(); err != nil {
					return res, err
				}
				if !b.RemindersOptIn {
					continue
				}
				s.fire(ctx, &res, Key(TypePickup, l.ID, b.ID, pickup), notify.Message{
					RecipientID: b.ID,
					Email:       b.Email,
					TemplateKey: "reminder.pickup",
					Params: map[string]string{
						"litter_id":   l.ID,
						"buyer_name":  b.Name,
						"pickup_date": pickup.Format("2006-01-02"),
					},
				})
			}
		}

		// Seña impaga: key por (destinatario, semana-época), re-elegible la
		// semana siguiente.
		if pol.DepositRemindersEnabled {
			week := EpochWeek(s.now())
			for _, b := range l.Buyers {
				if err := ctx.Err(); err != nil {
					return res, err
				}
				if !b.RemindersOptIn || b.DepositPaid {
					continue
				}
				s.fire(ctx, &res, DepositKey(l.ID, b.ID, week), notify.Message{
					RecipientID: b.ID,
					Email:       b.Email,
					TemplateKey: "reminder.deposit",
					Params: map[string]string{
						"litter_id":  l.ID,
						"buyer_name": b.Name,
					},
				})
			}
		}
	}

	// Proyección de celo: destinatario es el operador del tenant.
	females, err := s.source.ListFemales(ctx, tenantID)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("list females: %v", err))
	}
	for _, f := range females {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if f.LastHeatStart == nil {
			continue
		}
		forecast := dateOnly(f.LastHeatStart.AddDate(0, 0, HeatForecastDays))
		if !inWindow(today, forecast, pol.HeatForecastWindowDays) {
			continue
		}
		s.fire(ctx, &res, Key(TypeHeat, f.ID, tenantID, forecast), notify.Message{
			RecipientID: tenantID,
			TemplateKey: "reminder.heat_forecast",
			Params: map[string]string{
				"animal_id":     f.ID,
				"animal_name":   f.Name,
				"forecast_date": forecast.Format("2006-01-02"),
			},
		})
	}

	// Vacunas con fecha programada en ventana (las desparasitaciones solo
	// aparecen en la proyección de próximos eventos, no generan recordatorio).
	dues, err := s.source.ListHealthDue(ctx, tenantID)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("list health due: %v", err))
	}
	for _, d := range dues {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if d.Kind != events.HealthKindVaccination {
			continue
		}
		due := dateOnly(d.DueDate)
		if !inWindow(today, due, pol.VaccinationWindowDays) {
			continue
		}
		s.fire(ctx, &res, Key(TypeVaccination, d.ID, tenantID, due), notify.Message{
			RecipientID: tenantID,
			TemplateKey: "reminder.vaccination",
			Params: map[string]string{
				"animal_id":   d.AnimalID,
				"animal_name": d.AnimalName,
				"product":     d.Product,
				"due_date":    due.Format("2006-01-02"),
			},
		})
	}

	if s.log != nil {
		s.log.Info("reminder scan finished", map[string]any{
			"tenant":  tenantID,
			"sent":    res.Sent,
			"skipped": res.Skipped,
			"errors":  len(res.Errors),
		})
	}
	return res, nil
}

// fire es la unidad de trabajo por destinatario: check ledger, enviar con
// timeout acotado, marcar solo con envío confirmado. Un timeout cuenta como
// fallo (no se marca) y queda reintentable.
func (s *Service) fire(ctx context.Context, res *ScanResult, key string, msg notify.Message) {
	fired, err := s.ledger.Fired(ctx, key)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("ledger check %s: %v", key, err))
		return
	}
	if fired {
		res.Skipped++
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.notifier.Send(sendCtx, msg); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("send %s: %v", key, err))
		return
	}

	if err := s.ledger.Mark(ctx, key); err != nil {
		// El envío salió pero el mark falló: se reporta; el próximo scan
		// puede duplicar este recordatorio, preferible a perderlo.
		res.Errors = append(res.Errors, fmt.Sprintf("ledger mark %s: %v", key, err))
	}
	res.Sent++
}

// ScanAll recorre todos los tenants conocidos; lo invoca el trigger periódico.
// Un tenant que falla no frena a los demás.
func (s *Service) ScanAll(ctx context.Context) ([]ScanResult, error) {
	tenants, err := s.source.ListTenantIDs(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ScanResult, 0, len(tenants))
	for _, id := range tenants {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res, err := s.Scan(ctx, id)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
		}
		out = append(out, res)
	}
	return out, nil
}

func (s *Service) tenantLock(tenantID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.tenantLocks[tenantID]
	if !ok {
		l = &sync.Mutex{}
		s.tenantLocks[tenantID] = l
	}
	return l
}
