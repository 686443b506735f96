package upcoming

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"breeding-scheduler/internal/domain/reminders"
	"breeding-scheduler/internal/ports/events"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

const DefaultHorizonDays = 30

type Service struct {
	source events.Source
	now    func() time.Time
}

func NewService(source events.Source) *Service {
	return &Service{
		source: source,
		now:    time.Now,
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// List mergea las cuatro fuentes (entregas, proyección de celo, vacunas y
// desparasitaciones) filtradas a [hoy, hoy+horizonte], ordenadas por fecha
// ascendente. Proyección pura: no toca ni el ledger ni las tareas, y tolera
// colecciones vacías.
func (s *Service) List(ctx context.Context, tenantID string, horizonDays int) ([]Event, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, ErrInvalidInput
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	today := dateOnly(s.now())
	until := today.AddDate(0, 0, horizonDays)

	inHorizon := func(d time.Time) bool {
		d = dateOnly(d)
		return !d.Before(today) && !d.After(until)
	}

	out := make([]Event, 0)

	litters, err := s.source.ListActiveLitters(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, l := range litters {
		if l.PickupDate == nil || !inHorizon(*l.PickupDate) {
			continue
		}
		out = append(out, Event{
			Kind:        KindPickup,
			Date:        dateOnly(*l.PickupDate),
			Title:       "Entrega de cachorros",
			Description: fmt.Sprintf("Camada %s lista para entrega", l.ID),
		})
	}

	females, err := s.source.ListFemales(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, f := range females {
		if f.LastHeatStart == nil {
			continue
		}
		forecast := f.LastHeatStart.AddDate(0, 0, reminders.HeatForecastDays)
		if !inHorizon(forecast) {
			continue
		}
		out = append(out, Event{
			Kind:        KindHeatForecast,
			Date:        dateOnly(forecast),
			Title:       "Celo proyectado",
			Description: fmt.Sprintf("Próximo celo estimado de %s", f.Name),
			AnimalID:    f.ID,
		})
	}

	dues, err := s.source.ListHealthDue(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, d := range dues {
		if !inHorizon(d.DueDate) {
			continue
		}
		kind := KindVaccination
		title := "Vacuna programada"
		if d.Kind == events.HealthKindDeworming {
			kind = KindDeworming
			title = "Desparasitación programada"
		}
		desc := d.AnimalName
		if d.Product != "" {
			desc = fmt.Sprintf("%s (%s)", d.AnimalName, d.Product)
		}
		out = append(out, Event{
			Kind:        kind,
			Date:        dateOnly(d.DueDate),
			Title:       title,
			Description: desc,
			AnimalID:    d.AnimalID,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}
