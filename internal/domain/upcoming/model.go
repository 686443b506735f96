package upcoming

import "time"

// Kind clasifica las cuatro fuentes de predicción que mergea la proyección.
type Kind string

const (
	KindPickup       Kind = "pickup"
	KindHeatForecast Kind = "heat_forecast"
	KindVaccination  Kind = "vaccination"
	KindDeworming    Kind = "deworming"
)

// Event es una proyección de solo lectura; nunca se persiste.
type Event struct {
	Kind Kind
	Date time.Time

	Title       string
	Description string
	AnimalID    string
}
