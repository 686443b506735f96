package notify

import "context"

// Message es lo mínimo que el colaborador de entrega necesita.
// El template real (asunto, cuerpo, canal) vive en el servicio externo.
type Message struct {
	RecipientID string
	Email       string

	TemplateKey string
	Params      map[string]string
}

// Notifier entrega un mensaje o devuelve error.
// La idempotencia del scanner NO depende de que el notifier sea idempotente.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
