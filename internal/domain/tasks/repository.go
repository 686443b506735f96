package tasks

import "context"

type Repository interface {
	// CreateBatch escribe todas las instancias o ninguna.
	// En Postgres esto es una transacción; en memoria, un lock + rollback manual.
	CreateBatch(ctx context.Context, ts []Instance) error

	GetByID(ctx context.Context, id string) (Instance, error)
	Update(ctx context.Context, t Instance) error

	ListByLitter(ctx context.Context, litterID string) ([]Instance, error)
	DeleteByLitter(ctx context.Context, litterID string) (int, error)
}
