package catalog

import "context"

// Record is a pointer to a catalog row that can take the id from the URL.
type Record[T any] interface {
	*T
	SetID(id int64)
}

type Repository[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, entity *T) error
	// Update returns false when no row has the entity's id.
	Update(ctx context.Context, entity *T) (bool, error)
	Delete(ctx context.Context, id int64) error
	// InUse reports whether other rows still reference id.
	InUse(ctx context.Context, id int64) (bool, error)
}
