package medications

import "context"

type Repository interface {
	Create(ctx context.Context, m Medication) error
	GetByID(ctx context.Context, id string) (Medication, error)
	ListByDog(ctx context.Context, dogID string) ([]Medication, error)
	Update(ctx context.Context, m Medication) error
	Delete(ctx context.Context, id string) error

	// DeleteByDog borra todos los registros de un perro (cascada al borrar el perro).
	DeleteByDog(ctx context.Context, dogID string) error
}
