// internal/domain/booking/repository.go
package booking

import "context"

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	FindByID(ctx context.Context, id string) (*Booking, error)
	Update(ctx context.Context, b *Booking) error
	List(ctx context.Context, filters *ListFilters) ([]Booking, int64, error)
	Delete(ctx context.Context, id string) error
}
