package customer

import "context"

// Repository defines data access for customer records.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, search string) ([]*Customer, error)
	Update(ctx context.Context, c *Customer) error

	// HasAnyOrder reports whether at least one order exists for the
	// customer, regardless of its status. Drives the loyalty discount.
	HasAnyOrder(ctx context.Context, customerID string) (bool, error)
}
