package order

import "context"

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists a new order and its items atomically in a transaction.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves an order with its items by UUID.
	GetOrderByID(ctx context.Context, id string) (*Order, error)

	// GetOrderByNumber retrieves an order by its human-readable order number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListOrders returns all orders, optionally filtered by workflow status.
	ListOrders(ctx context.Context, status string) ([]*Order, error)

	// ListOrdersByCustomer returns all orders placed for a specific customer.
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]*Order, error)

	// UpdateStatus advances an order to a new workflow status.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// NumberExists reports whether an order already uses the given number.
	NumberExists(ctx context.Context, orderNumber string) (bool, error)
}
