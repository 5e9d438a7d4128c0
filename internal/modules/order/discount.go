package order

import (
	"context"

	"github.com/ritamendes/fornaria-backend/internal/modules/customer"
	"github.com/ritamendes/fornaria-backend/internal/money"
)

// loyaltyDiscountRate is the flat discount applied to returning customers.
const loyaltyDiscountRate = 0.10

// Customers is the customer contract the order module consumes.
// Implemented by the customer service.
type Customers interface {
	GetCustomer(ctx context.Context, id string) (*customer.Customer, error)
	HasAnyOrder(ctx context.Context, customerID string) (bool, error)
}

// loyaltyDiscount returns the discount for the customer: 10% of the
// subtotal once the customer has at least one prior order of any status,
// zero otherwise.
func loyaltyDiscount(ctx context.Context, customers Customers, customerID string, subTotal float64) (float64, error) {
	hasPrior, err := customers.HasAnyOrder(ctx, customerID)
	if err != nil {
		return 0, err
	}
	if !hasPrior {
		return 0, nil
	}
	return money.Round2(subTotal * loyaltyDiscountRate), nil
}
