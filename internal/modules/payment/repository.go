package payment

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for the payment ledger.
type Repository interface {
	GetPayment(ctx context.Context, id string) (*Payment, error)
	ListByOrder(ctx context.Context, orderID string) ([]*Payment, error)
	GetOrderTotal(ctx context.Context, orderID string) (uuid.UUID, float64, error)

	// Mutate runs fn inside a transaction holding a row lock on the order,
	// so concurrent ledger mutations against the same order serialize.
	// Everything fn does — reads, the ledger write, and the paidAmount/
	// paymentStatus write-back — commits atomically, or not at all.
	Mutate(ctx context.Context, orderID string, fn func(tx MutationTx) error) error
}

// MutationTx is the view of one order's ledger inside a mutation
// transaction. The order row stays locked until the transaction ends.
type MutationTx interface {
	// Order returns the locked order's id and totalAmount.
	Order() (uuid.UUID, float64)
	// Ledger returns the order's live transactions, including writes made
	// earlier in this transaction.
	Ledger() ([]*Payment, error)
	Insert(p *Payment) error
	Update(p *Payment) error
	Delete(id uuid.UUID) error
	// SetOrderPayment writes the reconciled paidAmount and paymentStatus
	// back onto the order row.
	SetOrderPayment(paidAmount float64, status Status) error
}
