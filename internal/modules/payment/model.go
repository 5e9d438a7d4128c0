package payment

import (
	"time"

	"github.com/google/uuid"
)

// Type distinguishes money received from money returned.
type Type string

const (
	TypePayment Type = "payment"
	TypeRefund  Type = "refund"
)

// Method is how the money moved.
type Method string

const (
	MethodCash         Method = "cash"
	MethodBankTransfer Method = "bank_transfer"
	MethodMBWay        Method = "mbway"
)

// Status is the derived payment status of an order. It is a materialized
// view over the order's ledger and is only ever written by reconciliation.
type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

// Payment is one ledger row against an order: a payment or a refund.
// Deletion is permanent; there is no soft delete.
type Payment struct {
	ID      uuid.UUID `json:"id"`
	OrderID uuid.UUID `json:"order_id"`
	Type    Type      `json:"type"`
	Method  Method    `json:"method"`
	Amount  float64   `json:"amount"`
	// Reference is the external transfer identifier. Mandatory for bank
	// transfers.
	Reference string `json:"reference,omitempty"`
	Note      string `json:"note,omitempty"`
	// ProofImage is the uploaded proof payload. Mandatory for payments
	// received via bank transfer or MBWay.
	ProofImage     []byte    `json:"proof_image,omitempty"`
	ReceivedBy     uuid.UUID `json:"received_by"`
	ReceivedByName string    `json:"received_by_name"`
	ReceivedAt     time.Time `json:"received_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Summary is the reconciled payment state of one order.
type Summary struct {
	OrderID       uuid.UUID `json:"order_id"`
	TotalAmount   float64   `json:"total_amount"`
	PaidAmount    float64   `json:"paid_amount"`
	PaymentStatus Status    `json:"payment_status"`
	PaymentsTotal float64   `json:"payments_total"`
	RefundsTotal  float64   `json:"refunds_total"`
}

// AddPaymentRequest is the payload for recording a new ledger transaction.
type AddPaymentRequest struct {
	Type       string     `json:"type"`
	Method     string     `json:"method"`
	Amount     float64    `json:"amount"`
	Reference  string     `json:"reference,omitempty"`
	Note       string     `json:"note,omitempty"`
	ProofImage []byte     `json:"proof_image,omitempty"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
}

// EditPaymentRequest updates a subset of a transaction's fields. Nil fields
// keep their stored value.
type EditPaymentRequest struct {
	Type       *string    `json:"type,omitempty"`
	Method     *string    `json:"method,omitempty"`
	Amount     *float64   `json:"amount,omitempty"`
	Reference  *string    `json:"reference,omitempty"`
	Note       *string    `json:"note,omitempty"`
	ProofImage []byte     `json:"proof_image,omitempty"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
}
