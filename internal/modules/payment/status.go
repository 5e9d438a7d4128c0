package payment

import (
	"github.com/google/uuid"

	"github.com/ritamendes/fornaria-backend/internal/money"
)

// ResolveStatus derives the payment status from the order total and the
// net paid amount. Over-payment still reports paid; there is no fourth state.
func ResolveStatus(totalAmount, paidAmount float64) Status {
	switch {
	case paidAmount <= 0:
		return StatusUnpaid
	case paidAmount >= totalAmount:
		return StatusPaid
	default:
		return StatusPartial
	}
}

// LedgerTotals folds a ledger snapshot into its payments and refunds
// totals, each independently rounded to cents.
func LedgerTotals(ledger []*Payment) (paymentsTotal, refundsTotal float64) {
	for _, p := range ledger {
		switch p.Type {
		case TypeRefund:
			refundsTotal += p.Amount
		default:
			paymentsTotal += p.Amount
		}
	}
	return money.Round2(paymentsTotal), money.Round2(refundsTotal)
}

// signedAmount is the ledger contribution of a transaction: positive for
// payments, negative for refunds.
func signedAmount(t Type, amount float64) float64 {
	if t == TypeRefund {
		return -amount
	}
	return amount
}

// summarize re-derives the full reconciled state from a ledger snapshot.
// It is the single source of truth for paidAmount and paymentStatus;
// cached values on the order are never an input.
func summarize(orderID uuid.UUID, totalAmount float64, ledger []*Payment) *Summary {
	paymentsTotal, refundsTotal := LedgerTotals(ledger)
	netPaid := money.Net(paymentsTotal, refundsTotal)
	return &Summary{
		OrderID:       orderID,
		TotalAmount:   totalAmount,
		PaidAmount:    netPaid,
		PaymentStatus: ResolveStatus(totalAmount, netPaid),
		PaymentsTotal: paymentsTotal,
		RefundsTotal:  refundsTotal,
	}
}
