package payment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ritamendes/fornaria-backend/internal/apperr"
	"github.com/ritamendes/fornaria-backend/internal/modules/auth"
	"github.com/ritamendes/fornaria-backend/internal/money"
)

// Service defines payment-ledger business logic. Every mutation reconciles
// the order's paidAmount/paymentStatus in the same transaction, so a reader
// of the order never observes a stale payment status after a write returns.
type Service interface {
	Add(ctx context.Context, orderID string, req AddPaymentRequest, receivedBy auth.Identity) (*Payment, *Summary, error)
	Edit(ctx context.Context, paymentID string, req EditPaymentRequest) (*Payment, *Summary, error)
	Delete(ctx context.Context, paymentID string) (*Summary, error)
	ListByOrder(ctx context.Context, orderID string) ([]*Payment, error)
	GetSummary(ctx context.Context, orderID string) (*Summary, error)
	// Recalculate re-derives and persists the order's payment state from
	// the ledger alone. Idempotent; safe to call at any time.
	Recalculate(ctx context.Context, orderID string) (*Summary, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new payment-ledger service.
func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Add(ctx context.Context, orderID string, req AddPaymentRequest, receivedBy auth.Identity) (*Payment, *Summary, error) {
	txType := Type(strings.ToLower(req.Type))
	method := Method(strings.ToLower(req.Method))
	if err := validateTransaction(txType, method, req.Amount, req.Reference, req.ProofImage); err != nil {
		return nil, nil, err
	}

	receivedAt := s.now()
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}

	var created *Payment
	var summary *Summary
	err := s.repo.Mutate(ctx, orderID, func(tx MutationTx) error {
		oid, total := tx.Order()
		ledger, err := tx.Ledger()
		if err != nil {
			return err
		}

		netPaid := money.Net(LedgerTotals(ledger))
		if txType == TypePayment && money.Exceeds(netPaid+req.Amount, total) {
			return apperr.Validation("amount", "amount exceeds remaining balance")
		}
		if txType == TypeRefund && money.Exceeds(req.Amount, netPaid) {
			return apperr.Validation("amount", "refund exceeds amount paid")
		}

		created = &Payment{
			ID:             uuid.New(),
			OrderID:        oid,
			Type:           txType,
			Method:         method,
			Amount:         money.Round2(req.Amount),
			Reference:      strings.TrimSpace(req.Reference),
			Note:           req.Note,
			ProofImage:     req.ProofImage,
			ReceivedBy:     receivedBy.ID,
			ReceivedByName: receivedBy.Name,
			ReceivedAt:     receivedAt,
		}
		if err := tx.Insert(created); err != nil {
			return err
		}
		summary, err = reconcile(tx)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return created, summary, nil
}

func (s *service) Edit(ctx context.Context, paymentID string, req EditPaymentRequest) (*Payment, *Summary, error) {
	existing, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}

	var updated *Payment
	var summary *Summary
	err = s.repo.Mutate(ctx, existing.OrderID.String(), func(tx MutationTx) error {
		_, total := tx.Order()
		ledger, err := tx.Ledger()
		if err != nil {
			return err
		}

		// Re-read inside the lock; the row may have been deleted since.
		old := findPayment(ledger, existing.ID)
		if old == nil {
			return apperr.NotFound("payment")
		}

		next := *old
		applyEdit(&next, req)
		if err := validateTransaction(next.Type, next.Method, next.Amount, next.Reference, next.ProofImage); err != nil {
			return err
		}

		// The edited row must not count against itself: remove the old
		// contribution before adding the new one.
		currentNet := money.Net(LedgerTotals(ledger))
		recalcNet := currentNet - signedAmount(old.Type, old.Amount) + signedAmount(next.Type, next.Amount)
		if recalcNet < -money.Epsilon {
			return apperr.Validation("amount", "refund exceeds amount paid")
		}
		if money.Exceeds(recalcNet, total) {
			return apperr.Validation("amount", "amount exceeds remaining balance")
		}

		if err := tx.Update(&next); err != nil {
			return err
		}
		updated = &next
		summary, err = reconcile(tx)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, summary, nil
}

func (s *service) Delete(ctx context.Context, paymentID string) (*Summary, error) {
	existing, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	// Removing a payment only lowers net paid, removing a refund only
	// raises it; neither can violate the balance bounds.
	var summary *Summary
	err = s.repo.Mutate(ctx, existing.OrderID.String(), func(tx MutationTx) error {
		if err := tx.Delete(existing.ID); err != nil {
			return err
		}
		var err error
		summary, err = reconcile(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID string) ([]*Payment, error) {
	if _, _, err := s.repo.GetOrderTotal(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.ListByOrder(ctx, orderID)
}

func (s *service) GetSummary(ctx context.Context, orderID string) (*Summary, error) {
	oid, total, err := s.repo.GetOrderTotal(ctx, orderID)
	if err != nil {
		return nil, err
	}
	ledger, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return summarize(oid, total, ledger), nil
}

func (s *service) Recalculate(ctx context.Context, orderID string) (*Summary, error) {
	var summary *Summary
	err := s.repo.Mutate(ctx, orderID, func(tx MutationTx) error {
		var err error
		summary, err = reconcile(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// reconcile re-derives the order's payment state from the live ledger and
// writes it back. Always a full re-derivation, never an incremental adjust.
func reconcile(tx MutationTx) (*Summary, error) {
	oid, total := tx.Order()
	ledger, err := tx.Ledger()
	if err != nil {
		return nil, err
	}
	summary := summarize(oid, total, ledger)
	if err := tx.SetOrderPayment(summary.PaidAmount, summary.PaymentStatus); err != nil {
		return nil, err
	}
	return summary, nil
}

func validateTransaction(t Type, m Method, amount float64, reference string, proof []byte) error {
	switch t {
	case TypePayment, TypeRefund:
	default:
		return apperr.Validationf("type", "unknown transaction type %q", string(t))
	}
	switch m {
	case MethodCash, MethodBankTransfer, MethodMBWay:
	default:
		return apperr.Validationf("method", "unknown payment method %q", string(m))
	}
	if amount <= 0 {
		return apperr.Validation("amount", "amount must be greater than 0")
	}
	if m == MethodBankTransfer && strings.TrimSpace(reference) == "" {
		return apperr.Validation("reference", "reference is required for bank transfers")
	}
	if t == TypePayment && (m == MethodBankTransfer || m == MethodMBWay) && len(proof) == 0 {
		return apperr.Validation("proof_image", "proof is required for bank transfer and mbway payments")
	}
	return nil
}

func applyEdit(p *Payment, req EditPaymentRequest) {
	if req.Type != nil {
		p.Type = Type(strings.ToLower(*req.Type))
	}
	if req.Method != nil {
		p.Method = Method(strings.ToLower(*req.Method))
	}
	if req.Amount != nil {
		p.Amount = money.Round2(*req.Amount)
	}
	if req.Reference != nil {
		p.Reference = strings.TrimSpace(*req.Reference)
	}
	if req.Note != nil {
		p.Note = *req.Note
	}
	if len(req.ProofImage) > 0 {
		p.ProofImage = req.ProofImage
	}
	if req.ReceivedAt != nil {
		p.ReceivedAt = *req.ReceivedAt
	}
}

func findPayment(ledger []*Payment, id uuid.UUID) *Payment {
	for _, p := range ledger {
		if p.ID == id {
			return p
		}
	}
	return nil
}
