package payment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamendes/fornaria-backend/internal/apperr"
	"github.com/ritamendes/fornaria-backend/internal/modules/auth"
)

// ledgerStub is an in-memory Repository. Mutate works on a copy of the
// ledger and only commits when fn succeeds, mirroring the transactional
// behavior of the postgres implementation.
type ledgerStub struct {
	orderID uuid.UUID
	total   float64
	rows    []*Payment

	paid   float64
	status Status
	// stale, when set, is returned by GetPayment even though the row is no
	// longer in the ledger. Simulates a delete racing an edit.
	stale *Payment

	statusWrites int
}

func newLedgerStub(total float64, rows ...*Payment) *ledgerStub {
	return &ledgerStub{orderID: uuid.New(), total: total, rows: rows, status: StatusUnpaid}
}

func (s *ledgerStub) GetPayment(_ context.Context, id string) (*Payment, error) {
	if s.stale != nil && s.stale.ID.String() == id {
		return s.stale, nil
	}
	for _, p := range s.rows {
		if p.ID.String() == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("payment")
}

func (s *ledgerStub) ListByOrder(_ context.Context, orderID string) ([]*Payment, error) {
	if orderID != s.orderID.String() {
		return nil, apperr.NotFound("order")
	}
	return cloneLedger(s.rows), nil
}

func (s *ledgerStub) GetOrderTotal(_ context.Context, orderID string) (uuid.UUID, float64, error) {
	if orderID != s.orderID.String() {
		return uuid.Nil, 0, apperr.NotFound("order")
	}
	return s.orderID, s.total, nil
}

func (s *ledgerStub) Mutate(_ context.Context, orderID string, fn func(tx MutationTx) error) error {
	if orderID != s.orderID.String() {
		return apperr.NotFound("order")
	}
	tx := &ledgerStubTx{stub: s, rows: cloneLedger(s.rows)}
	if err := fn(tx); err != nil {
		return err
	}
	s.rows = tx.rows
	if tx.wrotePayment {
		s.paid = tx.paid
		s.status = tx.status
		s.statusWrites++
	}
	return nil
}

type ledgerStubTx struct {
	stub *ledgerStub
	rows []*Payment

	wrotePayment bool
	paid         float64
	status       Status
}

func (tx *ledgerStubTx) Order() (uuid.UUID, float64) {
	return tx.stub.orderID, tx.stub.total
}

func (tx *ledgerStubTx) Ledger() ([]*Payment, error) {
	return cloneLedger(tx.rows), nil
}

func (tx *ledgerStubTx) Insert(p *Payment) error {
	cp := *p
	tx.rows = append(tx.rows, &cp)
	return nil
}

func (tx *ledgerStubTx) Update(p *Payment) error {
	for i, row := range tx.rows {
		if row.ID == p.ID {
			cp := *p
			tx.rows[i] = &cp
			return nil
		}
	}
	return apperr.NotFound("payment")
}

func (tx *ledgerStubTx) Delete(id uuid.UUID) error {
	for i, row := range tx.rows {
		if row.ID == id {
			tx.rows = append(tx.rows[:i], tx.rows[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("payment")
}

func (tx *ledgerStubTx) SetOrderPayment(paidAmount float64, status Status) error {
	tx.wrotePayment = true
	tx.paid = paidAmount
	tx.status = status
	return nil
}

func cloneLedger(rows []*Payment) []*Payment {
	out := make([]*Payment, len(rows))
	for i, p := range rows {
		cp := *p
		out[i] = &cp
	}
	return out
}

func row(orderID uuid.UUID, t Type, amount float64) *Payment {
	return &Payment{ID: uuid.New(), OrderID: orderID, Type: t, Method: MethodCash, Amount: amount}
}

var teller = auth.Identity{ID: uuid.New(), Name: "Rita"}

func TestAdd_RecordsAndReconciles(t *testing.T) {
	stub := newLedgerStub(100)
	svc := NewService(stub)

	p, summary, err := svc.Add(context.Background(), stub.orderID.String(), AddPaymentRequest{
		Type: "payment", Method: "cash", Amount: 40,
	}, teller)
	require.NoError(t, err)

	assert.Equal(t, stub.orderID, p.OrderID)
	assert.Equal(t, teller.ID, p.ReceivedBy)
	assert.Equal(t, "Rita", p.ReceivedByName)
	assert.Equal(t, 40.0, summary.PaidAmount)
	assert.Equal(t, StatusPartial, summary.PaymentStatus)

	assert.Len(t, stub.rows, 1)
	assert.Equal(t, 40.0, stub.paid)
	assert.Equal(t, StatusPartial, stub.status)
	assert.Equal(t, 1, stub.statusWrites)
}

func TestAdd_FullAmountMarksPaid(t *testing.T) {
	stub := newLedgerStub(100)
	svc := NewService(stub)

	_, summary, err := svc.Add(context.Background(), stub.orderID.String(), AddPaymentRequest{
		Type: "payment", Method: "cash", Amount: 100,
	}, teller)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, summary.PaymentStatus)
	assert.Equal(t, StatusPaid, stub.status)
}

func TestAdd_RejectsAmountOverBalance(t *testing.T) {
	stub := newLedgerStub(100)
	stub.rows = []*Payment{row(stub.orderID, TypePayment, 80)}
	svc := NewService(stub)

	_, _, err := svc.Add(context.Background(), stub.orderID.String(), AddPaymentRequest{
		Type: "payment", Method: "cash", Amount: 30,
	}, teller)
	require.True(t, apperr.IsValidation(err))

	// Nothing committed.
	assert.Len(t, stub.rows, 1)
	assert.Equal(t, 0, stub.statusWrites)
}

func TestAdd_RejectsRefundOverNetPaid(t *testing.T) {
	stub := newLedgerStub(100)
	stub.rows = []*Payment{row(stub.orderID, TypePayment, 20)}
	svc := NewService(stub)

	_, _, err := svc.Add(context.Background(), stub.orderID.String(), AddPaymentRequest{
		Type: "refund", Method: "cash", Amount: 25,
	}, teller)
	require.True(t, apperr.IsValidation(err))
	assert.Len(t, stub.rows, 1)
}

func TestAdd_RefundUpToNetPaidAllowed(t *testing.T) {
	stub := newLedgerStub(100)
	stub.rows = []*Payment{row(stub.orderID, TypePayment, 20)}
	svc := NewService(stub)

	_, summary, err := svc.Add(context.Background(), stub.orderID.String(), AddPaymentRequest{
		Type: "refund", Method: "cash", Amount: 20,
	}, teller)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.PaidAmount)
	assert.Equal(t, StatusUnpaid, summary.PaymentStatus)
}

func TestAdd_ValidationRules(t *testing.T) {
	cases := []struct {
		name  string
		req   AddPaymentRequest
		field string
	}{
		{"unknown type", AddPaymentRequest{Type: "deposit", Method: "cash", Amount: 10}, "type"},
		{"unknown method", AddPaymentRequest{Type: "payment", Method: "cheque", Amount: 10}, "method"},
		{"zero amount", AddPaymentRequest{Type: "payment", Method: "cash", Amount: 0}, "amount"},
		{"negative amount", AddPaymentRequest{Type: "payment", Method: "cash", Amount: -5}, "amount"},
		{"bank transfer without reference", AddPaymentRequest{Type: "payment", Method: "bank_transfer", Amount: 10, ProofImage: []byte("img")}, "reference"},
		{"bank transfer payment without proof", AddPaymentRequest{Type: "payment", Method: "bank_transfer", Amount: 10, Reference: "TRF-1"}, "proof_image"},
		{"mbway payment without proof", AddPaymentRequest{Type: "payment", Method: "mbway", Amount: 10}, "proof_image"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := newLedgerStub(100)
			svc := NewService(stub)

			_, _, err := svc.Add(context.Background(), stub.orderID.String(), tc.req, teller)
			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperr.KindValidation, appErr.Kind)
			assert.Equal(t, tc.field, appErr.Field)
			assert.Empty(t, stub.rows)
		})
	}
}

func TestAdd_RefundNeedsNoProof(t *testing.T) {
	stub := newLedgerStub(100)
	stub.rows = []*Payment{row(stub.orderID, TypePayment, 50)}
	svc := NewService(stub)

	_, _, err := svc.Add(context.Background(), stub.orderID.String(), AddPaymentRequest{
		Type: "refund", Method: "mbway", Amount: 10,
	}, teller)
	assert.NoError(t, err)
}

func TestAdd_UnknownOrder(t *testing.T) {
	stub := newLedgerStub(100)
	svc := NewService(stub)

	_, _, err := svc.Add(context.Background(), uuid.NewString(), AddPaymentRequest{
		Type: "payment", Method: "cash", Amount: 10,
	}, teller)
	assert.True(t, apperr.IsNotFound(err))
}

func TestEdit_DoesNotCountAgainstItself(t *testing.T) {
	stub := newLedgerStub(100)
	existing := row(stub.orderID, TypePayment, 90)
	stub.rows = []*Payment{existing}
	svc := NewService(stub)

	// 90 -> 95 only fits if the old 90 is excluded from the balance check.
	amount := 95.0
	p, summary, err := svc.Edit(context.Background(), existing.ID.String(), EditPaymentRequest{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, 95.0, p.Amount)
	assert.Equal(t, 95.0, summary.PaidAmount)
	assert.Equal(t, StatusPartial, summary.PaymentStatus)
}

func TestEdit_RejectsAmountOverTotal(t *testing.T) {
	stub := newLedgerStub(100)
	existing := row(stub.orderID, TypePayment, 90)
	stub.rows = []*Payment{existing}
	svc := NewService(stub)

	amount := 120.0
	_, _, err := svc.Edit(context.Background(), existing.ID.String(), EditPaymentRequest{Amount: &amount})
	require.True(t, apperr.IsValidation(err))
	assert.Equal(t, 90.0, stub.rows[0].Amount)
}

func TestEdit_RejectsFlipToRefundBeyondPaid(t *testing.T) {
	stub := newLedgerStub(100)
	existing := row(stub.orderID, TypePayment, 50)
	stub.rows = []*Payment{existing}
	svc := NewService(stub)

	// The only payment becoming a refund would drive net paid to -50.
	refund := "refund"
	_, _, err := svc.Edit(context.Background(), existing.ID.String(), EditPaymentRequest{Type: &refund})
	require.True(t, apperr.IsValidation(err))
}

func TestEdit_RowDeletedUnderneath(t *testing.T) {
	stub := newLedgerStub(100)
	stub.stale = row(stub.orderID, TypePayment, 10)
	svc := NewService(stub)

	amount := 20.0
	_, _, err := svc.Edit(context.Background(), stub.stale.ID.String(), EditPaymentRequest{Amount: &amount})
	assert.True(t, apperr.IsNotFound(err))
}

func TestDelete_Reconciles(t *testing.T) {
	stub := newLedgerStub(100)
	pay := row(stub.orderID, TypePayment, 60)
	ref := row(stub.orderID, TypeRefund, 10)
	stub.rows = []*Payment{pay, ref}
	svc := NewService(stub)

	// Dropping the refund raises net paid back to 60.
	summary, err := svc.Delete(context.Background(), ref.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 60.0, summary.PaidAmount)
	assert.Equal(t, StatusPartial, summary.PaymentStatus)
	assert.Len(t, stub.rows, 1)

	// Dropping the payment empties the ledger.
	summary, err = svc.Delete(context.Background(), pay.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.PaidAmount)
	assert.Equal(t, StatusUnpaid, summary.PaymentStatus)
	assert.Empty(t, stub.rows)
}

func TestDelete_UnknownPayment(t *testing.T) {
	stub := newLedgerStub(100)
	svc := NewService(stub)

	_, err := svc.Delete(context.Background(), uuid.NewString())
	assert.True(t, apperr.IsNotFound(err))
}

func TestRecalculate_Idempotent(t *testing.T) {
	stub := newLedgerStub(100)
	stub.rows = []*Payment{
		row(stub.orderID, TypePayment, 30),
		row(stub.orderID, TypePayment, 25),
		row(stub.orderID, TypeRefund, 5),
	}
	// Stale persisted state; recalculation must correct it from the ledger.
	stub.paid = 99
	stub.status = StatusPaid
	svc := NewService(stub)

	first, err := svc.Recalculate(context.Background(), stub.orderID.String())
	require.NoError(t, err)
	assert.Equal(t, 50.0, first.PaidAmount)
	assert.Equal(t, StatusPartial, first.PaymentStatus)
	assert.Equal(t, 50.0, stub.paid)
	assert.Equal(t, StatusPartial, stub.status)

	second, err := svc.Recalculate(context.Background(), stub.orderID.String())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetSummary_DoesNotWrite(t *testing.T) {
	stub := newLedgerStub(80)
	stub.rows = []*Payment{row(stub.orderID, TypePayment, 30)}
	svc := NewService(stub)

	summary, err := svc.GetSummary(context.Background(), stub.orderID.String())
	require.NoError(t, err)
	assert.Equal(t, 80.0, summary.TotalAmount)
	assert.Equal(t, 30.0, summary.PaidAmount)
	assert.Equal(t, StatusPartial, summary.PaymentStatus)
	assert.Equal(t, 0, stub.statusWrites)
}
