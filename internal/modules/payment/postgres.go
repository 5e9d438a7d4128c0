package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ritamendes/fornaria-backend/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL ledger repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const paymentColumns = `id, order_id, type, method, amount, reference, note,
	proof_image, received_by, received_by_name, received_at, created_at, updated_at`

func (r *postgresRepo) GetPayment(ctx context.Context, id string) (*Payment, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("payment")
	}
	return scanPayment(r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id=$1`, uid).Scan)
}

func (r *postgresRepo) ListByOrder(ctx context.Context, orderID string) ([]*Payment, error) {
	uid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperr.NotFound("order")
	}
	return queryPayments(ctx, r.db, uid)
}

func (r *postgresRepo) GetOrderTotal(ctx context.Context, orderID string) (uuid.UUID, float64, error) {
	uid, err := uuid.Parse(orderID)
	if err != nil {
		return uuid.Nil, 0, apperr.NotFound("order")
	}
	var total float64
	err = r.db.QueryRowContext(ctx,
		`SELECT total_amount FROM orders WHERE id=$1`, uid).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, 0, apperr.NotFound("order")
	}
	if err != nil {
		return uuid.Nil, 0, apperr.Internal("load order total", err)
	}
	return uid, total, nil
}

func (r *postgresRepo) Mutate(ctx context.Context, orderID string, fn func(tx MutationTx) error) error {
	uid, err := uuid.Parse(orderID)
	if err != nil {
		return apperr.NotFound("order")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal("begin tx", err)
	}
	defer tx.Rollback()

	// Row lock: concurrent mutations of the same order's ledger queue up
	// here so the balance check always sees the committed ledger.
	var total float64
	err = tx.QueryRowContext(ctx,
		`SELECT total_amount FROM orders WHERE id=$1 FOR UPDATE`, uid).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("order")
	}
	if err != nil {
		return translatePQ("lock order", err)
	}

	if err := fn(&mutationTx{ctx: ctx, tx: tx, orderID: uid, total: total}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return translatePQ("commit ledger mutation", err)
	}
	return nil
}

type mutationTx struct {
	ctx     context.Context
	tx      *sql.Tx
	orderID uuid.UUID
	total   float64
}

func (m *mutationTx) Order() (uuid.UUID, float64) { return m.orderID, m.total }

func (m *mutationTx) Ledger() ([]*Payment, error) {
	return queryPayments(m.ctx, m.tx, m.orderID)
}

func (m *mutationTx) Insert(p *Payment) error {
	_, err := m.tx.ExecContext(m.ctx, `
		INSERT INTO payments
		  (id, order_id, type, method, amount, reference, note, proof_image,
		   received_by, received_by_name, received_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.OrderID, p.Type, p.Method, p.Amount, p.Reference, p.Note,
		p.ProofImage, p.ReceivedBy, p.ReceivedByName, p.ReceivedAt)
	if err != nil {
		return translatePQ("insert payment", err)
	}
	return nil
}

func (m *mutationTx) Update(p *Payment) error {
	res, err := m.tx.ExecContext(m.ctx, `
		UPDATE payments
		SET type=$1, method=$2, amount=$3, reference=$4, note=$5,
		    proof_image=$6, received_at=$7, updated_at=NOW()
		WHERE id=$8`,
		p.Type, p.Method, p.Amount, p.Reference, p.Note,
		p.ProofImage, p.ReceivedAt, p.ID)
	if err != nil {
		return translatePQ("update payment", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("payment")
	}
	return nil
}

func (m *mutationTx) Delete(id uuid.UUID) error {
	res, err := m.tx.ExecContext(m.ctx, `DELETE FROM payments WHERE id=$1`, id)
	if err != nil {
		return translatePQ("delete payment", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("payment")
	}
	return nil
}

func (m *mutationTx) SetOrderPayment(paidAmount float64, status Status) error {
	_, err := m.tx.ExecContext(m.ctx, `
		UPDATE orders SET paid_amount=$1, payment_status=$2, updated_at=NOW()
		WHERE id=$3`,
		paidAmount, status, m.orderID)
	if err != nil {
		return translatePQ("write back payment status", err)
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func queryPayments(ctx context.Context, q querier, orderID uuid.UUID) ([]*Payment, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE order_id=$1 ORDER BY received_at ASC, created_at ASC`,
		orderID)
	if err != nil {
		return nil, translatePQ("list payments", err)
	}
	defer rows.Close()

	var payments []*Payment
	for rows.Next() {
		p, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func scanPayment(scan func(...interface{}) error) (*Payment, error) {
	p := &Payment{}
	err := scan(&p.ID, &p.OrderID, &p.Type, &p.Method, &p.Amount, &p.Reference, &p.Note,
		&p.ProofImage, &p.ReceivedBy, &p.ReceivedByName, &p.ReceivedAt,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("payment")
	}
	if err != nil {
		return nil, apperr.Internal("scan payment", err)
	}
	return p, nil
}

// translatePQ maps lost lock/serialization races to Conflict so callers can
// retry; everything else stays internal.
func translatePQ(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "serialization_failure", "deadlock_detected", "lock_not_available":
			return apperr.Conflict("concurrent ledger mutation, retry")
		}
	}
	return apperr.Internal(op, err)
}
