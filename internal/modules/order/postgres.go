package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ritamendes/fornaria-backend/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `id, order_number, customer_id, customer_name, customer_phone,
	customer_email, delivery_method, delivery_address, fulfill_at, notes,
	sub_total, discount, total_amount, paid_amount, payment_status, status,
	created_by, created_at, updated_at`

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal("begin tx", err)
	}
	defer tx.Rollback()

	var address interface{}
	if o.DeliveryAddress != nil {
		address, err = json.Marshal(o.DeliveryAddress)
		if err != nil {
			return apperr.Internal("marshal delivery address", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, order_number, customer_id, customer_name, customer_phone, customer_email,
		   delivery_method, delivery_address, fulfill_at, notes,
		   sub_total, discount, total_amount, paid_amount, payment_status, status, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		o.ID, o.OrderNumber, o.CustomerID, o.CustomerName, o.CustomerPhone, o.CustomerEmail,
		o.DeliveryMethod, address, o.FulfillAt, o.Notes,
		o.SubTotal, o.Discount, o.TotalAmount, o.PaidAmount, o.PaymentStatus, o.Status, o.CreatedBy)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return apperr.Conflict("order number already taken, retry")
		}
		return apperr.Internal("insert order", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, product_type_id, product_name, flavor_id, flavor_name,
			   shape_id, shape_name, pricing_method, quantity, weight,
			   unit_base_price, flavor_extra_price, line_total, special_instructions)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
			item.ID, o.ID, item.ProductTypeID, item.ProductName, item.FlavorID, item.FlavorName,
			item.ShapeID, item.ShapeName, item.PricingMethod, item.Quantity, item.Weight,
			item.UnitBasePrice, item.FlavorExtraPrice, item.LineTotal, item.SpecialInstructions)
		if err != nil {
			return apperr.Internal("insert order item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Internal("commit order", err)
	}
	return nil
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("order")
	}
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, uid).Scan)
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_number=$1`, orderNumber).Scan)
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) ListOrders(ctx context.Context, status string) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status=$1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, args...)
}

func (r *postgresRepo) ListOrdersByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	uid, err := uuid.Parse(customerID)
	if err != nil {
		return nil, apperr.NotFound("customer")
	}
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id=$1 ORDER BY created_at DESC`, uid)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("order")
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`, status, uid)
	if err != nil {
		return apperr.Internal("update order status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("order")
	}
	return nil
}

func (r *postgresRepo) NumberExists(ctx context.Context, orderNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE order_number=$1)`, orderNumber).Scan(&exists)
	if err != nil {
		return false, apperr.Internal("check order number", err)
	}
	return exists, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{}
	var address []byte
	err := scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerName, &o.CustomerPhone,
		&o.CustomerEmail, &o.DeliveryMethod, &address, &o.FulfillAt, &o.Notes,
		&o.SubTotal, &o.Discount, &o.TotalAmount, &o.PaidAmount, &o.PaymentStatus, &o.Status,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("order")
	}
	if err != nil {
		return nil, apperr.Internal("scan order", err)
	}
	if len(address) > 0 {
		o.DeliveryAddress = &DeliveryAddress{}
		if err := json.Unmarshal(address, o.DeliveryAddress); err != nil {
			return nil, apperr.Internal("unmarshal delivery address", err)
		}
	}
	return o, nil
}

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal("list orders", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("list orders", err)
	}
	for _, o := range orders {
		if o.Items, err = r.listItems(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *postgresRepo) listItems(ctx context.Context, orderID uuid.UUID) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_type_id, product_name, flavor_id, flavor_name,
		       shape_id, shape_name, pricing_method, quantity, weight,
		       unit_base_price, flavor_extra_price, line_total, special_instructions
		FROM order_items WHERE order_id=$1 ORDER BY product_name ASC`, orderID)
	if err != nil {
		return nil, apperr.Internal("list order items", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item := &Item{}
		var shapeID uuid.NullUUID
		var quantity sql.NullInt64
		var weight sql.NullFloat64
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductTypeID, &item.ProductName,
			&item.FlavorID, &item.FlavorName, &shapeID, &item.ShapeName,
			&item.PricingMethod, &quantity, &weight,
			&item.UnitBasePrice, &item.FlavorExtraPrice, &item.LineTotal,
			&item.SpecialInstructions); err != nil {
			return nil, apperr.Internal("scan order item", err)
		}
		if shapeID.Valid {
			id := shapeID.UUID
			item.ShapeID = &id
		}
		if quantity.Valid {
			q := int(quantity.Int64)
			item.Quantity = &q
		}
		if weight.Valid {
			w := weight.Float64
			item.Weight = &w
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
