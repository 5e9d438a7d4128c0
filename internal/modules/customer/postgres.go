package customer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/ritamendes/fornaria-backend/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL customer repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, c *Customer) error {
	addresses, err := json.Marshal(c.Addresses)
	if err != nil {
		return apperr.Internal("marshal addresses", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, phone, email, addresses, notes)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.Name, c.Phone, c.Email, addresses, c.Notes)
	if err != nil {
		return apperr.Internal("insert customer", err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Customer, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("customer")
	}
	return scanCustomer(r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, email, addresses, notes, created_at, updated_at
		FROM customers WHERE id=$1`, uid).Scan)
}

func (r *postgresRepo) List(ctx context.Context, search string) ([]*Customer, error) {
	query := `SELECT id, name, phone, email, addresses, notes, created_at, updated_at
	          FROM customers`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE name ILIKE $1 OR phone ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal("list customers", err)
	}
	defer rows.Close()

	var customers []*Customer
	for rows.Next() {
		c, err := scanCustomer(rows.Scan)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, c *Customer) error {
	addresses, err := json.Marshal(c.Addresses)
	if err != nil {
		return apperr.Internal("marshal addresses", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET name=$1, phone=$2, email=$3, addresses=$4, notes=$5, updated_at=NOW()
		WHERE id=$6`,
		c.Name, c.Phone, c.Email, addresses, c.Notes, c.ID)
	if err != nil {
		return apperr.Internal("update customer", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("customer")
	}
	return nil
}

func (r *postgresRepo) HasAnyOrder(ctx context.Context, customerID string) (bool, error) {
	uid, err := uuid.Parse(customerID)
	if err != nil {
		return false, apperr.NotFound("customer")
	}
	var exists bool
	err = r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE customer_id=$1)`, uid).Scan(&exists)
	if err != nil {
		return false, apperr.Internal("check prior orders", err)
	}
	return exists, nil
}

func scanCustomer(scan func(...interface{}) error) (*Customer, error) {
	c := &Customer{}
	var addresses []byte
	err := scan(&c.ID, &c.Name, &c.Phone, &c.Email, &addresses, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("customer")
	}
	if err != nil {
		return nil, apperr.Internal("scan customer", err)
	}
	if len(addresses) > 0 {
		if err := json.Unmarshal(addresses, &c.Addresses); err != nil {
			return nil, apperr.Internal("unmarshal addresses", err)
		}
	}
	return c, nil
}
