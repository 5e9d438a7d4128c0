package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/ritamendes/fornaria-backend/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL catalog repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// ── product types ────────────────────────────────────────────────────────────

func (r *postgresRepo) CreateProduct(ctx context.Context, p *ProductType) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal("begin tx", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO product_types
		  (id, name, description, pricing_method, unit_price, price_per_kg,
		   min_quantity, max_quantity, min_weight, max_weight, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.Name, p.Description, p.PricingMethod, p.UnitPrice, p.PricePerKg,
		p.MinQuantity, p.MaxQuantity, p.MinWeight, p.MaxWeight, p.IsActive)
	if err != nil {
		return apperr.Internal("insert product type", err)
	}
	if err := insertShapeLinks(ctx, tx, p.ID, p.ShapeIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Internal("commit product type", err)
	}
	return nil
}

func (r *postgresRepo) GetProductByID(ctx context.Context, id string) (*ProductType, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("product")
	}
	p, err := scanProduct(r.db.QueryRowContext(ctx, `
		SELECT id, name, description, pricing_method, unit_price, price_per_kg,
		       min_quantity, max_quantity, min_weight, max_weight, is_active,
		       created_at, updated_at
		FROM product_types WHERE id=$1`, uid).Scan)
	if err != nil {
		return nil, err
	}
	p.ShapeIDs, err = r.listShapeLinks(ctx, p.ID)
	return p, err
}

func (r *postgresRepo) ListProducts(ctx context.Context, activeOnly bool) ([]*ProductType, error) {
	query := `SELECT id, name, description, pricing_method, unit_price, price_per_kg,
	                 min_quantity, max_quantity, min_weight, max_weight, is_active,
	                 created_at, updated_at
	          FROM product_types`
	if activeOnly {
		query += ` WHERE is_active=true`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperr.Internal("list product types", err)
	}
	defer rows.Close()

	var products []*ProductType
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("list product types", err)
	}
	for _, p := range products {
		if p.ShapeIDs, err = r.listShapeLinks(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (r *postgresRepo) UpdateProduct(ctx context.Context, p *ProductType) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal("begin tx", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE product_types
		SET name=$1, description=$2, pricing_method=$3, unit_price=$4, price_per_kg=$5,
		    min_quantity=$6, max_quantity=$7, min_weight=$8, max_weight=$9,
		    is_active=$10, updated_at=NOW()
		WHERE id=$11`,
		p.Name, p.Description, p.PricingMethod, p.UnitPrice, p.PricePerKg,
		p.MinQuantity, p.MaxQuantity, p.MinWeight, p.MaxWeight, p.IsActive, p.ID)
	if err != nil {
		return apperr.Internal("update product type", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("product")
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM product_type_shapes WHERE product_type_id=$1`, p.ID); err != nil {
		return apperr.Internal("clear shape links", err)
	}
	if err := insertShapeLinks(ctx, tx, p.ID, p.ShapeIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Internal("commit product type", err)
	}
	return nil
}

// ── flavor types ─────────────────────────────────────────────────────────────

func (r *postgresRepo) CreateFlavor(ctx context.Context, f *FlavorType) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO flavor_types
		  (id, name, has_extra_price, extra_price_per_unit, extra_price_per_kg, is_active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		f.ID, f.Name, f.HasExtraPrice, f.ExtraPricePerUnit, f.ExtraPricePerKg, f.IsActive)
	if err != nil {
		return apperr.Internal("insert flavor type", err)
	}
	return nil
}

func (r *postgresRepo) GetFlavorByID(ctx context.Context, id string) (*FlavorType, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("flavor")
	}
	return scanFlavor(r.db.QueryRowContext(ctx, `
		SELECT id, name, has_extra_price, extra_price_per_unit, extra_price_per_kg,
		       is_active, created_at, updated_at
		FROM flavor_types WHERE id=$1`, uid).Scan)
}

func (r *postgresRepo) ListFlavors(ctx context.Context, activeOnly bool) ([]*FlavorType, error) {
	query := `SELECT id, name, has_extra_price, extra_price_per_unit, extra_price_per_kg,
	                 is_active, created_at, updated_at
	          FROM flavor_types`
	if activeOnly {
		query += ` WHERE is_active=true`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperr.Internal("list flavor types", err)
	}
	defer rows.Close()

	var flavors []*FlavorType
	for rows.Next() {
		f, err := scanFlavor(rows.Scan)
		if err != nil {
			return nil, err
		}
		flavors = append(flavors, f)
	}
	return flavors, rows.Err()
}

func (r *postgresRepo) UpdateFlavor(ctx context.Context, f *FlavorType) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE flavor_types
		SET name=$1, has_extra_price=$2, extra_price_per_unit=$3,
		    extra_price_per_kg=$4, is_active=$5, updated_at=NOW()
		WHERE id=$6`,
		f.Name, f.HasExtraPrice, f.ExtraPricePerUnit, f.ExtraPricePerKg, f.IsActive, f.ID)
	if err != nil {
		return apperr.Internal("update flavor type", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("flavor")
	}
	return nil
}

// ── cake shapes ──────────────────────────────────────────────────────────────

func (r *postgresRepo) CreateShape(ctx context.Context, s *CakeShape) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cake_shapes (id, name, is_active) VALUES ($1,$2,$3)`,
		s.ID, s.Name, s.IsActive)
	if err != nil {
		return apperr.Internal("insert cake shape", err)
	}
	return nil
}

func (r *postgresRepo) GetShapeByID(ctx context.Context, id string) (*CakeShape, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("shape")
	}
	s := &CakeShape{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, name, is_active, created_at, updated_at
		FROM cake_shapes WHERE id=$1`, uid).
		Scan(&s.ID, &s.Name, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("shape")
	}
	if err != nil {
		return nil, apperr.Internal("scan cake shape", err)
	}
	return s, nil
}

func (r *postgresRepo) ListShapes(ctx context.Context, activeOnly bool) ([]*CakeShape, error) {
	query := `SELECT id, name, is_active, created_at, updated_at FROM cake_shapes`
	if activeOnly {
		query += ` WHERE is_active=true`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperr.Internal("list cake shapes", err)
	}
	defer rows.Close()

	var shapes []*CakeShape
	for rows.Next() {
		s := &CakeShape{}
		if err := rows.Scan(&s.ID, &s.Name, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, apperr.Internal("scan cake shape", err)
		}
		shapes = append(shapes, s)
	}
	return shapes, rows.Err()
}

// ── availability ─────────────────────────────────────────────────────────────

func (r *postgresRepo) SetAvailability(ctx context.Context, a *FlavorAvailability) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO product_flavor_availability (product_type_id, flavor_id, is_available)
		VALUES ($1,$2,$3)
		ON CONFLICT (product_type_id, flavor_id) DO UPDATE SET is_available=$3`,
		a.ProductTypeID, a.FlavorID, a.IsAvailable)
	if err != nil {
		return apperr.Internal("set availability", err)
	}
	return nil
}

func (r *postgresRepo) IsFlavorAvailable(ctx context.Context, productTypeID, flavorID string) (bool, error) {
	var available bool
	err := r.db.QueryRowContext(ctx, `
		SELECT is_available FROM product_flavor_availability
		WHERE product_type_id=$1 AND flavor_id=$2`, productTypeID, flavorID).
		Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Internal("check availability", err)
	}
	return available, nil
}

func (r *postgresRepo) ListAvailability(ctx context.Context, productTypeID string) ([]*FlavorAvailability, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_type_id, flavor_id, is_available
		FROM product_flavor_availability WHERE product_type_id=$1`, productTypeID)
	if err != nil {
		return nil, apperr.Internal("list availability", err)
	}
	defer rows.Close()

	var entries []*FlavorAvailability
	for rows.Next() {
		a := &FlavorAvailability{}
		if err := rows.Scan(&a.ProductTypeID, &a.FlavorID, &a.IsAvailable); err != nil {
			return nil, apperr.Internal("scan availability", err)
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

// ── helpers ──────────────────────────────────────────────────────────────────

func insertShapeLinks(ctx context.Context, tx *sql.Tx, productID uuid.UUID, shapeIDs []uuid.UUID) error {
	for _, shapeID := range shapeIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO product_type_shapes (product_type_id, shape_id) VALUES ($1,$2)`,
			productID, shapeID)
		if err != nil {
			return apperr.Internal("insert shape link", err)
		}
	}
	return nil
}

func (r *postgresRepo) listShapeLinks(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT shape_id FROM product_type_shapes WHERE product_type_id=$1`, productID)
	if err != nil {
		return nil, apperr.Internal("list shape links", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Internal("scan shape link", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanProduct(scan func(...interface{}) error) (*ProductType, error) {
	p := &ProductType{}
	err := scan(&p.ID, &p.Name, &p.Description, &p.PricingMethod, &p.UnitPrice, &p.PricePerKg,
		&p.MinQuantity, &p.MaxQuantity, &p.MinWeight, &p.MaxWeight, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("product")
	}
	if err != nil {
		return nil, apperr.Internal("scan product type", err)
	}
	return p, nil
}

func scanFlavor(scan func(...interface{}) error) (*FlavorType, error) {
	f := &FlavorType{}
	err := scan(&f.ID, &f.Name, &f.HasExtraPrice, &f.ExtraPricePerUnit, &f.ExtraPricePerKg,
		&f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("flavor")
	}
	if err != nil {
		return nil, apperr.Internal("scan flavor type", err)
	}
	return f, nil
}
