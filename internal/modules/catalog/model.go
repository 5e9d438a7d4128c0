package catalog

import (
	"time"

	"github.com/google/uuid"
)

// PricingMethod determines how a product type is priced: by unit count or
// by weight in kilograms. The method dictates which measure an order line
// must carry.
type PricingMethod string

const (
	PerUnit PricingMethod = "perunit"
	PerKg   PricingMethod = "perkg"
)

// ProductType is a sellable bakery product (cake, tray of pastries, bread).
type ProductType struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	PricingMethod PricingMethod `json:"pricing_method"`
	UnitPrice     float64       `json:"unit_price,omitempty"`   // perunit
	PricePerKg    float64       `json:"price_per_kg,omitempty"` // perkg
	MinQuantity   *int          `json:"min_quantity,omitempty"`
	MaxQuantity   *int          `json:"max_quantity,omitempty"`
	MinWeight     *float64      `json:"min_weight,omitempty"`
	MaxWeight     *float64      `json:"max_weight,omitempty"`
	// ShapeIDs lists the cake shapes this product can be made in. An empty
	// list means the product has no shape and orders must not pick one.
	ShapeIDs  []uuid.UUID `json:"shape_ids,omitempty"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// AllowsShape reports whether the shape is one of the product's declared shapes.
func (p *ProductType) AllowsShape(shapeID uuid.UUID) bool {
	for _, id := range p.ShapeIDs {
		if id == shapeID {
			return true
		}
	}
	return false
}

// FlavorType is a filling/flavor a product can be made with, optionally
// carrying an extra price on top of the product's base price.
type FlavorType struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	HasExtraPrice     bool      `json:"has_extra_price"`
	ExtraPricePerUnit float64   `json:"extra_price_per_unit,omitempty"`
	ExtraPricePerKg   float64   `json:"extra_price_per_kg,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CakeShape is a mould/shape cakes can be baked in.
type CakeShape struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FlavorAvailability marks whether a flavor can be ordered for a product.
type FlavorAvailability struct {
	ProductTypeID uuid.UUID `json:"product_type_id"`
	FlavorID      uuid.UUID `json:"flavor_id"`
	IsAvailable   bool      `json:"is_available"`
}

// UpsertProductRequest holds the data for creating or updating a product type.
type UpsertProductRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	PricingMethod string   `json:"pricing_method"`
	UnitPrice     float64  `json:"unit_price"`
	PricePerKg    float64  `json:"price_per_kg"`
	MinQuantity   *int     `json:"min_quantity"`
	MaxQuantity   *int     `json:"max_quantity"`
	MinWeight     *float64 `json:"min_weight"`
	MaxWeight     *float64 `json:"max_weight"`
	ShapeIDs      []string `json:"shape_ids"`
}

// UpsertFlavorRequest holds the data for creating or updating a flavor type.
type UpsertFlavorRequest struct {
	Name              string  `json:"name"`
	HasExtraPrice     bool    `json:"has_extra_price"`
	ExtraPricePerUnit float64 `json:"extra_price_per_unit"`
	ExtraPricePerKg   float64 `json:"extra_price_per_kg"`
}

// SetAvailabilityRequest marks a (product, flavor) pair available or not.
type SetAvailabilityRequest struct {
	ProductTypeID string `json:"product_type_id"`
	FlavorID      string `json:"flavor_id"`
	IsAvailable   bool   `json:"is_available"`
}
