package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/ritamendes/fornaria-backend/internal/apperr"
	"github.com/ritamendes/fornaria-backend/internal/modules/catalog"
	"github.com/ritamendes/fornaria-backend/internal/money"
)

// Catalog is the read-only catalog contract the pricing engine consumes.
// Implemented by the catalog service.
type Catalog interface {
	GetProductType(ctx context.Context, id string) (*catalog.ProductType, error)
	GetFlavorType(ctx context.Context, id string) (*catalog.FlavorType, error)
	GetCakeShape(ctx context.Context, id string) (*catalog.CakeShape, error)
	IsFlavorAvailable(ctx context.Context, productTypeID, flavorID string) (bool, error)
}

// priceItems turns the requested items into priced, validated line-item
// snapshots plus the order subtotal. Any failing item aborts the whole
// batch; no partial result is ever returned. Every multiplication is
// rounded to cents immediately so line totals always match what their
// aggregation produces.
func priceItems(ctx context.Context, cat Catalog, reqs []ItemRequest) ([]*Item, float64, error) {
	if len(reqs) == 0 {
		return nil, 0, apperr.Validation("items", "order must contain at least one item")
	}

	var items []*Item
	var subTotal float64
	for _, req := range reqs {
		item, err := priceItem(ctx, cat, req)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
		subTotal += item.LineTotal
	}
	return items, money.Round2(subTotal), nil
}

func priceItem(ctx context.Context, cat Catalog, req ItemRequest) (*Item, error) {
	product, err := cat.GetProductType(ctx, req.ProductTypeID)
	if err != nil {
		return nil, err
	}
	flavor, err := cat.GetFlavorType(ctx, req.FlavorID)
	if err != nil {
		return nil, err
	}

	item := &Item{
		ID:                  uuid.New(),
		ProductTypeID:       product.ID,
		ProductName:         product.Name,
		FlavorID:            flavor.ID,
		FlavorName:          flavor.Name,
		PricingMethod:       product.PricingMethod,
		SpecialInstructions: req.SpecialInstructions,
	}

	// A product that declares shapes requires one of them; a product
	// without shapes ignores any selection.
	if len(product.ShapeIDs) > 0 {
		if req.CakeShapeID == "" {
			return nil, apperr.Validationf("cake_shape_id", "product %q requires a cake shape", product.Name)
		}
		shapeID, err := uuid.Parse(req.CakeShapeID)
		if err != nil || !product.AllowsShape(shapeID) {
			return nil, apperr.Validationf("cake_shape_id", "shape not available for product %q", product.Name)
		}
		shape, err := cat.GetCakeShape(ctx, shapeID.String())
		if err != nil {
			return nil, err
		}
		item.ShapeID = &shape.ID
		item.ShapeName = shape.Name
	}

	available, err := cat.IsFlavorAvailable(ctx, product.ID.String(), flavor.ID.String())
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, apperr.Validationf("flavor_id", "flavor %q not available for product %q", flavor.Name, product.Name)
	}

	switch product.PricingMethod {
	case catalog.PerUnit:
		if req.Weight != nil {
			return nil, apperr.Validationf("weight", "product %q is priced per unit, weight does not apply", product.Name)
		}
		if req.Quantity == nil || *req.Quantity <= 0 {
			return nil, apperr.Validationf("quantity", "product %q requires a quantity greater than 0", product.Name)
		}
		quantity := *req.Quantity
		if product.MinQuantity != nil && quantity < *product.MinQuantity {
			return nil, apperr.Validationf("quantity", "product %q requires at least %d units", product.Name, *product.MinQuantity)
		}
		if product.MaxQuantity != nil && quantity > *product.MaxQuantity {
			return nil, apperr.Validationf("quantity", "product %q allows at most %d units", product.Name, *product.MaxQuantity)
		}
		item.Quantity = &quantity
		item.UnitBasePrice = money.Round2(product.UnitPrice * float64(quantity))
		if flavor.HasExtraPrice {
			item.FlavorExtraPrice = money.Round2(flavor.ExtraPricePerUnit * float64(quantity))
		}

	case catalog.PerKg:
		if req.Quantity != nil {
			return nil, apperr.Validationf("quantity", "product %q is priced per kg, quantity does not apply", product.Name)
		}
		if req.Weight == nil || *req.Weight <= 0 {
			return nil, apperr.Validationf("weight", "product %q requires a weight greater than 0", product.Name)
		}
		weight := *req.Weight
		if product.MinWeight != nil && weight < *product.MinWeight {
			return nil, apperr.Validationf("weight", "product %q requires at least %.3f kg", product.Name, *product.MinWeight)
		}
		if product.MaxWeight != nil && weight > *product.MaxWeight {
			return nil, apperr.Validationf("weight", "product %q allows at most %.3f kg", product.Name, *product.MaxWeight)
		}
		item.Weight = &weight
		item.UnitBasePrice = money.Round2(product.PricePerKg * weight)
		if flavor.HasExtraPrice {
			item.FlavorExtraPrice = money.Round2(flavor.ExtraPricePerKg * weight)
		}

	default:
		return nil, apperr.Validationf("pricing_method", "product %q has unknown pricing method %q", product.Name, product.PricingMethod)
	}

	item.LineTotal = money.Round2(item.UnitBasePrice + item.FlavorExtraPrice)
	return item, nil
}
