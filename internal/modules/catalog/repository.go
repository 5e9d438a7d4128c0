package catalog

import "context"

// Repository defines data access for the bakery catalog.
type Repository interface {
	CreateProduct(ctx context.Context, p *ProductType) error
	GetProductByID(ctx context.Context, id string) (*ProductType, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]*ProductType, error)
	UpdateProduct(ctx context.Context, p *ProductType) error

	CreateFlavor(ctx context.Context, f *FlavorType) error
	GetFlavorByID(ctx context.Context, id string) (*FlavorType, error)
	ListFlavors(ctx context.Context, activeOnly bool) ([]*FlavorType, error)
	UpdateFlavor(ctx context.Context, f *FlavorType) error

	CreateShape(ctx context.Context, s *CakeShape) error
	GetShapeByID(ctx context.Context, id string) (*CakeShape, error)
	ListShapes(ctx context.Context, activeOnly bool) ([]*CakeShape, error)

	// SetAvailability upserts the availability row for a (product, flavor) pair.
	SetAvailability(ctx context.Context, a *FlavorAvailability) error
	// IsFlavorAvailable reports whether the pair is marked available. A pair
	// with no row is not available.
	IsFlavorAvailable(ctx context.Context, productTypeID, flavorID string) (bool, error)
	ListAvailability(ctx context.Context, productTypeID string) ([]*FlavorAvailability, error)
}
