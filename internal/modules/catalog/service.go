package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ritamendes/fornaria-backend/internal/apperr"
)

// Service defines catalog business logic. The lookup methods double as the
// read-only contract the order pricing engine consumes.
type Service interface {
	CreateProduct(ctx context.Context, req UpsertProductRequest) (*ProductType, error)
	GetProductType(ctx context.Context, id string) (*ProductType, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]*ProductType, error)
	UpdateProduct(ctx context.Context, id string, req UpsertProductRequest) (*ProductType, error)

	CreateFlavor(ctx context.Context, req UpsertFlavorRequest) (*FlavorType, error)
	GetFlavorType(ctx context.Context, id string) (*FlavorType, error)
	ListFlavors(ctx context.Context, activeOnly bool) ([]*FlavorType, error)
	UpdateFlavor(ctx context.Context, id string, req UpsertFlavorRequest) (*FlavorType, error)

	CreateShape(ctx context.Context, name string) (*CakeShape, error)
	GetCakeShape(ctx context.Context, id string) (*CakeShape, error)
	ListShapes(ctx context.Context, activeOnly bool) ([]*CakeShape, error)

	SetAvailability(ctx context.Context, req SetAvailabilityRequest) (*FlavorAvailability, error)
	IsFlavorAvailable(ctx context.Context, productTypeID, flavorID string) (bool, error)
	ListAvailability(ctx context.Context, productTypeID string) ([]*FlavorAvailability, error)
}

type service struct{ repo Repository }

// NewService creates a new catalog service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateProduct(ctx context.Context, req UpsertProductRequest) (*ProductType, error) {
	p := &ProductType{ID: uuid.New(), IsActive: true}
	if err := applyProductRequest(p, req); err != nil {
		return nil, err
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProductType(ctx context.Context, id string) (*ProductType, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, activeOnly bool) ([]*ProductType, error) {
	return s.repo.ListProducts(ctx, activeOnly)
}

func (s *service) UpdateProduct(ctx context.Context, id string, req UpsertProductRequest) (*ProductType, error) {
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProductRequest(p, req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) CreateFlavor(ctx context.Context, req UpsertFlavorRequest) (*FlavorType, error) {
	f := &FlavorType{ID: uuid.New(), IsActive: true}
	if err := applyFlavorRequest(f, req); err != nil {
		return nil, err
	}
	if err := s.repo.CreateFlavor(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) GetFlavorType(ctx context.Context, id string) (*FlavorType, error) {
	return s.repo.GetFlavorByID(ctx, id)
}

func (s *service) ListFlavors(ctx context.Context, activeOnly bool) ([]*FlavorType, error) {
	return s.repo.ListFlavors(ctx, activeOnly)
}

func (s *service) UpdateFlavor(ctx context.Context, id string, req UpsertFlavorRequest) (*FlavorType, error) {
	f, err := s.repo.GetFlavorByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyFlavorRequest(f, req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFlavor(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) CreateShape(ctx context.Context, name string) (*CakeShape, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("name", "name is required")
	}
	shape := &CakeShape{ID: uuid.New(), Name: strings.TrimSpace(name), IsActive: true}
	if err := s.repo.CreateShape(ctx, shape); err != nil {
		return nil, err
	}
	return shape, nil
}

func (s *service) GetCakeShape(ctx context.Context, id string) (*CakeShape, error) {
	return s.repo.GetShapeByID(ctx, id)
}

func (s *service) ListShapes(ctx context.Context, activeOnly bool) ([]*CakeShape, error) {
	return s.repo.ListShapes(ctx, activeOnly)
}

func (s *service) SetAvailability(ctx context.Context, req SetAvailabilityRequest) (*FlavorAvailability, error) {
	p, err := s.repo.GetProductByID(ctx, req.ProductTypeID)
	if err != nil {
		return nil, err
	}
	f, err := s.repo.GetFlavorByID(ctx, req.FlavorID)
	if err != nil {
		return nil, err
	}
	a := &FlavorAvailability{ProductTypeID: p.ID, FlavorID: f.ID, IsAvailable: req.IsAvailable}
	if err := s.repo.SetAvailability(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) IsFlavorAvailable(ctx context.Context, productTypeID, flavorID string) (bool, error) {
	return s.repo.IsFlavorAvailable(ctx, productTypeID, flavorID)
}

func (s *service) ListAvailability(ctx context.Context, productTypeID string) ([]*FlavorAvailability, error) {
	return s.repo.ListAvailability(ctx, productTypeID)
}

// ── request validation ───────────────────────────────────────────────────────

func applyProductRequest(p *ProductType, req UpsertProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperr.Validation("name", "name is required")
	}

	method := PricingMethod(strings.ToLower(req.PricingMethod))
	switch method {
	case PerUnit:
		if req.UnitPrice <= 0 {
			return apperr.Validation("unit_price", "unit price must be greater than 0")
		}
		if req.MinQuantity != nil && req.MaxQuantity != nil && *req.MinQuantity > *req.MaxQuantity {
			return apperr.Validation("min_quantity", "min quantity exceeds max quantity")
		}
	case PerKg:
		if req.PricePerKg <= 0 {
			return apperr.Validation("price_per_kg", "price per kg must be greater than 0")
		}
		if req.MinWeight != nil && req.MaxWeight != nil && *req.MinWeight > *req.MaxWeight {
			return apperr.Validation("min_weight", "min weight exceeds max weight")
		}
	default:
		return apperr.Validationf("pricing_method", "unknown pricing method %q", req.PricingMethod)
	}

	shapeIDs := make([]uuid.UUID, 0, len(req.ShapeIDs))
	for _, raw := range req.ShapeIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperr.Validation("shape_ids", "invalid shape id")
		}
		shapeIDs = append(shapeIDs, id)
	}

	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.PricingMethod = method
	p.UnitPrice = req.UnitPrice
	p.PricePerKg = req.PricePerKg
	p.MinQuantity = req.MinQuantity
	p.MaxQuantity = req.MaxQuantity
	p.MinWeight = req.MinWeight
	p.MaxWeight = req.MaxWeight
	p.ShapeIDs = shapeIDs
	return nil
}

func applyFlavorRequest(f *FlavorType, req UpsertFlavorRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperr.Validation("name", "name is required")
	}
	if req.HasExtraPrice && req.ExtraPricePerUnit <= 0 && req.ExtraPricePerKg <= 0 {
		return apperr.Validation("has_extra_price", "extra price flavor needs a per-unit or per-kg price")
	}
	f.Name = strings.TrimSpace(req.Name)
	f.HasExtraPrice = req.HasExtraPrice
	f.ExtraPricePerUnit = req.ExtraPricePerUnit
	f.ExtraPricePerKg = req.ExtraPricePerKg
	return nil
}
