package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamendes/fornaria-backend/internal/apperr"
)

type stubRepo struct {
	products  map[string]*ProductType
	flavors   map[string]*FlavorType
	shapes    map[string]*CakeShape
	available map[string]bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		products:  map[string]*ProductType{},
		flavors:   map[string]*FlavorType{},
		shapes:    map[string]*CakeShape{},
		available: map[string]bool{},
	}
}

func (r *stubRepo) CreateProduct(_ context.Context, p *ProductType) error {
	r.products[p.ID.String()] = p
	return nil
}

func (r *stubRepo) GetProductByID(_ context.Context, id string) (*ProductType, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, apperr.NotFound("product type")
}

func (r *stubRepo) ListProducts(_ context.Context, activeOnly bool) ([]*ProductType, error) {
	var out []*ProductType
	for _, p := range r.products {
		if !activeOnly || p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubRepo) UpdateProduct(_ context.Context, p *ProductType) error {
	r.products[p.ID.String()] = p
	return nil
}

func (r *stubRepo) CreateFlavor(_ context.Context, f *FlavorType) error {
	r.flavors[f.ID.String()] = f
	return nil
}

func (r *stubRepo) GetFlavorByID(_ context.Context, id string) (*FlavorType, error) {
	if f, ok := r.flavors[id]; ok {
		return f, nil
	}
	return nil, apperr.NotFound("flavor type")
}

func (r *stubRepo) ListFlavors(_ context.Context, activeOnly bool) ([]*FlavorType, error) {
	var out []*FlavorType
	for _, f := range r.flavors {
		if !activeOnly || f.IsActive {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *stubRepo) UpdateFlavor(_ context.Context, f *FlavorType) error {
	r.flavors[f.ID.String()] = f
	return nil
}

func (r *stubRepo) CreateShape(_ context.Context, s *CakeShape) error {
	r.shapes[s.ID.String()] = s
	return nil
}

func (r *stubRepo) GetShapeByID(_ context.Context, id string) (*CakeShape, error) {
	if s, ok := r.shapes[id]; ok {
		return s, nil
	}
	return nil, apperr.NotFound("cake shape")
}

func (r *stubRepo) ListShapes(_ context.Context, activeOnly bool) ([]*CakeShape, error) {
	var out []*CakeShape
	for _, s := range r.shapes {
		if !activeOnly || s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubRepo) SetAvailability(_ context.Context, a *FlavorAvailability) error {
	r.available[a.ProductTypeID.String()+"|"+a.FlavorID.String()] = a.IsAvailable
	return nil
}

func (r *stubRepo) IsFlavorAvailable(_ context.Context, productTypeID, flavorID string) (bool, error) {
	return r.available[productTypeID+"|"+flavorID], nil
}

func (r *stubRepo) ListAvailability(_ context.Context, productTypeID string) ([]*FlavorAvailability, error) {
	return nil, nil
}

func TestCreateProduct_Validation(t *testing.T) {
	cases := []struct {
		name  string
		req   UpsertProductRequest
		field string
	}{
		{"missing name", UpsertProductRequest{PricingMethod: "perunit", UnitPrice: 10}, "name"},
		{"unknown pricing method", UpsertProductRequest{Name: "Bolo", PricingMethod: "perdozen"}, "pricing_method"},
		{"per-unit without price", UpsertProductRequest{Name: "Bolo", PricingMethod: "perunit"}, "unit_price"},
		{"per-kg without price", UpsertProductRequest{Name: "Broa", PricingMethod: "perkg"}, "price_per_kg"},
		{"inverted quantity bounds", UpsertProductRequest{Name: "Bolo", PricingMethod: "perunit", UnitPrice: 10, MinQuantity: intp(5), MaxQuantity: intp(2)}, "min_quantity"},
		{"inverted weight bounds", UpsertProductRequest{Name: "Broa", PricingMethod: "perkg", PricePerKg: 9, MinWeight: floatp(2), MaxWeight: floatp(1)}, "min_weight"},
		{"bad shape id", UpsertProductRequest{Name: "Bolo", PricingMethod: "perunit", UnitPrice: 10, ShapeIDs: []string{"nope"}}, "shape_ids"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewService(newStubRepo()).CreateProduct(context.Background(), tc.req)
			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperr.KindValidation, appErr.Kind)
			assert.Equal(t, tc.field, appErr.Field)
		})
	}
}

func TestCreateProduct_NormalizesPricingMethod(t *testing.T) {
	svc := NewService(newStubRepo())

	p, err := svc.CreateProduct(context.Background(), UpsertProductRequest{
		Name:          "Bolo de Chocolate",
		PricingMethod: "PerUnit",
		UnitPrice:     25,
	})
	require.NoError(t, err)
	assert.Equal(t, PerUnit, p.PricingMethod)
	assert.True(t, p.IsActive)
}

func TestCreateFlavor_ExtraPriceNeedsAnAmount(t *testing.T) {
	svc := NewService(newStubRepo())

	_, err := svc.CreateFlavor(context.Background(), UpsertFlavorRequest{
		Name:          "Nutella",
		HasExtraPrice: true,
	})
	assert.True(t, apperr.IsValidation(err))

	f, err := svc.CreateFlavor(context.Background(), UpsertFlavorRequest{
		Name:              "Nutella",
		HasExtraPrice:     true,
		ExtraPricePerUnit: 1.50,
	})
	require.NoError(t, err)
	assert.True(t, f.HasExtraPrice)
}

func TestAvailability(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	p, err := svc.CreateProduct(context.Background(), UpsertProductRequest{Name: "Bolo", PricingMethod: "perunit", UnitPrice: 25})
	require.NoError(t, err)
	f, err := svc.CreateFlavor(context.Background(), UpsertFlavorRequest{Name: "Chocolate"})
	require.NoError(t, err)

	// No row yet: not available.
	ok, err := svc.IsFlavorAvailable(context.Background(), p.ID.String(), f.ID.String())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.SetAvailability(context.Background(), SetAvailabilityRequest{
		ProductTypeID: p.ID.String(), FlavorID: f.ID.String(), IsAvailable: true,
	})
	require.NoError(t, err)

	ok, err = svc.IsFlavorAvailable(context.Background(), p.ID.String(), f.ID.String())
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("unknown product rejected", func(t *testing.T) {
		_, err := svc.SetAvailability(context.Background(), SetAvailabilityRequest{
			ProductTypeID: uuid.NewString(), FlavorID: f.ID.String(), IsAvailable: true,
		})
		assert.True(t, apperr.IsNotFound(err))
	})
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
