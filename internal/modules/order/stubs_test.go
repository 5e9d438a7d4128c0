package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/ritamendes/fornaria-backend/internal/apperr"
	"github.com/ritamendes/fornaria-backend/internal/modules/catalog"
	"github.com/ritamendes/fornaria-backend/internal/modules/customer"
)

// stubCatalog serves catalog lookups from maps. Availability is keyed by
// "productID|flavorID"; pairs never marked are unavailable, matching the
// real catalog.
type stubCatalog struct {
	products  map[string]*catalog.ProductType
	flavors   map[string]*catalog.FlavorType
	shapes    map[string]*catalog.CakeShape
	available map[string]bool
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		products:  map[string]*catalog.ProductType{},
		flavors:   map[string]*catalog.FlavorType{},
		shapes:    map[string]*catalog.CakeShape{},
		available: map[string]bool{},
	}
}

func (c *stubCatalog) addProduct(p *catalog.ProductType) *catalog.ProductType {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	c.products[p.ID.String()] = p
	return p
}

func (c *stubCatalog) addFlavor(f *catalog.FlavorType) *catalog.FlavorType {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	c.flavors[f.ID.String()] = f
	return f
}

func (c *stubCatalog) addShape(name string) *catalog.CakeShape {
	s := &catalog.CakeShape{ID: uuid.New(), Name: name}
	c.shapes[s.ID.String()] = s
	return s
}

func (c *stubCatalog) allow(p *catalog.ProductType, f *catalog.FlavorType) {
	c.available[p.ID.String()+"|"+f.ID.String()] = true
}

func (c *stubCatalog) GetProductType(_ context.Context, id string) (*catalog.ProductType, error) {
	if p, ok := c.products[id]; ok {
		return p, nil
	}
	return nil, apperr.NotFound("product type")
}

func (c *stubCatalog) GetFlavorType(_ context.Context, id string) (*catalog.FlavorType, error) {
	if f, ok := c.flavors[id]; ok {
		return f, nil
	}
	return nil, apperr.NotFound("flavor type")
}

func (c *stubCatalog) GetCakeShape(_ context.Context, id string) (*catalog.CakeShape, error) {
	if s, ok := c.shapes[id]; ok {
		return s, nil
	}
	return nil, apperr.NotFound("cake shape")
}

func (c *stubCatalog) IsFlavorAvailable(_ context.Context, productTypeID, flavorID string) (bool, error) {
	return c.available[productTypeID+"|"+flavorID], nil
}

type stubCustomers struct {
	customers map[string]*customer.Customer
	hasOrders map[string]bool
}

func newStubCustomers() *stubCustomers {
	return &stubCustomers{
		customers: map[string]*customer.Customer{},
		hasOrders: map[string]bool{},
	}
}

func (s *stubCustomers) add(c *customer.Customer, hasOrders bool) *customer.Customer {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.customers[c.ID.String()] = c
	s.hasOrders[c.ID.String()] = hasOrders
	return c
}

func (s *stubCustomers) GetCustomer(_ context.Context, id string) (*customer.Customer, error) {
	if c, ok := s.customers[id]; ok {
		return c, nil
	}
	return nil, apperr.NotFound("customer")
}

func (s *stubCustomers) HasAnyOrder(_ context.Context, customerID string) (bool, error) {
	return s.hasOrders[customerID], nil
}

type stubOrderRepo struct {
	orders map[string]*Order
	taken  map[string]bool

	created      []*Order
	existsChecks int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: map[string]*Order{}, taken: map[string]bool{}}
}

func (r *stubOrderRepo) CreateOrder(_ context.Context, o *Order) error {
	if r.taken[o.OrderNumber] {
		return apperr.Conflict("order number already taken, retry")
	}
	r.taken[o.OrderNumber] = true
	r.orders[o.ID.String()] = o
	r.created = append(r.created, o)
	return nil
}

func (r *stubOrderRepo) GetOrderByID(_ context.Context, id string) (*Order, error) {
	if o, ok := r.orders[id]; ok {
		return o, nil
	}
	return nil, apperr.NotFound("order")
}

func (r *stubOrderRepo) GetOrderByNumber(_ context.Context, orderNumber string) (*Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, apperr.NotFound("order")
}

func (r *stubOrderRepo) ListOrders(_ context.Context, status string) ([]*Order, error) {
	var out []*Order
	for _, o := range r.orders {
		if status == "" || o.Status == Status(status) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) ListOrdersByCustomer(_ context.Context, customerID string) ([]*Order, error) {
	var out []*Order
	for _, o := range r.orders {
		if o.CustomerID.String() == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	o, ok := r.orders[id]
	if !ok {
		return apperr.NotFound("order")
	}
	o.Status = status
	return nil
}

func (r *stubOrderRepo) NumberExists(_ context.Context, orderNumber string) (bool, error) {
	r.existsChecks++
	return r.taken[orderNumber], nil
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
