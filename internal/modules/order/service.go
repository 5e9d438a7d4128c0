package order

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ritamendes/fornaria-backend/internal/apperr"
	"github.com/ritamendes/fornaria-backend/internal/modules/auth"
	"github.com/ritamendes/fornaria-backend/internal/modules/payment"
	"github.com/ritamendes/fornaria-backend/internal/money"
)

// Service defines the order management business logic.
type Service interface {
	// CreateOrder prices and validates the requested items, applies the
	// loyalty discount, and persists the order atomically as a snapshot.
	CreateOrder(ctx context.Context, req CreateOrderRequest, createdBy auth.Identity) (*Order, error)

	// GetOrder retrieves a full order with its items by UUID.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// GetOrderByNumber retrieves an order by its human-readable number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListOrders returns all orders, optionally filtered by workflow status.
	ListOrders(ctx context.Context, status string) ([]*Order, error)

	// ListCustomerOrders returns all orders placed for a customer.
	ListCustomerOrders(ctx context.Context, customerID string) ([]*Order, error)

	// UpdateStatus advances an order to a new workflow status.
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error)

	// CancelOrder cancels a pending or confirmed order.
	CancelOrder(ctx context.Context, id string) error
}

type service struct {
	repo      Repository
	catalog   Catalog
	customers Customers

	newNumber      func() string
	fallbackNumber func() string
}

// NewService creates a new order service.
func NewService(repo Repository, cat Catalog, customers Customers) Service {
	return &service{
		repo:           repo,
		catalog:        cat,
		customers:      customers,
		newNumber:      newOrderNumber,
		fallbackNumber: fallbackOrderNumber,
	}
}

// validTransitions defines the allowed workflow state machine.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusReady},
	StatusReady:      {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func (s *service) CreateOrder(ctx context.Context, req CreateOrderRequest, createdBy auth.Identity) (*Order, error) {
	cust, err := s.customers.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	method := DeliveryMethod(strings.ToLower(req.DeliveryMethod))
	var deliveryAddress *DeliveryAddress
	switch method {
	case MethodPickup:
		// Any address selection is ignored for pickups.
	case MethodDelivery:
		if req.DeliveryAddressID == "" {
			return nil, apperr.Validation("delivery_address_id", "delivery orders require an address")
		}
		addressID, err := uuid.Parse(req.DeliveryAddressID)
		if err != nil {
			return nil, apperr.Validation("delivery_address_id", "invalid address id")
		}
		address, ok := cust.AddressByID(addressID)
		if !ok {
			return nil, apperr.Validation("delivery_address_id", "address not found for customer")
		}
		deliveryAddress = &DeliveryAddress{
			ID:         address.ID,
			Label:      address.Label,
			Street:     address.Street,
			City:       address.City,
			PostalCode: address.PostalCode,
		}
	default:
		return nil, apperr.Validationf("delivery_method", "unknown delivery method %q", req.DeliveryMethod)
	}

	if req.FulfillAt.IsZero() {
		return nil, apperr.Validation("fulfill_at", "fulfillment time is required")
	}

	items, subTotal, err := priceItems(ctx, s.catalog, req.Items)
	if err != nil {
		return nil, err
	}

	discount, err := loyaltyDiscount(ctx, s.customers, req.CustomerID, subTotal)
	if err != nil {
		return nil, err
	}
	totalAmount := money.Round2(subTotal - discount)
	if totalAmount < 0 {
		totalAmount = 0
	}

	// An order cannot start over-paid. The amount is informational only;
	// recording the money itself is an explicit payment call.
	initialPaid := money.Round2(req.InitialPaidAmount)
	if initialPaid < 0 {
		return nil, apperr.Validation("initial_paid_amount", "initial paid amount cannot be negative")
	}
	if money.Exceeds(initialPaid, totalAmount) {
		return nil, apperr.Validation("initial_paid_amount", "initial paid amount exceeds order total")
	}

	orderNumber, err := s.generateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:              uuid.New(),
		OrderNumber:     orderNumber,
		CustomerID:      cust.ID,
		CustomerName:    cust.Name,
		CustomerPhone:   cust.Phone,
		CustomerEmail:   cust.Email,
		DeliveryMethod:  method,
		DeliveryAddress: deliveryAddress,
		FulfillAt:       req.FulfillAt,
		Items:           items,
		Notes:           req.Notes,
		SubTotal:        subTotal,
		Discount:        discount,
		TotalAmount:     totalAmount,
		PaidAmount:      initialPaid,
		PaymentStatus:   payment.ResolveStatus(totalAmount, initialPaid),
		Status:          StatusPending,
		CreatedBy:       createdBy.ID,
	}
	for _, item := range o.Items {
		item.OrderID = o.ID
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *service) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.repo.GetOrderByNumber(ctx, orderNumber)
}

func (s *service) ListOrders(ctx context.Context, status string) ([]*Order, error) {
	return s.repo.ListOrders(ctx, status)
}

func (s *service) ListCustomerOrders(ctx context.Context, customerID string) ([]*Order, error) {
	return s.repo.ListOrdersByCustomer(ctx, customerID)
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus := Status(strings.ToLower(req.Status))
	allowed := false
	for _, next := range validTransitions[o.Status] {
		if next == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperr.Validationf("status", "cannot transition order from %s to %s", o.Status, newStatus)
	}

	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}
	o.Status = newStatus
	o.UpdatedAt = time.Now()
	return o, nil
}

func (s *service) CancelOrder(ctx context.Context, id string) error {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}
	if o.Status != StatusPending && o.Status != StatusConfirmed {
		return apperr.Validationf("status", "only pending or confirmed orders can be cancelled (current: %s)", o.Status)
	}
	return s.repo.UpdateStatus(ctx, id, StatusCancelled)
}
