package order

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ritamendes/fornaria-backend/internal/httpx"
	"github.com/ritamendes/fornaria-backend/internal/modules/auth"
)

// Handler exposes order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.createOrder)
		r.Get("/", h.listOrders)
		r.Get("/{orderID}", h.getOrder)
		r.Get("/number/{number}", h.getOrderByNumber)
		r.Patch("/{orderID}/status", h.updateStatus)
		r.Delete("/{orderID}", h.cancelOrder)
		r.Get("/customer/{customerID}", h.listCustomerOrders)
	})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "missing caller identity", http.StatusUnauthorized)
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, err)
		return
	}

	o, err := h.service.CreateOrder(r.Context(), req, identity)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) getOrderByNumber(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrderByNumber(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"), req)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CancelOrder(r.Context(), chi.URLParam(r, "orderID")); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"status": "order cancelled"})
}

func (h *Handler) listCustomerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListCustomerOrders(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, orders)
}
