package payment

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ritamendes/fornaria-backend/internal/httpx"
	"github.com/ritamendes/fornaria-backend/internal/modules/auth"
)

// Handler exposes payment-ledger HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/orders/{orderID}/payments", func(r chi.Router) {
		r.Post("/", h.addPayment)
		r.Get("/", h.listPayments)
		r.Get("/summary", h.getSummary)
		r.Post("/recalculate", h.recalculate)
	})
	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Patch("/{id}", h.editPayment)
		r.Delete("/{id}", h.deletePayment)
	})
}

type mutationResponse struct {
	Payment *Payment `json:"payment,omitempty"`
	Summary *Summary `json:"summary"`
}

func (h *Handler) addPayment(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "missing caller identity", http.StatusUnauthorized)
		return
	}

	var req AddPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, err)
		return
	}

	p, summary, err := h.service.Add(r.Context(), chi.URLParam(r, "orderID"), req, identity)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, mutationResponse{Payment: p, Summary: summary})
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListByOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, payments)
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetSummary(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, summary)
}

func (h *Handler) recalculate(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Recalculate(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, summary)
}

func (h *Handler) editPayment(w http.ResponseWriter, r *http.Request) {
	var req EditPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, err)
		return
	}

	p, summary, err := h.service.Edit(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, mutationResponse{Payment: p, Summary: summary})
}

func (h *Handler) deletePayment(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, mutationResponse{Summary: summary})
}
