package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ritamendes/fornaria-backend/internal/httpx"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Post("/products", h.createProduct)
		r.Get("/products/{id}", h.getProduct)
		r.Put("/products/{id}", h.updateProduct)
		r.Get("/products/{id}/availability", h.listAvailability)

		r.Get("/flavors", h.listFlavors)
		r.Post("/flavors", h.createFlavor)
		r.Get("/flavors/{id}", h.getFlavor)
		r.Put("/flavors/{id}", h.updateFlavor)

		r.Get("/shapes", h.listShapes)
		r.Post("/shapes", h.createShape)

		r.Put("/availability", h.setAvailability)
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") != "false"
	products, err := h.service.ListProducts(r.Context(), activeOnly)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req UpsertProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, p)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProductType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpsertProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) listAvailability(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListAvailability(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, entries)
}

func (h *Handler) listFlavors(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") != "false"
	flavors, err := h.service.ListFlavors(r.Context(), activeOnly)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, flavors)
}

func (h *Handler) createFlavor(w http.ResponseWriter, r *http.Request) {
	var req UpsertFlavorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	f, err := h.service.CreateFlavor(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, f)
}

func (h *Handler) getFlavor(w http.ResponseWriter, r *http.Request) {
	f, err := h.service.GetFlavorType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, f)
}

func (h *Handler) updateFlavor(w http.ResponseWriter, r *http.Request) {
	var req UpsertFlavorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	f, err := h.service.UpdateFlavor(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, f)
}

func (h *Handler) listShapes(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") != "false"
	shapes, err := h.service.ListShapes(r.Context(), activeOnly)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, shapes)
}

func (h *Handler) createShape(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Name string `json:"name"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	shape, err := h.service.CreateShape(r.Context(), req.Name)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, shape)
}

func (h *Handler) setAvailability(w http.ResponseWriter, r *http.Request) {
	var req SetAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	a, err := h.service.SetAvailability(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, a)
}
