package order

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/storefront-checkout/internal/apperr"
	"github.com/georgemunganga/storefront-checkout/internal/modules/auth"
	"github.com/georgemunganga/storefront-checkout/internal/platform/httpx"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler exposes order HTTP endpoints. Every route requires a bearer token.
type Handler struct {
	service Service
	authSvc auth.Service
	log     *zap.Logger
}

func NewHandler(service Service, authSvc auth.Service, log *zap.Logger) *Handler {
	return &Handler{service: service, authSvc: authSvc, log: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(auth.Middleware(h.authSvc, h.log))
		r.Get("/", h.listOrders)                      // GET   /api/v1/orders?status=pending
		r.Get("/{id}", h.getOrder)                    // GET   /api/v1/orders/{id}
		r.Get("/number/{number}", h.getOrderByNumber) // GET   /api/v1/orders/number/{number}

		// PATCH /api/v1/orders/{id} (admin only)
		r.With(auth.RequireAdmin(h.log)).Patch("/{id}", h.updateOrder)
	})
}

func viewerFrom(r *http.Request) Viewer {
	c, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		return Viewer{}
	}
	return Viewer{UserID: c.UserID, Admin: c.IsAdmin()}
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context(), viewerFrom(r), r.URL.Query().Get("status"))
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"data": orders})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"), viewerFrom(r))
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"data": o})
}

func (h *Handler) getOrderByNumber(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrderByNumber(r.Context(), chi.URLParam(r, "number"), viewerFrom(r))
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"data": o})
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, h.log, apperr.Validation("invalid request body"))
		return
	}
	o, err := h.service.UpdateOrder(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"message": "Order updated successfully", "data": o})
}
