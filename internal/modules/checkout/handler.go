package checkout

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/storefront-checkout/internal/apperr"
	"github.com/georgemunganga/storefront-checkout/internal/modules/auth"
	"github.com/georgemunganga/storefront-checkout/internal/platform/httpx"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler exposes the checkout endpoint.
type Handler struct {
	service Service
	authSvc auth.Service
	log     *zap.Logger
}

func NewHandler(service Service, authSvc auth.Service, log *zap.Logger) *Handler {
	return &Handler{service: service, authSvc: authSvc, log: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(auth.Middleware(h.authSvc, h.log)).
		Post("/api/v1/checkout", h.placeOrder) // POST /api/v1/checkout
}

type receiptResponse struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Total       string `json:"total"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, r, h.log, apperr.Unauthorized("authentication required"))
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, h.log, apperr.Validation("invalid request body"))
		return
	}
	c, err := ParseCheckout(claims.UserID, req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}

	receipt, err := h.service.PlaceOrder(r.Context(), c)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, receiptResponse{
		OrderID:     receipt.OrderID.String(),
		OrderNumber: receipt.OrderNumber,
		Total:       receipt.Total.StringFixed(2),
	})
}
