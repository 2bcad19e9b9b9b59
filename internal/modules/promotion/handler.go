package promotion

import (
	"net/http"

	"github.com/georgemunganga/storefront-checkout/internal/platform/httpx"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler exposes the public promotion lookup.
type Handler struct {
	engine *Engine
	log    *zap.Logger
}

func NewHandler(engine *Engine, log *zap.Logger) *Handler { return &Handler{engine: engine, log: log} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/promotions/code/{code}", h.getByCode) // GET /api/v1/promotions/code/{code}
}

func (h *Handler) getByCode(w http.ResponseWriter, r *http.Request) {
	p, err := h.engine.Lookup(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"data": p})
}
