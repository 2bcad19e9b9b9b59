package promotion

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetByCodeHandler(t *testing.T) {
	f := &mapFinder{byCode: map[string]*Promotion{
		"FISH10": {ID: 7, Code: "FISH10", Type: TypePercentage, Value: dec("10"), IsActive: true},
		"OLD":    {ID: 8, Code: "OLD", Type: TypeFixed, Value: dec("5")},
	}}
	r := chi.NewRouter()
	NewHandler(newTestEngine(f), zap.NewNop()).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/promotions/code/FISH10", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"FISH10"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/promotions/code/OLD", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":true,"message":"promotion code OLD is not active"}`, rec.Body.String())
}
