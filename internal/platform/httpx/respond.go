// Package httpx holds the JSON response helpers and middleware shared by the
// module handlers.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/storefront-checkout/internal/apperr"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorBody is the envelope every failed request receives.
type ErrorBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Error maps err onto a status code and writes the error envelope. Server-side
// failures are logged with their cause; clients only see the public message.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	Respond(w, status, ErrorBody{Error: true, Message: apperr.PublicMessage(err)})
}
