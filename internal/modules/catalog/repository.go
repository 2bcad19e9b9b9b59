package catalog

import (
	"context"

	"github.com/georgemunganga/storefront-checkout/internal/apperr"
)

// ErrProductNotFound is returned when no product has the requested id.
var ErrProductNotFound = apperr.NotFound("product not found")

// Repository is the slice of catalog storage the checkout path needs.
type Repository interface {
	// GetProduct returns the product as currently committed.
	GetProduct(ctx context.Context, id int64) (*Product, error)

	// DecrementStock removes qty units only if at least qty are in stock.
	// It reports false, with no error, when the stock was insufficient.
	DecrementStock(ctx context.Context, id int64, qty int) (bool, error)
}
