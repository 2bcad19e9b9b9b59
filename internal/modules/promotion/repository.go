package promotion

import (
	"context"

	"github.com/georgemunganga/storefront-checkout/internal/apperr"
	"github.com/shopspring/decimal"
)

// ErrPromotionNotFound is returned when no promotion carries the code.
var ErrPromotionNotFound = apperr.InvalidPromotion("invalid promotion code")

// Finder looks promotions up by code. The checkout path only reads through it.
type Finder interface {
	GetByCode(ctx context.Context, code string) (*Promotion, error)
}

// Repository adds the usage write performed inside the order commit.
type Repository interface {
	Finder

	// IncrementUsage bumps used_count by one only while the stored row still
	// grants what p granted: active, inside its window, the same type, value
	// and cap, a minimum order of at most subtotal, and usage left. It
	// reports false otherwise.
	IncrementUsage(ctx context.Context, p *Promotion, subtotal decimal.Decimal) (bool, error)
}

// invalidator is implemented by caching finders.
type invalidator interface {
	Invalidate(ctx context.Context, code string) error
}
