package checkout

import (
	"context"

	"github.com/georgemunganga/storefront-checkout/internal/modules/order"
	"github.com/georgemunganga/storefront-checkout/internal/modules/promotion"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnitOfWork is every write a checkout makes. All of them commit together
// or not at all.
type UnitOfWork interface {
	// DecrementStock reports false when fewer than qty units remain.
	DecrementStock(ctx context.Context, productID int64, qty int) (bool, error)

	// InsertOrder reports false when the order number is already taken.
	InsertOrder(ctx context.Context, o *order.Order) (bool, error)

	InsertLines(ctx context.Context, orderID uuid.UUID, lines []*order.Line) error

	// IncrementPromotionUsage redeems p against subtotal. It reports false
	// when the stored promotion no longer grants what p granted: deactivated,
	// outside its window, changed, or out of uses.
	IncrementPromotionUsage(ctx context.Context, p *promotion.Promotion, subtotal decimal.Decimal) (bool, error)
}

// Store runs fn as one transaction. An error from fn rolls back every write
// fn made.
type Store interface {
	WithinTx(ctx context.Context, fn func(UnitOfWork) error) error
}
