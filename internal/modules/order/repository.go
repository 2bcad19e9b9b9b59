package order

import (
	"context"

	"github.com/georgemunganga/storefront-checkout/internal/apperr"
	"github.com/google/uuid"
)

// ErrOrderNotFound is returned when no order matches.
var ErrOrderNotFound = apperr.NotFound("order not found")

// ErrOrderChanged is returned when an order no longer has the state an
// update was decided from.
var ErrOrderChanged = apperr.Conflict("order was changed by another request, please retry")

// Repository defines data access for orders.
type Repository interface {
	// Insert writes the order header. It reports false, without error, when
	// the order number is already taken so the caller can pick another.
	Insert(ctx context.Context, o *Order) (bool, error)

	// InsertLines writes the order's line snapshots.
	InsertLines(ctx context.Context, orderID uuid.UUID, lines []*Line) error

	// GetByID retrieves an order with its lines.
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// GetByNumber retrieves an order with its lines by its human-readable number.
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// List returns orders newest first, without lines.
	List(ctx context.Context, f ListFilter) ([]*Order, error)

	// Update moves the order from one state to another and sets notes. It
	// fails with ErrOrderChanged unless the order is still in from.
	Update(ctx context.Context, id uuid.UUID, from, to State, notes string) error
}
