package promotion

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Application is the outcome of applying an optional code to a priced cart.
// Promotion is nil when no code was supplied.
type Application struct {
	Promotion *Promotion
	Discount  decimal.Decimal
	Shipping  decimal.Decimal
}

// Engine resolves promotion codes. It never writes: the usage increment is
// left to the order commit so it rolls back with the order.
type Engine struct {
	finder Finder
	now    func() time.Time
	log    *zap.Logger
}

func NewEngine(finder Finder, log *zap.Logger) *Engine {
	return &Engine{finder: finder, now: time.Now, log: log}
}

// WithClock replaces the engine's time source.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Apply checks the code against subtotal and returns the discount and the
// shipping fee to charge.
func (e *Engine) Apply(ctx context.Context, code string, subtotal, shipping decimal.Decimal) (Application, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Application{Discount: decimal.Zero, Shipping: shipping}, nil
	}

	p, err := e.finder.GetByCode(ctx, code)
	if err != nil {
		return Application{}, err
	}
	if err := p.CheckEligibility(e.now(), subtotal); err != nil {
		return Application{}, err
	}

	discount, newShipping := p.Discount(subtotal, shipping)
	e.log.Debug("promotion applied",
		zap.String("code", p.Code),
		zap.String("type", string(p.Type)),
		zap.String("discount", discount.StringFixed(2)))
	return Application{Promotion: p, Discount: discount, Shipping: newShipping}, nil
}

// Lookup returns a promotion that is active and inside its window right now.
func (e *Engine) Lookup(ctx context.Context, code string) (*Promotion, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrPromotionNotFound
	}
	p, err := e.finder.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := p.CheckAvailable(e.now()); err != nil {
		return nil, err
	}
	return p, nil
}

// Redeemed is called after an order using code has committed.
func (e *Engine) Redeemed(ctx context.Context, code string) {
	inv, ok := e.finder.(invalidator)
	if !ok {
		return
	}
	if err := inv.Invalidate(ctx, code); err != nil {
		e.log.Warn("promotion cache invalidation failed", zap.String("code", code), zap.Error(err))
	}
}
