package checkout

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/georgemunganga/storefront-checkout/internal/apperr"
	"github.com/georgemunganga/storefront-checkout/internal/modules/order"
	"github.com/georgemunganga/storefront-checkout/internal/modules/promotion"
	"github.com/georgemunganga/storefront-checkout/internal/platform/messaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxOrderNumberAttempts = 5
	defaultCommitTimeout   = 15 * time.Second
)

// Service turns a checkout into a committed order.
type Service interface {
	// PlaceOrder validates, prices and commits c. Nothing is written unless
	// every step succeeds.
	PlaceOrder(ctx context.Context, c Checkout) (*Receipt, error)
}

type service struct {
	validator  *Validator
	pricing    Pricing
	promotions *promotion.Engine
	store      Store
	log        *zap.Logger

	publisher     messaging.Publisher
	topic         string
	commitTimeout time.Duration
	now           func() time.Time
	newNumber     func(time.Time) string
}

// Option configures a checkout service.
type Option func(*service)

// WithPublisher announces committed orders on topic.
func WithPublisher(p messaging.Publisher, topic string) Option {
	return func(s *service) { s.publisher, s.topic = p, topic }
}

// WithCommitTimeout bounds the commit transaction.
func WithCommitTimeout(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.commitTimeout = d
		}
	}
}

// WithClock replaces the time source used for order numbers and events.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func NewService(validator *Validator, pricing Pricing, promotions *promotion.Engine, store Store, log *zap.Logger, opts ...Option) Service {
	s := &service{
		validator:     validator,
		pricing:       pricing,
		promotions:    promotions,
		store:         store,
		log:           log,
		publisher:     messaging.Noop{},
		commitTimeout: defaultCommitTimeout,
		now:           time.Now,
		newNumber:     GenerateOrderNumber,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) PlaceOrder(ctx context.Context, c Checkout) (*Receipt, error) {
	// ── Validate, price, apply promotion (read-only) ─────────────────────────
	lines, err := s.validator.Validate(ctx, c.Lines)
	if err != nil {
		return nil, err
	}
	quote := s.pricing.Quote(lines)
	app, err := s.promotions.Apply(ctx, c.CouponCode, quote.Subtotal, quote.Shipping)
	if err != nil {
		return nil, err
	}
	o := buildOrder(c, lines, quote, app)

	// ── Commit ───────────────────────────────────────────────────────────────
	// A client disconnect must not roll back a transaction already under way.
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.commitTimeout)
	defer cancel()

	err = s.store.WithinTx(commitCtx, func(uow UnitOfWork) error {
		return s.commit(commitCtx, uow, o, lines, app)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order_created",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.String("customer_id", o.CustomerID.String()),
		zap.String("total", o.Total.StringFixed(2)),
		zap.String("payment_status", string(o.PaymentStatus)))

	s.publishPlaced(commitCtx, o)
	if app.Promotion != nil {
		s.promotions.Redeemed(commitCtx, app.Promotion.Code)
	}
	return &Receipt{OrderID: o.ID, OrderNumber: o.OrderNumber, Total: o.Total}, nil
}

func (s *service) commit(ctx context.Context, uow UnitOfWork, o *order.Order, lines []ValidatedLine, app promotion.Application) error {
	// one global lock order across concurrent checkouts
	sorted := slices.Clone(lines)
	slices.SortFunc(sorted, func(a, b ValidatedLine) int { return cmp.Compare(a.ProductID, b.ProductID) })
	for _, l := range sorted {
		ok, err := uow.DecrementStock(ctx, l.ProductID, l.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InsufficientStock("insufficient stock for product: %s", l.Name)
		}
	}

	inserted := false
	for attempt := 0; attempt < maxOrderNumberAttempts && !inserted; attempt++ {
		o.OrderNumber = s.newNumber(s.now())
		ok, err := uow.InsertOrder(ctx, o)
		if err != nil {
			return err
		}
		inserted = ok
	}
	if !inserted {
		return apperr.Internal(nil, "could not allocate a unique order number")
	}

	if err := uow.InsertLines(ctx, o.ID, o.Lines); err != nil {
		return err
	}

	if app.Promotion != nil {
		ok, err := uow.IncrementPromotionUsage(ctx, app.Promotion, o.Subtotal)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidPromotion("promotion code %s is no longer valid", app.Promotion.Code)
		}
	}
	return nil
}

func buildOrder(c Checkout, lines []ValidatedLine, q Quote, app promotion.Application) *order.Order {
	o := &order.Order{
		ID:               uuid.New(),
		CustomerID:       c.CustomerID,
		Status:           order.StatusPending,
		PaymentStatus:    c.Payment.InitialStatus(),
		PaymentReference: c.Payment.Reference,
		Subtotal:         q.Subtotal,
		Shipping:         app.Shipping,
		Tax:              q.Tax,
		Discount:         app.Discount,
		Total:            q.Subtotal.Add(app.Shipping).Sub(app.Discount).Add(q.Tax).Round(2),
		ShippingName:     c.ShipTo.Name,
		ShippingAddress:  c.ShipTo.Street,
		ShippingCity:     c.ShipTo.City,
		ShippingState:    c.ShipTo.State,
		ShippingZip:      c.ShipTo.Zip,
		Notes:            c.Notes,
	}
	if p := app.Promotion; p != nil {
		id := p.ID
		o.PromotionID = &id
		o.CouponCode = p.Code
	}
	for _, l := range lines {
		o.Lines = append(o.Lines, &order.Line{
			ID:          uuid.New(),
			ProductID:   l.ProductID,
			ProductName: l.Name,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			LineTotal:   l.LineTotal,
		})
	}
	return o
}

func (s *service) publishPlaced(ctx context.Context, o *order.Order) {
	ev := OrderPlaced{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		Total:       o.Total.StringFixed(2),
		PlacedAt:    o.CreatedAt,
	}
	if ev.PlacedAt.IsZero() {
		ev.PlacedAt = s.now().UTC()
	}
	for _, l := range o.Lines {
		ev.Items = append(ev.Items, PlacedItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
		})
	}
	if err := s.publisher.PublishEvent(ctx, s.topic, o.OrderNumber, ev); err != nil {
		s.log.Warn("order event not published",
			zap.String("order_number", o.OrderNumber),
			zap.String("topic", s.topic),
			zap.Error(err))
	}
}
