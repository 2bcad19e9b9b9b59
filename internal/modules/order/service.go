package order

import (
	"context"
	"strings"

	"github.com/georgemunganga/storefront-checkout/internal/apperr"
	"github.com/georgemunganga/storefront-checkout/internal/modules/payment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Viewer is the caller an order read is performed for. Non-admins only see
// their own orders.
type Viewer struct {
	UserID uuid.UUID
	Admin  bool
}

func (v Viewer) canSee(o *Order) bool { return v.Admin || o.CustomerID == v.UserID }

// Service is the order-history and admin side of orders. Orders are created
// by the checkout module, never here.
type Service interface {
	// GetOrder retrieves a full order with its lines.
	GetOrder(ctx context.Context, id string, viewer Viewer) (*Order, error)

	// GetOrderByNumber retrieves an order by its human-readable number.
	GetOrderByNumber(ctx context.Context, orderNumber string, viewer Viewer) (*Order, error)

	// ListOrders returns the viewer's orders (every order for admins), optionally filtered by status.
	ListOrders(ctx context.Context, viewer Viewer, status string) ([]*Order, error)

	// UpdateOrder advances status and/or payment status along their state machines.
	UpdateOrder(ctx context.Context, id string, req UpdateRequest) (*Order, error)
}

type service struct {
	repo Repository
	log  *zap.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, log *zap.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) GetOrder(ctx context.Context, id string, viewer Viewer) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid order id")
	}
	o, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !viewer.canSee(o) {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *service) GetOrderByNumber(ctx context.Context, orderNumber string, viewer Viewer) (*Order, error) {
	o, err := s.repo.GetByNumber(ctx, strings.ToUpper(strings.TrimSpace(orderNumber)))
	if err != nil {
		return nil, err
	}
	if !viewer.canSee(o) {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *service) ListOrders(ctx context.Context, viewer Viewer, status string) ([]*Order, error) {
	f := ListFilter{}
	if !viewer.Admin {
		f.CustomerID = &viewer.UserID
	}
	if status != "" {
		st, ok := ParseStatus(status)
		if !ok {
			return nil, apperr.Validation("unknown order status %q", status)
		}
		f.Status = st
	}
	orders, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*Order{}
	}
	return orders, nil
}

func (s *service) UpdateOrder(ctx context.Context, id string, req UpdateRequest) (*Order, error) {
	if req.Status == "" && req.PaymentStatus == "" {
		return nil, apperr.Validation("status or payment_status is required")
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid order id")
	}
	o, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	newStatus := o.Status
	if req.Status != "" {
		st, ok := ParseStatus(req.Status)
		if !ok {
			return nil, apperr.Validation("unknown order status %q", req.Status)
		}
		if st != o.Status && !CanTransition(o.Status, st) {
			return nil, apperr.Conflict("cannot transition order from %s to %s", o.Status, st)
		}
		newStatus = st
	}

	newPayment := o.PaymentStatus
	if req.PaymentStatus != "" {
		ps, ok := payment.ParseStatus(req.PaymentStatus)
		if !ok {
			return nil, apperr.Validation("unknown payment status %q", req.PaymentStatus)
		}
		if ps != o.PaymentStatus && !payment.CanTransition(o.PaymentStatus, ps) {
			return nil, apperr.Conflict("cannot transition payment from %s to %s", o.PaymentStatus, ps)
		}
		newPayment = ps
	}

	notes := o.Notes
	if n := strings.TrimSpace(req.Notes); n != "" {
		notes = n
	}

	from := State{Status: o.Status, PaymentStatus: o.PaymentStatus}
	to := State{Status: newStatus, PaymentStatus: newPayment}
	if err := s.repo.Update(ctx, uid, from, to, notes); err != nil {
		return nil, err
	}
	s.log.Info("order_updated",
		zap.String("order_id", o.ID.String()),
		zap.String("status", string(newStatus)),
		zap.String("payment_status", string(newPayment)))

	o.Status, o.PaymentStatus, o.Notes = newStatus, newPayment, notes
	return o, nil
}
