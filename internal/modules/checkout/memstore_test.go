package checkout

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/georgemunganga/storefront-checkout/internal/modules/catalog"
	"github.com/georgemunganga/storefront-checkout/internal/modules/order"
	"github.com/georgemunganga/storefront-checkout/internal/modules/promotion"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory Store with the same conditional-update contract
// as the Postgres one. A transaction holds the mutex for its whole duration
// and restores a snapshot when fn fails.
type memStore struct {
	mu         sync.Mutex
	products   map[int64]*catalog.Product
	promotions map[int64]*promotion.Promotion
	orders     map[uuid.UUID]*order.Order
	lines      map[uuid.UUID][]order.Line
	numbers    map[string]bool

	// interleave runs once, at the start of the next transaction.
	interleave func(*memStore)
	failLines  error
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[int64]*catalog.Product{},
		promotions: map[int64]*promotion.Promotion{},
		orders:     map[uuid.UUID]*order.Order{},
		lines:      map[uuid.UUID][]order.Line{},
		numbers:    map[string]bool{},
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intPtr(n int) *int { return &n }

func (s *memStore) addProduct(id int64, name, price string, stock int) {
	s.products[id] = &catalog.Product{ID: id, Name: name, Price: dec(price), Stock: stock, IsActive: true}
}

func (s *memStore) addPromotion(p *promotion.Promotion) { s.promotions[p.ID] = p }

func (s *memStore) stock(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func (s *memStore) usedCount(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.promotions[id].UsedCount
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *memStore) lineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ls := range s.lines {
		n += len(ls)
	}
	return n
}

type memSnapshot struct {
	stock   map[int64]int
	used    map[int64]int
	orders  map[uuid.UUID]*order.Order
	lines   map[uuid.UUID][]order.Line
	numbers map[string]bool
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		stock:   map[int64]int{},
		used:    map[int64]int{},
		orders:  map[uuid.UUID]*order.Order{},
		lines:   map[uuid.UUID][]order.Line{},
		numbers: map[string]bool{},
	}
	for id, p := range s.products {
		snap.stock[id] = p.Stock
	}
	for id, p := range s.promotions {
		snap.used[id] = p.UsedCount
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.lines {
		snap.lines[k] = v
	}
	for k, v := range s.numbers {
		snap.numbers[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	for id, n := range snap.stock {
		s.products[id].Stock = n
	}
	for id, n := range snap.used {
		s.promotions[id].UsedCount = n
	}
	s.orders, s.lines, s.numbers = snap.orders, snap.lines, snap.numbers
}

func (s *memStore) WithinTx(_ context.Context, fn func(UnitOfWork) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f := s.interleave; f != nil {
		s.interleave = nil
		f(s)
	}
	snap := s.snapshot()
	if err := fn(&memTx{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// memTx runs with memStore.mu held.
type memTx struct{ s *memStore }

func (t *memTx) DecrementStock(_ context.Context, id int64, qty int) (bool, error) {
	p, ok := t.s.products[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	return true, nil
}

func (t *memTx) InsertOrder(_ context.Context, o *order.Order) (bool, error) {
	if t.s.numbers[o.OrderNumber] {
		return false, nil
	}
	t.s.numbers[o.OrderNumber] = true
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	cp := *o
	cp.Lines = nil
	t.s.orders[o.ID] = &cp
	return true, nil
}

func (t *memTx) InsertLines(_ context.Context, orderID uuid.UUID, lines []*order.Line) error {
	if t.s.failLines != nil {
		return t.s.failLines
	}
	stored := make([]order.Line, 0, len(lines))
	for _, l := range lines {
		l.OrderID = orderID
		stored = append(stored, *l)
	}
	t.s.lines[orderID] = stored
	return nil
}

// IncrementPromotionUsage applies the same predicate as the Postgres update:
// the stored row must still grant what applied did.
func (t *memTx) IncrementPromotionUsage(_ context.Context, applied *promotion.Promotion, subtotal decimal.Decimal) (bool, error) {
	p, ok := t.s.promotions[applied.ID]
	if !ok || !p.IsActive {
		return false, nil
	}
	now := time.Now()
	if (p.StartDate != nil && p.StartDate.After(now)) || (p.EndDate != nil && p.EndDate.Before(now)) {
		return false, nil
	}
	if p.MinOrderAmount.GreaterThan(subtotal) || p.Type != applied.Type || !p.Value.Equal(applied.Value) {
		return false, nil
	}
	if p.MaxDiscountAmount.Valid != applied.MaxDiscountAmount.Valid ||
		!p.MaxDiscountAmount.Decimal.Equal(applied.MaxDiscountAmount.Decimal) {
		return false, nil
	}
	if p.UsageLimit != nil && p.UsedCount >= *p.UsageLimit {
		return false, nil
	}
	p.UsedCount++
	return true, nil
}

// catalogView is the committed catalog as the validator sees it.
type catalogView struct{ s *memStore }

func (v catalogView) GetProduct(_ context.Context, id int64) (*catalog.Product, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	p, ok := v.s.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (v catalogView) DecrementStock(ctx context.Context, id int64, qty int) (bool, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return (&memTx{s: v.s}).DecrementStock(ctx, id, qty)
}

// promotionView finds promotions by code, case-insensitively.
type promotionView struct{ s *memStore }

func (v promotionView) GetByCode(_ context.Context, code string) (*promotion.Promotion, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	for _, p := range v.s.promotions {
		if strings.EqualFold(p.Code, code) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, promotion.ErrPromotionNotFound
}
