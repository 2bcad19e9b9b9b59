package checkout

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/georgemunganga/storefront-checkout/internal/apperr"
	"github.com/georgemunganga/storefront-checkout/internal/modules/catalog"
	"github.com/georgemunganga/storefront-checkout/internal/modules/order"
	"github.com/georgemunganga/storefront-checkout/internal/modules/promotion"
	"github.com/georgemunganga/storefront-checkout/internal/platform/postgres"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type postgresStore struct {
	db          *sql.DB
	lockTimeout time.Duration
}

// NewPostgresStore commits checkouts in a Read Committed transaction. Row
// locks taken by the conditional updates serialize competing checkouts;
// lockTimeout bounds how long one waits for another.
func NewPostgresStore(db *sql.DB, lockTimeout time.Duration) Store {
	return &postgresStore{db: db, lockTimeout: lockTimeout}
}

func (s *postgresStore) WithinTx(ctx context.Context, fn func(UnitOfWork) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	err := postgres.WithTx(ctx, s.db, opts, func(tx *sql.Tx) error {
		if err := postgres.SetLockTimeout(ctx, tx, s.lockTimeout); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
		return fn(&txUnit{
			products:   catalog.NewPostgresRepository(tx),
			orders:     order.NewPostgresRepository(tx),
			promotions: promotion.NewPostgresRepository(tx),
		})
	})
	if err != nil && postgres.IsTransient(err) {
		return apperr.Unavailable(err, "checkout could not be completed, please retry")
	}
	return err
}

// txUnit binds the module repositories to one transaction.
type txUnit struct {
	products   catalog.Repository
	orders     order.Repository
	promotions promotion.Repository
}

func (u *txUnit) DecrementStock(ctx context.Context, productID int64, qty int) (bool, error) {
	return u.products.DecrementStock(ctx, productID, qty)
}

func (u *txUnit) InsertOrder(ctx context.Context, o *order.Order) (bool, error) {
	return u.orders.Insert(ctx, o)
}

func (u *txUnit) InsertLines(ctx context.Context, orderID uuid.UUID, lines []*order.Line) error {
	return u.orders.InsertLines(ctx, orderID, lines)
}

func (u *txUnit) IncrementPromotionUsage(ctx context.Context, p *promotion.Promotion, subtotal decimal.Decimal) (bool, error) {
	return u.promotions.IncrementUsage(ctx, p, subtotal)
}
