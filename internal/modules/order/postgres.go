package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/georgemunganga/storefront-checkout/internal/platform/postgres"
	"github.com/google/uuid"
)

type postgresRepo struct{ db postgres.DBTX }

// NewPostgresRepository works on a *sql.DB or, inside a checkout, on the *sql.Tx.
func NewPostgresRepository(db postgres.DBTX) Repository { return &postgresRepo{db: db} }

const orderColumns = `id, order_number, customer_id, status, payment_status, payment_reference,
	promotion_id, coupon_code, subtotal, shipping, tax, discount, total,
	shipping_name, shipping_address, shipping_city, shipping_state, shipping_zip,
	notes, created_at, updated_at`

func (r *postgresRepo) Insert(ctx context.Context, o *Order) (bool, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO orders
		  (id, order_number, customer_id, status, payment_status, payment_reference,
		   promotion_id, coupon_code, subtotal, shipping, tax, discount, total,
		   shipping_name, shipping_address, shipping_city, shipping_state, shipping_zip, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (order_number) DO NOTHING
		RETURNING created_at, updated_at`,
		o.ID, o.OrderNumber, o.CustomerID, o.Status, o.PaymentStatus, o.PaymentReference,
		o.PromotionID, o.CouponCode, o.Subtotal, o.Shipping, o.Tax, o.Discount, o.Total,
		o.ShippingName, o.ShippingAddress, o.ShippingCity, o.ShippingState, o.ShippingZip, o.Notes).
		Scan(&o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// order_number collision
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert order: %w", err)
	}
	return true, nil
}

func (r *postgresRepo) InsertLines(ctx context.Context, orderID uuid.UUID, lines []*Line) error {
	for i, l := range lines {
		err := r.db.QueryRowContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, line_no, product_id, product_name, unit_price, quantity, line_total)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			RETURNING created_at`,
			l.ID, orderID, i+1, l.ProductID, l.ProductName, l.UnitPrice, l.Quantity, l.LineTotal).
			Scan(&l.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
		l.OrderID = orderID
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, id).Scan)
	if err != nil {
		return nil, notFound(err)
	}
	o.Lines, err = r.listLines(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_number=$1`, orderNumber).Scan)
	if err != nil {
		return nil, notFound(err)
	}
	o.Lines, err = r.listLines(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	var args []interface{}
	if f.CustomerID != nil {
		args = append(args, *f.CustomerID)
		query += ` AND customer_id=$` + strconv.Itoa(len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += ` AND status=$` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, id uuid.UUID, from, to State, notes string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status=$1, payment_status=$2, notes=$3, updated_at=NOW()
		WHERE id=$4 AND status=$5 AND payment_status=$6`,
		to.Status, to.PaymentStatus, notes, id, from.Status, from.PaymentStatus)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderChanged
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{}
	var promotionID sql.NullInt64
	err := scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.Status, &o.PaymentStatus, &o.PaymentReference,
		&promotionID, &o.CouponCode, &o.Subtotal, &o.Shipping, &o.Tax, &o.Discount, &o.Total,
		&o.ShippingName, &o.ShippingAddress, &o.ShippingCity, &o.ShippingState, &o.ShippingZip,
		&o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if promotionID.Valid {
		id := promotionID.Int64
		o.PromotionID = &id
	}
	return o, nil
}

func (r *postgresRepo) listLines(ctx context.Context, orderID uuid.UUID) ([]*Line, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, unit_price, quantity, line_total, created_at
		FROM order_items WHERE order_id=$1 ORDER BY line_no ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order_items: %w", err)
	}
	defer rows.Close()
	var lines []*Line
	for rows.Next() {
		l := &Line{}
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName,
			&l.UnitPrice, &l.Quantity, &l.LineTotal, &l.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	return fmt.Errorf("get order: %w", err)
}
