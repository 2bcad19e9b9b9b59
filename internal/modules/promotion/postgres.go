package promotion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/storefront-checkout/internal/platform/postgres"
	"github.com/shopspring/decimal"
)

type postgresRepo struct{ db postgres.DBTX }

func NewPostgresRepository(db postgres.DBTX) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*Promotion, error) {
	p := &Promotion{}
	var (
		promoCode  sql.NullString
		usageLimit sql.NullInt64
		start, end sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, code, type, value, min_order_amount, max_discount_amount,
		       usage_limit, used_count, start_date, end_date, is_active
		FROM promotions WHERE upper(code) = upper($1)`, code).
		Scan(&p.ID, &p.Name, &promoCode, &p.Type, &p.Value, &p.MinOrderAmount, &p.MaxDiscountAmount,
			&usageLimit, &p.UsedCount, &start, &end, &p.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPromotionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get promotion %q: %w", code, err)
	}
	p.Code = promoCode.String
	if usageLimit.Valid {
		n := int(usageLimit.Int64)
		p.UsageLimit = &n
	}
	if start.Valid {
		p.StartDate = &start.Time
	}
	if end.Valid {
		p.EndDate = &end.Time
	}
	return p, nil
}

func (r *postgresRepo) IncrementUsage(ctx context.Context, p *Promotion, subtotal decimal.Decimal) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE promotions SET used_count = used_count + 1, updated_at = NOW()
		WHERE id = $1 AND is_active
		  AND (start_date IS NULL OR start_date <= NOW())
		  AND (end_date IS NULL OR end_date >= NOW())
		  AND min_order_amount <= $2
		  AND type = $3 AND value = $4
		  AND max_discount_amount IS NOT DISTINCT FROM $5
		  AND (usage_limit IS NULL OR used_count < usage_limit)`,
		p.ID, subtotal, p.Type, p.Value, p.MaxDiscountAmount)
	if err != nil {
		return false, fmt.Errorf("increment usage for promotion %d: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
