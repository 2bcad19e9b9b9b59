package promotion

import (
	"time"

	"github.com/georgemunganga/storefront-checkout/internal/apperr"
	"github.com/shopspring/decimal"
)

// Type selects how a promotion changes the price.
type Type string

const (
	TypePercentage   Type = "percentage"
	TypeFixed        Type = "fixed"
	TypeFreeShipping Type = "free_shipping"
)

var hundred = decimal.NewFromInt(100)

// Promotion is a discount or shipping waiver addressable by code.
// MaxDiscountAmount only applies to percentage promotions; nil bounds and a
// nil UsageLimit mean unconstrained.
type Promotion struct {
	ID                int64               `json:"id"`
	Name              string              `json:"name"`
	Code              string              `json:"code"`
	Type              Type                `json:"type"`
	Value             decimal.Decimal     `json:"value"`
	MinOrderAmount    decimal.Decimal     `json:"min_order_amount"`
	MaxDiscountAmount decimal.NullDecimal `json:"max_discount_amount"`
	UsageLimit        *int                `json:"usage_limit,omitempty"`
	UsedCount         int                 `json:"used_count"`
	StartDate         *time.Time          `json:"start_date,omitempty"`
	EndDate           *time.Time          `json:"end_date,omitempty"`
	IsActive          bool                `json:"is_active"`
}

// CheckAvailable reports whether the code is redeemable at all at now:
// active and inside its validity window.
func (p *Promotion) CheckAvailable(now time.Time) error {
	if !p.IsActive {
		return apperr.InvalidPromotion("promotion code %s is not active", p.Code)
	}
	if p.StartDate != nil && now.Before(*p.StartDate) {
		return apperr.InvalidPromotion("promotion code %s is not valid yet", p.Code)
	}
	if p.EndDate != nil && now.After(*p.EndDate) {
		return apperr.InvalidPromotion("promotion code %s has expired", p.Code)
	}
	return nil
}

// CheckEligibility extends CheckAvailable with the order-specific gates:
// minimum order amount and usage limit.
func (p *Promotion) CheckEligibility(now time.Time, subtotal decimal.Decimal) error {
	if err := p.CheckAvailable(now); err != nil {
		return err
	}
	if subtotal.LessThan(p.MinOrderAmount) {
		return apperr.InvalidPromotion("promotion code %s requires a minimum order of %s",
			p.Code, p.MinOrderAmount.StringFixed(2))
	}
	if p.UsageLimit != nil && p.UsedCount >= *p.UsageLimit {
		return apperr.InvalidPromotion("promotion code %s has reached its usage limit", p.Code)
	}
	return nil
}

// Discount computes the subtotal discount and the resulting shipping fee.
// The discount never exceeds the subtotal.
func (p *Promotion) Discount(subtotal, shipping decimal.Decimal) (discount, newShipping decimal.Decimal) {
	switch p.Type {
	case TypePercentage:
		discount = subtotal.Mul(p.Value).Div(hundred).Round(2)
		if p.MaxDiscountAmount.Valid && discount.GreaterThan(p.MaxDiscountAmount.Decimal) {
			discount = p.MaxDiscountAmount.Decimal
		}
	case TypeFixed:
		discount = p.Value
	case TypeFreeShipping:
		return decimal.Zero, decimal.Zero
	default:
		return decimal.Zero, shipping
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return discount, shipping
}
