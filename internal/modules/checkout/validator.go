package checkout

import (
	"context"
	"errors"
	"math"

	"github.com/georgemunganga/storefront-checkout/internal/apperr"
	"github.com/georgemunganga/storefront-checkout/internal/modules/catalog"
	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest quantity one product can have in a cart, after
// duplicate lines are merged. Stock is stored as a 32-bit INTEGER.
const MaxQuantity = math.MaxInt32

// Validator resolves cart lines against the catalog. It never writes; the
// stock check here is a pre-check, the commit re-checks atomically.
type Validator struct {
	products catalog.Repository
}

func NewValidator(products catalog.Repository) *Validator {
	return &Validator{products: products}
}

// Validate merges duplicate product ids, then snapshots name and price for
// each line. The output keeps the order in which products first appeared.
func (v *Validator) Validate(ctx context.Context, lines []CartLine) ([]ValidatedLine, error) {
	if len(lines) == 0 {
		return nil, apperr.Validation("cart is empty")
	}

	merged := make([]CartLine, 0, len(lines))
	index := make(map[int64]int, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, apperr.Validation("quantity must be greater than 0 for product %d", l.ProductID)
		}
		if l.Quantity > MaxQuantity {
			return nil, apperr.Validation("quantity must be at most %d for product %d", MaxQuantity, l.ProductID)
		}
		if i, ok := index[l.ProductID]; ok {
			if merged[i].Quantity > MaxQuantity-l.Quantity {
				return nil, apperr.Validation("quantity must be at most %d for product %d", MaxQuantity, l.ProductID)
			}
			merged[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, l)
	}

	out := make([]ValidatedLine, 0, len(merged))
	for _, l := range merged {
		p, err := v.products.GetProduct(ctx, l.ProductID)
		if errors.Is(err, catalog.ErrProductNotFound) || (err == nil && !p.IsActive) {
			return nil, apperr.NotFound("product not found: %d", l.ProductID)
		}
		if err != nil {
			return nil, err
		}
		if p.Stock < l.Quantity {
			return nil, apperr.InsufficientStock("insufficient stock for product: %s", p.Name)
		}
		out = append(out, ValidatedLine{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  l.Quantity,
			LineTotal: p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}
	return out, nil
}
