package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog's sellable item. Price is authoritative; Stock never goes below zero.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	IsActive  bool            `json:"is_active"`
	UpdatedAt time.Time       `json:"updated_at"`
}
