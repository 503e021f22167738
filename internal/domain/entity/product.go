package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock es el acumulado denormalizado de sus movimientos; solo el ledger lo modifica.
type Product struct {
	ID            string
	Code          string // único
	Name          string
	CategoryID    string
	Description   string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	Stock         int
	MinStock      int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el stock está en o por debajo del mínimo configurado.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
