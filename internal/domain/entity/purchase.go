package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase es el agregado de una compra a proveedor. Es dueño de sus Items.
type Purchase struct {
	ID           string
	SupplierID   string
	SupplierName string // solo lectura, lo completa el repositorio
	Date         time.Time
	Total        decimal.Decimal
	UserID       string
	Items        []*PurchaseItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PurchaseItem línea de una compra.
type PurchaseItem struct {
	ID          string
	PurchaseID  string
	ProductID   string
	ProductName string // solo lectura
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
