package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Formas de pago.
const (
	PaymentEfectivo      = "EFECTIVO"
	PaymentTarjeta       = "TARJETA"
	PaymentTransferencia = "TRANSFERENCIA"
)

// ValidPaymentMethod indica si m es una forma de pago conocida.
func ValidPaymentMethod(m string) bool {
	return m == PaymentEfectivo || m == PaymentTarjeta || m == PaymentTransferencia
}

// Sale es el agregado de una venta. CustomerID vacío = consumidor final.
type Sale struct {
	ID            string
	CustomerID    string
	CustomerName  string // solo lectura
	Date          time.Time
	Total         decimal.Decimal
	PaymentMethod string
	UserID        string
	Items         []*SaleItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleItem línea de una venta.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string // solo lectura
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
