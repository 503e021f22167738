package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashCount arqueo de caja de un día.
// Difference = CountedCash - (OpeningAmount + TotalCash).
type CashCount struct {
	ID             string
	Date           time.Time // día del arqueo (00:00 en la zona de la tienda)
	OpeningAmount  decimal.Decimal
	TotalCollected decimal.Decimal
	TotalCash      decimal.Decimal
	TotalCard      decimal.Decimal
	TotalTransfer  decimal.Decimal
	CountedCash    decimal.Decimal
	Difference     decimal.Decimal
	Notes          string
	UserID         string
	CreatedAt      time.Time
}
