package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCashCountRequest body para POST /api/cash-counts. Date en formato YYYY-MM-DD (vacío = hoy).
type CreateCashCountRequest struct {
	Date          string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	CountedCash   decimal.Decimal `json:"counted_cash"`
	Notes         string          `json:"notes" validate:"max=500"`
}

// CashCountResponse arqueo de caja.
type CashCountResponse struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	OpeningAmount  decimal.Decimal `json:"opening_amount"`
	TotalCollected decimal.Decimal `json:"total_collected"`
	TotalCash      decimal.Decimal `json:"total_cash"`
	TotalCard      decimal.Decimal `json:"total_card"`
	TotalTransfer  decimal.Decimal `json:"total_transfer"`
	CountedCash    decimal.Decimal `json:"counted_cash"`
	Difference     decimal.Decimal `json:"difference"`
	Notes          string          `json:"notes,omitempty"`
	UserID         string          `json:"user_id"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CashCountListResponse lista paginada de arqueos.
type CashCountListResponse struct {
	Items []CashCountResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
