package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de una venta. UnitPrice cero = precio de venta del producto.
type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,gt=0,max=2147483647"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body para POST /api/sales. CustomerID vacío = consumidor final.
type CreateSaleRequest struct {
	CustomerID    string            `json:"customer_id" validate:"omitempty,uuid"`
	Date          *time.Time        `json:"date"`
	PaymentMethod string            `json:"payment_method" validate:"omitempty,oneof=EFECTIVO TARJETA TRANSFERENCIA"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleQuery filtros de GET /api/sales. Fechas en formato YYYY-MM-DD, inclusivas.
type SaleQuery struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	Limit     int    `query:"limit" validate:"min=0"`
	Offset    int    `query:"offset" validate:"min=0"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta con cliente y líneas.
type SaleResponse struct {
	ID            string             `json:"id"`
	CustomerID    string             `json:"customer_id,omitempty"`
	CustomerName  string             `json:"customer_name"`
	Date          time.Time          `json:"date"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	UserID        string             `json:"user_id"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
