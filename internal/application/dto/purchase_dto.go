package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItemRequest línea de una compra. UnitPrice cero = precio de compra del producto.
type PurchaseItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,gt=0,max=2147483647"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id" validate:"required,uuid"`
	Date       *time.Time            `json:"date"`
	Items      []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseItemResponse línea de compra en respuestas.
type PurchaseItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse compra con proveedor y líneas.
type PurchaseResponse struct {
	ID           string                 `json:"id"`
	SupplierID   string                 `json:"supplier_id"`
	SupplierName string                 `json:"supplier_name"`
	Date         time.Time              `json:"date"`
	Total        decimal.Decimal        `json:"total"`
	UserID       string                 `json:"user_id"`
	Items        []PurchaseItemResponse `json:"items"`
	CreatedAt    time.Time              `json:"created_at"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
