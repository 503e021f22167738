package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock inicial es 0;
// las existencias entran por compras o ajustes.
type CreateProductRequest struct {
	Code          string          `json:"code" validate:"required,min=1,max=50"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	CategoryID    string          `json:"category_id" validate:"omitempty,uuid"`
	Description   string          `json:"description" validate:"max=1000"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MinStock      int             `json:"min_stock" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Stock).
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	CategoryID    *string          `json:"category_id" validate:"omitempty,uuid"`
	Description   *string          `json:"description" validate:"omitempty,max=1000"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	MinStock      *int             `json:"min_stock" validate:"omitempty,min=0"`
	Active        *bool            `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	CategoryID    string          `json:"category_id,omitempty"`
	Description   string          `json:"description"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Stock         int             `json:"stock"`
	MinStock      int             `json:"min_stock"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// LowStockSuggestionDTO producto en o por debajo de su stock mínimo con la
// cantidad sugerida para volver al stock ideal (1.5 × mínimo).
type LowStockSuggestionDTO struct {
	ProductID         string          `json:"product_id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	CurrentStock      int             `json:"current_stock"`
	MinStock          int             `json:"min_stock"`
	IdealStock        int             `json:"ideal_stock"`
	SuggestedOrderQty int             `json:"suggested_order_qty"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	Priority          int             `json:"priority"`
}
