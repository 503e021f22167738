package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	Type        string `json:"type" validate:"required,oneof=ENTRADA SALIDA AJUSTE_ENTRADA AJUSTE_SALIDA"`
	Origin      string `json:"origin" validate:"omitempty,oneof=COMPRA VENTA AJUSTE_MANUAL DEVOLUCION_COMPRA DEVOLUCION_VENTA"`
	Quantity    int    `json:"quantity" validate:"required,gt=0,max=2147483647"`
	ReferenceID string `json:"reference_id" validate:"omitempty,max=100"`
	Notes       string `json:"notes" validate:"max=500"`
}

// MovementQuery filtros de GET /api/inventory/movements.
type MovementQuery struct {
	ProductID   string `query:"product_id"`
	Type        string `query:"type" validate:"omitempty,oneof=ENTRADA SALIDA AJUSTE_ENTRADA AJUSTE_SALIDA"`
	Origin      string `query:"origin" validate:"omitempty,oneof=COMPRA VENTA AJUSTE_MANUAL DEVOLUCION_COMPRA DEVOLUCION_VENTA"`
	ReferenceID string `query:"reference_id"`
	Limit       int    `query:"limit" validate:"min=0"`
	Offset      int    `query:"offset" validate:"min=0"`
}

// MovementResponse salida de un movimiento de almacén.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductCode string    `json:"product_code,omitempty"`
	ProductName string    `json:"product_name,omitempty"`
	Type        string    `json:"type"`
	Origin      string    `json:"origin"`
	Quantity    int       `json:"quantity"`
	StockBefore int       `json:"stock_before"`
	StockAfter  int       `json:"stock_after"`
	ReferenceID string    `json:"reference_id,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name,omitempty"`
	MovedAt     time.Time `json:"moved_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
