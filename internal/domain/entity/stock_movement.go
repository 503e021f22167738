package entity

import "time"

// Tipos de movimiento de almacén.
const (
	MovementTypeEntrada       = "ENTRADA"
	MovementTypeSalida        = "SALIDA"
	MovementTypeAjusteEntrada = "AJUSTE_ENTRADA"
	MovementTypeAjusteSalida  = "AJUSTE_SALIDA"
)

// Origen (razón de negocio) de un movimiento.
const (
	OriginCompra           = "COMPRA"
	OriginVenta            = "VENTA"
	OriginAjusteManual     = "AJUSTE_MANUAL"
	OriginDevolucionCompra = "DEVOLUCION_COMPRA"
	OriginDevolucionVenta  = "DEVOLUCION_VENTA"
)

// StockMovement es un registro de auditoría inmutable de un cambio de stock.
// StockAfter = StockBefore ± Quantity según Type.
type StockMovement struct {
	ID          string
	ProductID   string
	Type        string
	Origin      string
	Quantity    int // siempre positiva; el signo lo da Type
	StockBefore int
	StockAfter  int
	ReferenceID string // compra o venta que originó el movimiento (opcional)
	Notes       string
	UserID      string
	MovedAt     time.Time
	CreatedAt   time.Time

	// Solo lectura: se resuelven al consultar.
	ProductCode string
	ProductName string
	UserName    string
}

// ValidMovementType indica si t es uno de los tipos conocidos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntrada, MovementTypeSalida, MovementTypeAjusteEntrada, MovementTypeAjusteSalida:
		return true
	}
	return false
}

// ValidOrigin indica si o es uno de los orígenes conocidos.
func ValidOrigin(o string) bool {
	switch o {
	case OriginCompra, OriginVenta, OriginAjusteManual, OriginDevolucionCompra, OriginDevolucionVenta:
		return true
	}
	return false
}

// SignedQuantity devuelve la variación de stock que produce un movimiento del tipo t.
func SignedQuantity(t string, quantity int) int {
	switch t {
	case MovementTypeSalida, MovementTypeAjusteSalida:
		return -quantity
	default:
		return quantity
	}
}
