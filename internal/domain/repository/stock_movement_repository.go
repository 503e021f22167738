package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// MovementFilter filtros de consulta del ledger. Campos vacíos no filtran.
type MovementFilter struct {
	ProductID   string
	Type        string
	Origin      string
	ReferenceID string
	Limit       int
	Offset      int
}

// StockMovementRepository puerto de persistencia del ledger. Append-only:
// no expone update ni delete.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// List ordena por fecha de movimiento descendente y devuelve el total sin paginar.
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, int, error)
	// ListByReference devuelve los movimientos de una compra/venta en orden de inserción.
	ListByReference(ctx context.Context, referenceID string) ([]*entity.StockMovement, error)
}
