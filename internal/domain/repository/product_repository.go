package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// ProductFilter filtros de listado del catálogo.
type ProductFilter struct {
	Search string // código o nombre, sin distinguir tildes ni mayúsculas
	Limit  int
	Offset int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos devuelven (nil, nil) cuando el registro no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDForUpdate lee el producto bloqueando su fila hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// Update no modifica Stock.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock solo debe invocarlo el ledger, dentro de la misma transacción que inserta el movimiento.
	UpdateStock(ctx context.Context, id string, stock int) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
	ListLowStock(ctx context.Context, limit int) ([]*entity.Product, error)
}
