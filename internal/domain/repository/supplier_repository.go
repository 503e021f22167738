package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// SupplierRepository lectura de proveedores. Los borrados lógicamente no se devuelven.
type SupplierRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
}
