package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// PurchaseRepository persistencia del agregado Purchase (cabecera + items).
type PurchaseRepository interface {
	// Create inserta la cabecera y todos sus items.
	Create(ctx context.Context, p *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Purchase, int, error)
	// Delete elimina la cabecera; los items caen en cascada.
	Delete(ctx context.Context, id string) error
}
