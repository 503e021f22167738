package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// SaleFilter rango [From, To) sobre la fecha de venta; cero = sin límite.
type SaleFilter struct {
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// SaleRepository persistencia del agregado Sale (cabecera + items).
type SaleRepository interface {
	Create(ctx context.Context, s *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, int, error)
	Delete(ctx context.Context, id string) error
	// TotalsByPaymentMethod suma el total de las ventas de [from, to) por forma de pago.
	TotalsByPaymentMethod(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error)
}
