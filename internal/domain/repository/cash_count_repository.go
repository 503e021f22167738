package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// CashCountRepository persistencia de arqueos de caja.
type CashCountRepository interface {
	// Create devuelve domain.ErrDuplicate si ya existe un arqueo para ese día.
	Create(ctx context.Context, c *entity.CashCount) error
	GetByID(ctx context.Context, id string) (*entity.CashCount, error)
	GetByDate(ctx context.Context, day time.Time) (*entity.CashCount, error)
	List(ctx context.Context, limit, offset int) ([]*entity.CashCount, int, error)
}
