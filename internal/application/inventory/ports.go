package inventory

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}
