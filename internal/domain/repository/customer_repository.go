package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// CustomerRepository lectura de clientes.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
}
