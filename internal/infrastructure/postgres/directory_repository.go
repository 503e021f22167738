package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var (
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
)

// SupplierRepo lectura de proveedores no borrados.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// GetByID devuelve (nil, nil) si no existe o está borrado lógicamente.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.q.QueryRow(ctx, `
		SELECT id, name, tax_id, phone, email, created_at, updated_at
		FROM suppliers WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&s.ID, &s.Name, &s.TaxID, &s.Phone, &s.Email, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// CustomerRepo lectura de clientes.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.q.QueryRow(ctx, `
		SELECT id, name, tax_id, email, phone, created_at, updated_at
		FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.TaxID, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}
