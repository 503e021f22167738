package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx
// y hace Commit o Rollback. Los bloqueos de fila se toman con SELECT ... FOR UPDATE.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(txRepos{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txRepos repositorios que comparten el mismo Querier (pool o tx).
type txRepos struct {
	q Querier
}

func (t txRepos) Products() repository.ProductRepository {
	return NewProductRepository(t.q)
}

func (t txRepos) Movements() repository.StockMovementRepository {
	return NewStockMovementRepository(t.q)
}

func (t txRepos) Purchases() repository.PurchaseRepository {
	return NewPurchaseRepository(t.q)
}

func (t txRepos) Sales() repository.SaleRepository {
	return NewSaleRepository(t.q)
}

func (t txRepos) Suppliers() repository.SupplierRepository {
	return NewSupplierRepository(t.q)
}

func (t txRepos) Customers() repository.CustomerRepository {
	return NewCustomerRepository(t.q)
}
