package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/textnorm"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, name, COALESCE(category_id, ''), description, purchase_price, sale_price,
	stock, min_stock, active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.CategoryID, &p.Description, &p.PurchasePrice, &p.SalePrice,
		&p.Stock, &p.MinStock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un producto. search_key se deriva de código y nombre.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, code, name, category_id, description, purchase_price, sale_price,
			stock, min_stock, active, search_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, nullable(p.CategoryID), p.Description, p.PurchasePrice, p.SalePrice,
		p.Stock, p.MinStock, p.Active, textnorm.SearchKey(p.Code, p.Name), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) get(ctx context.Context, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

// GetByCode obtiene un producto por código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE code = $1`, code)
}

// Update actualiza los datos maestros. No toca stock ni código.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, category_id = $3, description = $4, purchase_price = $5,
			sale_price = $6, min_stock = $7, active = $8, search_key = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, nullable(p.CategoryID), p.Description, p.PurchasePrice,
		p.SalePrice, p.MinStock, p.Active, textnorm.SearchKey(p.Code, p.Name), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock fija el stock. El CHECK stock >= 0 respalda la validación del ledger.
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, stock int) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("producto", id)
	}
	return nil
}

// List busca por código o nombre sin tildes y devuelve el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	term := textnorm.Fold(f.Search)

	var total int
	if err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE ($1 = '' OR search_key LIKE '%' || $1 || '%')`, term,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE ($1 = '' OR search_key LIKE '%' || $1 || '%')
		ORDER BY name ASC LIMIT $2 OFFSET $3`, term, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	list, err := collectProducts(rows)
	return list, total, err
}

// ListLowStock productos activos con stock <= mínimo, mayor déficit primero.
func (r *ProductRepo) ListLowStock(ctx context.Context, limit int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE active AND stock <= min_stock
		ORDER BY (min_stock - stock) DESC, name ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
