package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseSelect = `
	SELECT p.id, p.supplier_id, COALESCE(s.name, ''), p.date, p.total, p.user_id, p.created_at, p.updated_at
	FROM purchases p
	LEFT JOIN suppliers s ON s.id = p.supplier_id`

// PurchaseRepo agregado compra: cabecera en purchases, líneas en purchase_items.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	if err := row.Scan(&p.ID, &p.SupplierID, &p.SupplierName, &p.Date, &p.Total, &p.UserID,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserta cabecera e items. Debe correr dentro de una tx.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (id, supplier_id, date, total, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.SupplierID, p.Date, p.Total, p.UserID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	for _, it := range p.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_items (id, purchase_id, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, p.ID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert purchase item: %w", err)
		}
	}
	return nil
}

func (r *PurchaseRepo) get(ctx context.Context, query, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	items, err := r.items(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Items = items[p.ID]
	return p, nil
}

// GetByID obtiene la compra con sus líneas.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, purchaseSelect+` WHERE p.id = $1`, id)
}

// GetByIDForUpdate bloquea la cabecera: dos anulaciones concurrentes se serializan.
func (r *PurchaseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, purchaseSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id)
}

// List compras por fecha descendente con sus líneas.
func (r *PurchaseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Purchase, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM purchases`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}
	rows, err := r.q.Query(ctx, purchaseSelect+` ORDER BY p.date DESC, p.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	var ids []string
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, p := range list {
		p.Items = items[p.ID]
	}
	return list, total, nil
}

func (r *PurchaseRepo) items(ctx context.Context, purchaseIDs []string) (map[string][]*entity.PurchaseItem, error) {
	out := make(map[string][]*entity.PurchaseItem, len(purchaseIDs))
	if len(purchaseIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.purchase_id, i.product_id, COALESCE(pr.name, ''), i.quantity, i.unit_price, i.subtotal
		FROM purchase_items i
		LEFT JOIN products pr ON pr.id = i.product_id
		WHERE i.purchase_id = ANY($1)
		ORDER BY i.seq`, purchaseIDs)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.ProductName, &it.Quantity,
			&it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		out[it.PurchaseID] = append(out[it.PurchaseID], &it)
	}
	return out, rows.Err()
}

// Delete elimina la cabecera; purchase_items cae por ON DELETE CASCADE.
func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("compra", id)
	}
	return nil
}
