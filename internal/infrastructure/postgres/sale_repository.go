package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleSelect = `
	SELECT v.id, COALESCE(v.customer_id, ''), COALESCE(c.name, ''), v.date, v.total, v.payment_method,
		v.user_id, v.created_at, v.updated_at
	FROM sales v
	LEFT JOIN customers c ON c.id = v.customer_id`

// El rango [from, to) admite extremos abiertos: NULL = sin límite.
const saleRange = `
	($1::timestamptz IS NULL OR v.date >= $1) AND ($2::timestamptz IS NULL OR v.date < $2)`

// SaleRepo agregado venta: cabecera en sales, líneas en sale_items.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	if err := row.Scan(&s.ID, &s.CustomerID, &s.CustomerName, &s.Date, &s.Total, &s.PaymentMethod,
		&s.UserID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// Create inserta cabecera e items. Debe correr dentro de una tx.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, customer_id, date, total, payment_method, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, nullable(s.CustomerID), s.Date, s.Total, s.PaymentMethod, s.UserID, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, it := range s.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, s.ID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := r.items(ctx, []string{s.ID})
	if err != nil {
		return nil, err
	}
	s.Items = items[s.ID]
	return s, nil
}

// GetByID obtiene la venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, saleSelect+` WHERE v.id = $1`, id)
}

// GetByIDForUpdate bloquea la cabecera de la venta.
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, saleSelect+` WHERE v.id = $1 FOR UPDATE OF v`, id)
}

// List ventas del rango por fecha descendente.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	from, to := nullTime(f.From), nullTime(f.To)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales v WHERE`+saleRange, from, to).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	rows, err := r.q.Query(ctx, saleSelect+` WHERE`+saleRange+`
		ORDER BY v.date DESC, v.created_at DESC LIMIT $3 OFFSET $4`, from, to, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	var ids []string
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, s := range list {
		s.Items = items[s.ID]
	}
	return list, total, nil
}

func (r *SaleRepo) items(ctx context.Context, saleIDs []string) (map[string][]*entity.SaleItem, error) {
	out := make(map[string][]*entity.SaleItem, len(saleIDs))
	if len(saleIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.sale_id, i.product_id, COALESCE(pr.name, ''), i.quantity, i.unit_price, i.subtotal
		FROM sale_items i
		LEFT JOIN products pr ON pr.id = i.product_id
		WHERE i.sale_id = ANY($1)
		ORDER BY i.seq`, saleIDs)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.Quantity,
			&it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		out[it.SaleID] = append(out[it.SaleID], &it)
	}
	return out, rows.Err()
}

// Delete elimina la cabecera; sale_items cae por ON DELETE CASCADE.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("venta", id)
	}
	return nil
}

// TotalsByPaymentMethod suma ventas de [from, to) agrupadas por forma de pago.
func (r *SaleRepo) TotalsByPaymentMethod(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT v.payment_method, COALESCE(SUM(v.total), 0)
		FROM sales v WHERE`+saleRange+`
		GROUP BY v.payment_method`, nullTime(from), nullTime(to))
	if err != nil {
		return nil, fmt.Errorf("totals by payment method: %w", err)
	}
	defer rows.Close()
	out := map[string]decimal.Decimal{}
	for rows.Next() {
		var method string
		var total decimal.Decimal
		if err := rows.Scan(&method, &total); err != nil {
			return nil, fmt.Errorf("scan payment totals: %w", err)
		}
		out[method] = total
	}
	return out, rows.Err()
}
