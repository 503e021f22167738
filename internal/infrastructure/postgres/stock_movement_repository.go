package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `m.id, m.product_id, m.type, m.origin, m.quantity, m.stock_before, m.stock_after,
	COALESCE(m.reference_id, ''), m.notes, m.user_id, m.moved_at, m.created_at,
	p.code, p.name, COALESCE(u.name, '')`

// movementFrom une el producto y el usuario para devolver nombres legibles.
const movementFrom = `
	FROM stock_movements m
	JOIN products p ON p.id = m.product_id
	LEFT JOIN users u ON u.id = m.user_id`

// StockMovementRepo ledger append-only. seq desempata movimientos con el mismo moved_at.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(&m.ID, &m.ProductID, &m.Type, &m.Origin, &m.Quantity, &m.StockBefore, &m.StockAfter,
		&m.ReferenceID, &m.Notes, &m.UserID, &m.MovedAt, &m.CreatedAt,
		&m.ProductCode, &m.ProductName, &m.UserName)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create agrega el movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, type, origin, quantity, stock_before, stock_after,
			reference_id, notes, user_id, moved_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.Type, m.Origin, m.Quantity, m.StockBefore, m.StockAfter,
		nullable(m.ReferenceID), m.Notes, m.UserID, m.MovedAt, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+movementFrom+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

const movementWhere = `
	WHERE ($1 = '' OR m.product_id = $1)
	  AND ($2 = '' OR m.type = $2)
	  AND ($3 = '' OR m.origin = $3)
	  AND ($4 = '' OR m.reference_id = $4)`

// List filtra el ledger, más reciente primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	args := []any{f.ProductID, f.Type, f.Origin, f.ReferenceID}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements m`+movementWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock movements: %w", err)
	}

	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+movementFrom+movementWhere+`
		ORDER BY m.moved_at DESC, m.seq DESC LIMIT $5 OFFSET $6`, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock movements: %w", err)
	}
	list, err := collectMovements(rows)
	return list, total, err
}

// ListByReference movimientos de una compra o venta en orden de inserción.
func (r *StockMovementRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+movementFrom+`
		WHERE m.reference_id = $1 ORDER BY m.seq ASC`, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
