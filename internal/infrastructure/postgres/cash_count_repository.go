package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.CashCountRepository = (*CashCountRepo)(nil)

const cashCountSelect = `
	SELECT id, count_date, opening_amount, total_collected, total_cash, total_card, total_transfer,
		counted_cash, difference, notes, user_id, created_at
	FROM cash_counts`

// CashCountRepo arqueos de caja; count_date es UNIQUE.
type CashCountRepo struct {
	q Querier
}

// NewCashCountRepository construye el adaptador.
func NewCashCountRepository(q Querier) *CashCountRepo {
	return &CashCountRepo{q: q}
}

func scanCashCount(row pgx.Row) (*entity.CashCount, error) {
	var c entity.CashCount
	if err := row.Scan(&c.ID, &c.Date, &c.OpeningAmount, &c.TotalCollected, &c.TotalCash, &c.TotalCard,
		&c.TotalTransfer, &c.CountedCash, &c.Difference, &c.Notes, &c.UserID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste el arqueo; un segundo arqueo del mismo día devuelve ErrDuplicate.
func (r *CashCountRepo) Create(ctx context.Context, c *entity.CashCount) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO cash_counts (id, count_date, opening_amount, total_collected, total_cash, total_card,
			total_transfer, counted_cash, difference, notes, user_id, created_at)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.Date.Format(time.DateOnly), c.OpeningAmount, c.TotalCollected, c.TotalCash, c.TotalCard,
		c.TotalTransfer, c.CountedCash, c.Difference, c.Notes, c.UserID, c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cash count: %w", err)
	}
	return nil
}

func (r *CashCountRepo) get(ctx context.Context, where string, arg any) (*entity.CashCount, error) {
	c, err := scanCashCount(r.q.QueryRow(ctx, cashCountSelect+` WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash count: %w", err)
	}
	return c, nil
}

// GetByID obtiene un arqueo por ID.
func (r *CashCountRepo) GetByID(ctx context.Context, id string) (*entity.CashCount, error) {
	return r.get(ctx, `id = $1`, id)
}

// GetByDate obtiene el arqueo del día (fecha calendario de day).
func (r *CashCountRepo) GetByDate(ctx context.Context, day time.Time) (*entity.CashCount, error) {
	return r.get(ctx, `count_date = $1::date`, day.Format(time.DateOnly))
}

// List arqueos del más reciente al más antiguo.
func (r *CashCountRepo) List(ctx context.Context, limit, offset int) ([]*entity.CashCount, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM cash_counts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cash counts: %w", err)
	}
	rows, err := r.q.Query(ctx, cashCountSelect+` ORDER BY count_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list cash counts: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashCount
	for rows.Next() {
		c, err := scanCashCount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan cash count: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}
