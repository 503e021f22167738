package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetCatalogMetrics cuenta productos activos y los que están en o bajo el mínimo.
func (r *AnalyticsRepo) GetCatalogMetrics(ctx context.Context) (repository.CatalogMetrics, error) {
	const query = `
	SELECT
	    COUNT(*)                                   AS active_products,
	    COUNT(*) FILTER (WHERE stock <= min_stock) AS low_stock
	FROM products
	WHERE active`

	var m repository.CatalogMetrics
	if err := r.q.QueryRow(ctx, query).Scan(&m.ActiveProducts, &m.LowStock); err != nil {
		return m, fmt.Errorf("analytics.GetCatalogMetrics: %w", err)
	}
	return m, nil
}

// GetSalesMetrics número de ventas e ingresos de [from, to).
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, from, to time.Time) (repository.SalesMetrics, error) {
	const query = `
	SELECT COUNT(*), COALESCE(SUM(total), 0)
	FROM sales
	WHERE date >= $1 AND date < $2`

	var m repository.SalesMetrics
	if err := r.q.QueryRow(ctx, query, from, to).Scan(&m.Count, &m.Revenue); err != nil {
		return m, fmt.Errorf("analytics.GetSalesMetrics: %w", err)
	}
	return m, nil
}

// GetTopProducts productos con más unidades vendidas en [from, to).
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.TopProduct, error) {
	const query = `
	SELECT
	    p.id,
	    p.code,
	    p.name,
	    SUM(i.quantity)  AS quantity_sold,
	    SUM(i.subtotal)  AS revenue
	FROM sale_items i
	JOIN sales    v ON v.id = i.sale_id
	JOIN products p ON p.id = i.product_id
	WHERE v.date >= $1 AND v.date < $2
	GROUP BY p.id, p.code, p.name
	ORDER BY quantity_sold DESC, p.name ASC
	LIMIT $3`

	rows, err := r.q.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts: %w", err)
	}
	defer rows.Close()

	var results []repository.TopProduct
	for rows.Next() {
		var tp repository.TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.Code, &tp.Name, &tp.QuantitySold, &tp.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.GetTopProducts scan: %w", err)
		}
		results = append(results, tp)
	}
	return results, rows.Err()
}
