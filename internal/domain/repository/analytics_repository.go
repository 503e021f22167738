package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TopProduct producto más vendido en un período.
type TopProduct struct {
	ProductID    string
	Code         string
	Name         string
	QuantitySold int
	Revenue      decimal.Decimal
}

// SalesMetrics agregado de ventas de un período.
type SalesMetrics struct {
	Count   int
	Revenue decimal.Decimal
}

// CatalogMetrics conteos del catálogo activo.
type CatalogMetrics struct {
	ActiveProducts int
	LowStock       int
}

// AnalyticsRepository consultas read-only para el dashboard.
type AnalyticsRepository interface {
	GetCatalogMetrics(ctx context.Context) (CatalogMetrics, error)
	GetSalesMetrics(ctx context.Context, from, to time.Time) (SalesMetrics, error)
	GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error)
}
