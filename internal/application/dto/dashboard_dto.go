package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalProducts int             `json:"total_products"`
	LowStockCount int             `json:"low_stock_count"`
	SalesToday    int             `json:"sales_today"`
	RevenueToday  decimal.Decimal `json:"revenue_today"`
	RevenueMonth  decimal.Decimal `json:"revenue_month"`
	TopProducts   []TopProductDTO `json:"top_products"`
	RecentSales   []SaleResponse  `json:"recent_sales"`
	DateLabel     string          `json:"date_label"` // ej: "Octubre 2026"
}

// TopProductDTO producto más vendido del mes.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}
