// Package analytics contiene el caso de uso del dashboard (consultas read-only).
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

const (
	dashboardTopProducts = 5
	dashboardRecentSales = 5
)

// DashboardUseCase genera el resumen del día y del mes en curso.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	saleRepo      repository.SaleRepository
	loc           *time.Location
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, saleRepo repository.SaleRepository, loc *time.Location) *DashboardUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardUseCase{analyticsRepo: analyticsRepo, saleRepo: saleRepo, loc: loc, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cinco consultas en paralelo:
//  1. catálogo activo y bajo stock
//  2. ventas de hoy
//  3. ventas del mes
//  4. top 5 productos del mes
//  5. últimas 5 ventas
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now().In(uc.loc)

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	tomorrow := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, uc.loc)

	type catalogResult struct {
		m   repository.CatalogMetrics
		err error
	}
	type salesResult struct {
		m   repository.SalesMetrics
		err error
	}
	type topResult struct {
		list []repository.TopProduct
		err  error
	}
	type recentResult struct {
		list []dto.SaleResponse
		err  error
	}

	catalogCh := make(chan catalogResult, 1)
	todayCh := make(chan salesResult, 1)
	monthCh := make(chan salesResult, 1)
	topCh := make(chan topResult, 1)
	recentCh := make(chan recentResult, 1)

	go func() {
		m, err := uc.analyticsRepo.GetCatalogMetrics(ctx)
		catalogCh <- catalogResult{m, err}
	}()
	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, todayStart, tomorrow)
		todayCh <- salesResult{m, err}
	}()
	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, monthStart, tomorrow)
		monthCh <- salesResult{m, err}
	}()
	go func() {
		list, err := uc.analyticsRepo.GetTopProducts(ctx, monthStart, tomorrow, dashboardTopProducts)
		topCh <- topResult{list, err}
	}()
	go func() {
		list, _, err := uc.saleRepo.List(ctx, repository.SaleFilter{Limit: dashboardRecentSales})
		if err != nil {
			recentCh <- recentResult{err: err}
			return
		}
		out := make([]dto.SaleResponse, 0, len(list))
		for _, s := range list {
			out = append(out, *sales.ToSaleResponse(s))
		}
		recentCh <- recentResult{list: out}
	}()

	catalog := <-catalogCh
	today := <-todayCh
	month := <-monthCh
	top := <-topCh
	recent := <-recentCh

	if catalog.err != nil {
		return nil, fmt.Errorf("dashboard: catálogo: %w", catalog.err)
	}
	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: ventas recientes: %w", recent.err)
	}

	topProducts := make([]dto.TopProductDTO, 0, len(top.list))
	for _, p := range top.list {
		topProducts = append(topProducts, dto.TopProductDTO{
			ProductID:    p.ProductID,
			Code:         p.Code,
			Name:         p.Name,
			QuantitySold: p.QuantitySold,
			Revenue:      p.Revenue.Round(2),
		})
	}

	return &dto.DashboardSummaryDTO{
		TotalProducts: catalog.m.ActiveProducts,
		LowStockCount: catalog.m.LowStock,
		SalesToday:    today.m.Count,
		RevenueToday:  today.m.Revenue.Round(2),
		RevenueMonth:  month.m.Revenue.Round(2),
		TopProducts:   topProducts,
		RecentSales:   recent.list,
		DateLabel:     monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
