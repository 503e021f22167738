package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/pos-inventario/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen del día y del mes en curso.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (total_products, low_stock_count, sales_today,
// revenue_today, revenue_month, top_products[5], recent_sales[5], date_label).
// Las fechas se calculan en el servidor con la zona horaria de la tienda.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
