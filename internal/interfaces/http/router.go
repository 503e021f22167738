package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/pos-inventario/internal/application/analytics"
	"github.com/jhoicas/pos-inventario/internal/application/auth"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/purchases"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	ProductUC        *usecase.ProductUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	Ledger           *inventory.Ledger
	RegisterMovement *inventory.RegisterMovementUseCase
	PurchaseUC       *purchases.PurchaseUseCase
	SaleUC           *sales.SaleUseCase
	ReceiptUC        *sales.ReceiptUseCase
	CashCountUC      *usecase.CashCountUseCase
	DashboardUC      *appanalytics.DashboardUseCase
	JWTSecret        string
}

// Router registra las rutas de la API. Cada ruta protegida exige un permiso
// "accion:recurso"; el rol admin los tiene todos.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	perm := RequirePermission

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Replenishment)
	products.Get("/", perm("read:producto"), productHandler.List)
	products.Post("/", perm("create:producto"), productHandler.Create)
	products.Get("/low-stock", perm("read:producto"), productHandler.LowStock)
	products.Get("/:id", perm("read:producto"), productHandler.GetByID)
	products.Put("/:id", perm("update:producto"), productHandler.Update)

	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Ledger)
	inv.Post("/movements", perm("create:movimiento"), inventoryHandler.RegisterMovement)
	inv.Get("/movements", perm("read:movimiento"), inventoryHandler.List)
	inv.Get("/movements/:id", perm("read:movimiento"), inventoryHandler.GetByID)
	inv.Put("/movements/:id", perm("update:movimiento"), inventoryHandler.Update)
	inv.Delete("/movements/:id", perm("delete:movimiento"), inventoryHandler.Delete)
	inv.Get("/products/:productId/movements", perm("read:movimiento"), inventoryHandler.ByProduct)
	inv.Get("/references/:referenceId/movements", perm("read:movimiento"), inventoryHandler.ByReference)

	purchasesGroup := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchasesGroup.Post("/", perm("create:compra"), purchaseHandler.Create)
	purchasesGroup.Get("/", perm("read:compra"), purchaseHandler.List)
	purchasesGroup.Get("/:id", perm("read:compra"), purchaseHandler.GetByID)
	purchasesGroup.Put("/:id", perm("update:compra"), purchaseHandler.Update)
	purchasesGroup.Delete("/:id", perm("delete:compra"), purchaseHandler.Delete)

	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.ReceiptUC)
	salesGroup.Post("/", perm("create:venta"), saleHandler.Create)
	salesGroup.Get("/", perm("read:venta"), saleHandler.List)
	salesGroup.Get("/:id/receipt", perm("read:venta"), saleHandler.Receipt)
	salesGroup.Get("/:id", perm("read:venta"), saleHandler.GetByID)
	salesGroup.Put("/:id", perm("update:venta"), saleHandler.Update)
	salesGroup.Delete("/:id", perm("delete:venta"), saleHandler.Delete)

	cash := protected.Group("/cash-counts")
	cashHandler := NewCashCountHandler(deps.CashCountUC)
	cash.Post("/", perm("create:arqueo"), cashHandler.Create)
	cash.Get("/", perm("read:arqueo"), cashHandler.List)
	cash.Get("/:id", perm("read:arqueo"), cashHandler.GetByID)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", perm("read:dashboard"), dashboardHandler.GetSummary)
}
