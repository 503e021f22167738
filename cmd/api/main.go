package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/pos-inventario/internal/application/analytics"
	"github.com/jhoicas/pos-inventario/internal/application/auth"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/purchases"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/pos-inventario/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-inventario/internal/interfaces/http"
	"github.com/jhoicas/pos-inventario/pkg/config"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// backend repositorios de lectura más el runner transaccional del driver elegido.
type backend struct {
	tx         inventory.TxRunner
	products   repository.ProductRepository
	movements  repository.StockMovementRepository
	purchases  repository.PurchaseRepository
	sales      repository.SaleRepository
	cashCounts repository.CashCountRepository
	users      repository.UserRepository
	analytics  repository.AnalyticsRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	if cfg.JWT.Secret == "" {
		// Solo llega vacío en development (Validate lo exige en los demás entornos).
		cfg.JWT.Secret = "dev-secret-no-usar-en-produccion"
		log.Warn().Msg("JWT_SECRET vacío: usando secreto de desarrollo")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("inicializar persistencia")
	}
	defer be.close()

	loc := cfg.Store.Location()
	ledger := inventory.NewLedger(be.movements)

	deps := httpRouter.RouterDeps{
		AuthUC: auth.NewAuthUseCase(be.users, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		ProductUC:        usecase.NewProductUseCase(be.products),
		Replenishment:    inventory.NewReplenishmentUseCase(be.products),
		Ledger:           ledger,
		RegisterMovement: inventory.NewRegisterMovementUseCase(be.tx, ledger, log),
		PurchaseUC:       purchases.NewPurchaseUseCase(be.tx, ledger, be.purchases, log),
		SaleUC:           sales.NewSaleUseCase(be.tx, ledger, be.sales, log, loc),
		ReceiptUC:        sales.NewReceiptUseCase(be.sales, infrapdf.NewReceiptGenerator(cfg.Store.BusinessName)),
		CashCountUC:      usecase.NewCashCountUseCase(be.cashCounts, be.sales, loc),
		DashboardUC:      appanalytics.NewDashboardUseCase(be.analytics, be.sales, loc),
		JWTSecret:        cfg.JWT.Secret,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	if cfg.HTTP.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.ReplaceAll(cfg.HTTP.CORSOrigins, " ", ""),
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))
	}
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "driver": cfg.DB.Driver})
	})

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openBackend abre PostgreSQL (aplicando migraciones si DB_AUTO_MIGRATE) o
// arma el store en memoria con datos de demostración.
func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.DB.Driver == config.DriverMemory {
		store := memory.New()
		if err := seedDemo(ctx, store, cfg.Demo); err != nil {
			return nil, err
		}
		log.Warn().
			Str("admin_email", cfg.Demo.AdminEmail).
			Msg("persistencia en memoria: los datos se pierden al reiniciar")
		return &backend{
			tx:         store,
			products:   store.Products(),
			movements:  store.Movements(),
			purchases:  store.Purchases(),
			sales:      store.Sales(),
			cashCounts: store.CashCounts(),
			users:      store.Users(),
			analytics:  store.Analytics(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &backend{
		tx:         postgres.NewTxRunner(pool),
		products:   postgres.NewProductRepository(pool),
		movements:  postgres.NewStockMovementRepository(pool),
		purchases:  postgres.NewPurchaseRepository(pool),
		sales:      postgres.NewSaleRepository(pool),
		cashCounts: postgres.NewCashCountRepository(pool),
		users:      postgres.NewUserRepository(pool),
		analytics:  postgres.NewAnalyticsRepository(pool),
		close:      pool.Close,
	}, nil
}
