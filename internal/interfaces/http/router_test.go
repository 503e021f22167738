package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/pos-inventario/internal/application/analytics"
	"github.com/jhoicas/pos-inventario/internal/application/auth"
	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/purchases"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/pos-inventario/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pos-inventario/pkg/jwt"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba: router completo sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	adminEmail    = "admin@tienda.test"
	adminPassword = "clave-segura"
)

type testServer struct {
	app        *fiber.App
	store      *memory.Store
	token      string
	productID  string
	supplierID string
	customerID string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.Nop()
	store := memory.New()

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()
	store.AddUser(&entity.User{
		ID: testUserID, Email: adminEmail, PasswordHash: string(hash),
		Name: testUserName, Role: entity.RoleAdmin, Status: "active",
		CreatedAt: now, UpdatedAt: now,
	})

	s := &testServer{
		store:      store,
		productID:  uuid.NewString(),
		supplierID: uuid.NewString(),
		customerID: uuid.NewString(),
	}
	store.AddProduct(&entity.Product{
		ID: s.productID, Code: "CAF-01", Name: "Café molido",
		PurchasePrice: decimal.NewFromInt(12000), SalePrice: decimal.NewFromInt(18000),
		Stock: 2, MinStock: 5, Active: true, CreatedAt: now, UpdatedAt: now,
	})
	store.AddSupplier(&entity.Supplier{ID: s.supplierID, Name: "Distribuidora Andina", CreatedAt: now, UpdatedAt: now})
	store.AddCustomer(&entity.Customer{ID: s.customerID, Name: "María Pérez", CreatedAt: now, UpdatedAt: now})

	ledger := inventory.NewLedger(store.Movements())
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}),
		ProductUC:        usecase.NewProductUseCase(store.Products()),
		Replenishment:    inventory.NewReplenishmentUseCase(store.Products()),
		Ledger:           ledger,
		RegisterMovement: inventory.NewRegisterMovementUseCase(store, ledger, log),
		PurchaseUC:       purchases.NewPurchaseUseCase(store, ledger, store.Purchases(), log),
		SaleUC:           sales.NewSaleUseCase(store, ledger, store.Sales(), log, time.UTC),
		ReceiptUC:        sales.NewReceiptUseCase(store.Sales(), pdf.NewReceiptGenerator("Tienda de Prueba")),
		CashCountUC:      usecase.NewCashCountUseCase(store.CashCounts(), store.Sales(), time.UTC),
		DashboardUC:      appanalytics.NewDashboardUseCase(store.Analytics(), store.Sales(), time.UTC),
		JWTSecret:        testJWTSecret,
	})
	s.app = app
	s.token = bearer(t, entity.RoleAdmin)
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", s.token)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *testServer) sell(t *testing.T, qty int, date string) dto.SaleResponse {
	t.Helper()
	body := fiber.Map{
		"customer_id":    s.customerID,
		"payment_method": "EFECTIVO",
		"items":          []fiber.Map{{"product_id": s.productID, "quantity": qty}},
	}
	if date != "" {
		body["date"] = date
	}
	resp := s.do(t, http.MethodPost, "/api/sales", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.SaleResponse](t, resp)
}

// ─── Auth ───

func TestLogin_CredencialesValidas(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		bytes.NewBufferString(`{"email":"admin@tienda.test","password":"clave-segura"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[dto.LoginResponse](t, resp)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)

	id, err := pkgjwt.Parse(testJWTSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, testUserID, id.UserID)
}

func TestLogin_PasswordIncorrecto_Retorna401(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		bytes.NewBufferString(`{"email":"admin@tienda.test","password":"otra"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeUnauthorized, errorCode(t, resp))
}

func TestRutasProtegidas_SinToken_Retorna401(t *testing.T) {
	s := newTestServer(t)
	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/api/products", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ─── Productos ───

func TestProducts_CrearYListar(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/products", fiber.Map{
		"code": "AZU-01", "name": "Azúcar", "sale_price": "4500", "min_stock": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, 0, created.Stock, "el stock inicial siempre es 0")
	assert.True(t, created.Active)

	list := decode[dto.ProductListResponse](t, s.do(t, http.MethodGet, "/api/products?search=azucar", nil))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "AZU-01", list.Items[0].Code)
	assert.Equal(t, dto.PageResponse{Limit: 10, Offset: 0, Total: 1, Pages: 1}, list.Page)
}

func TestProducts_CodigoDuplicado_Retorna409(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/products", fiber.Map{"code": "CAF-01", "name": "Otro café"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeConflict, errorCode(t, resp))
}

func TestProducts_SinNombre_Retorna400(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/products", fiber.Map{"code": "X-1"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, errorCode(t, resp))
}

func TestProducts_Inexistente_Retorna404(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/products/"+uuid.NewString(), nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apphttp.CodeNotFound, errorCode(t, resp))
}

func TestProducts_LowStock(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/products/low-stock", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[[]dto.LowStockSuggestionDTO](t, resp)
	require.Len(t, out, 1)
	assert.Equal(t, s.productID, out[0].ProductID)
	assert.Equal(t, 2, out[0].CurrentStock)
}

// ─── Movimientos ───

func TestMovements_EntradaManual_Retorna201(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/inventory/movements", fiber.Map{
		"product_id": s.productID, "type": "ENTRADA", "quantity": 8,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	m := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, 2, m.StockBefore)
	assert.Equal(t, 10, m.StockAfter)
	assert.Equal(t, entity.OriginAjusteManual, m.Origin)
	assert.Equal(t, testUserID, m.UserID)
	assert.Equal(t, 10, s.store.Stock(s.productID))
}

func TestMovements_StockInsuficiente_Retorna409(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/inventory/movements", fiber.Map{
		"product_id": s.productID, "type": "SALIDA", "quantity": 5,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, apphttp.CodeInsufficientStock, body.Error)
	assert.Equal(t, http.StatusConflict, body.StatusCode)
	assert.Equal(t, "Stock insuficiente. Stock actual: 2, cantidad solicitada: 5", body.Message)
	assert.Equal(t, "/api/inventory/movements", body.Path)
	assert.Equal(t, 2, s.store.Stock(s.productID))
	assert.Zero(t, s.store.MovementCount())
}

func TestMovements_UpdateYDelete_SonInmutables(t *testing.T) {
	s := newTestServer(t)
	id := uuid.NewString()

	resp := s.do(t, http.MethodPut, "/api/inventory/movements/"+id, fiber.Map{"quantity": 1})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, body.StatusCode)
	assert.Equal(t, apphttp.CodeAuditImmutable, body.Error)
	assert.Equal(t, "No se permite actualizar movimientos de almacén. Solo se pueden crear y consultar.", body.Message)

	resp = s.do(t, http.MethodDelete, "/api/inventory/movements/"+id, nil)
	body = decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, body.StatusCode)
	assert.Equal(t, apphttp.CodeAuditImmutable, body.Error)
	assert.Equal(t, "No se permite eliminar movimientos de almacén. Son registros de auditoría.", body.Message)
}

func TestMovements_TipoInvalido_Retorna400(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/inventory/movements", fiber.Map{
		"product_id": s.productID, "type": "TRASLADO", "quantity": 1,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ─── Ventas ───

func TestSales_CrearDescuentaStockYListaPorFecha(t *testing.T) {
	s := newTestServer(t)
	sale := s.sell(t, 2, "2024-03-10T15:00:00Z")
	assert.Equal(t, "María Pérez", sale.CustomerName)
	assert.True(t, decimal.NewFromInt(36000).Equal(sale.Total), sale.Total.String())
	assert.Equal(t, 0, s.store.Stock(s.productID))

	list := decode[dto.SaleListResponse](t, s.do(t, http.MethodGet, "/api/sales?start_date=2024-03-10", nil))
	require.Len(t, list.Items, 1)
	assert.Equal(t, sale.ID, list.Items[0].ID)

	list = decode[dto.SaleListResponse](t, s.do(t, http.MethodGet, "/api/sales?start_date=2024-03-11", nil))
	assert.Empty(t, list.Items)

	refs := decode[dto.MovementListResponse](t, s.do(t, http.MethodGet, "/api/inventory/references/"+sale.ID+"/movements", nil))
	require.Len(t, refs.Items, 1)
	assert.Equal(t, entity.MovementTypeSalida, refs.Items[0].Type)
	assert.Equal(t, entity.OriginVenta, refs.Items[0].Origin)
}

func TestSales_StockInsuficiente_NombraElProducto(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/sales", fiber.Map{
		"items": []fiber.Map{{"product_id": s.productID, "quantity": 3}},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "Insufficient stock for product Café molido. Available: 2, Requested: 3", body.Message)
	assert.Equal(t, 2, s.store.Stock(s.productID))
}

func TestSales_FechaInvalida_Retorna400(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/sales?start_date=10-03-2024", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSales_AnularDevuelveStock(t *testing.T) {
	s := newTestServer(t)
	sale := s.sell(t, 1, "")
	require.Equal(t, 1, s.store.Stock(s.productID))

	resp := s.do(t, http.MethodDelete, "/api/sales/"+sale.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 2, s.store.Stock(s.productID))

	resp = s.do(t, http.MethodGet, "/api/sales/"+sale.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSales_Update_EsInmutable(t *testing.T) {
	s := newTestServer(t)
	sale := s.sell(t, 1, "")
	resp := s.do(t, http.MethodPut, "/api/sales/"+sale.ID, fiber.Map{})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeAuditImmutable, errorCode(t, resp))
}

func TestSales_ComprobantePDF(t *testing.T) {
	s := newTestServer(t)
	sale := s.sell(t, 1, "")

	resp := s.do(t, http.MethodGet, "/api/sales/"+sale.ID+"/receipt", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

// ─── Compras ───

func TestPurchases_CrearYAnular(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/purchases", fiber.Map{
		"supplier_id": s.supplierID,
		"items":       []fiber.Map{{"product_id": s.productID, "quantity": 10, "unit_price": "11000"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	purchase := decode[dto.PurchaseResponse](t, resp)
	assert.Equal(t, "Distribuidora Andina", purchase.SupplierName)
	assert.True(t, decimal.NewFromInt(110000).Equal(purchase.Total), purchase.Total.String())
	assert.Equal(t, 12, s.store.Stock(s.productID))

	resp = s.do(t, http.MethodDelete, "/api/purchases/"+purchase.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 2, s.store.Stock(s.productID))

	resp = s.do(t, http.MethodGet, "/api/purchases/"+purchase.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	history := decode[dto.MovementListResponse](t, s.do(t, http.MethodGet, "/api/inventory/products/"+s.productID+"/movements", nil))
	require.Len(t, history.Items, 2)
	assert.Equal(t, 2, history.Page.Total)
}

func TestPurchases_ProveedorInexistente_Retorna404(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/purchases", fiber.Map{
		"supplier_id": uuid.NewString(),
		"items":       []fiber.Map{{"product_id": s.productID, "quantity": 1}},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 2, s.store.Stock(s.productID))
}

// ─── Arqueo y dashboard ───

func TestCashCount_CalculaTotalesDelDia(t *testing.T) {
	s := newTestServer(t)
	s.sell(t, 1, "")
	today := time.Now().UTC().Format(time.DateOnly)

	resp := s.do(t, http.MethodPost, "/api/cash-counts", fiber.Map{
		"date": today, "opening_amount": "50000", "counted_cash": "68000",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	count := decode[dto.CashCountResponse](t, resp)
	assert.Equal(t, today, count.Date)
	assert.True(t, decimal.NewFromInt(18000).Equal(count.TotalCash), count.TotalCash.String())
	assert.True(t, count.Difference.IsZero(), count.Difference.String())

	resp = s.do(t, http.MethodPost, "/api/cash-counts", fiber.Map{"date": today})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDashboard_Resumen(t *testing.T) {
	s := newTestServer(t)
	s.sell(t, 1, "")

	resp := s.do(t, http.MethodGet, "/api/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.DashboardSummaryDTO](t, resp)
	assert.Equal(t, 1, out.TotalProducts)
	assert.Equal(t, 1, out.SalesToday)
}
