package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var actor = entity.Actor{ID: "user-1", Name: "Bodega"}

func addProduct(store *memory.Store, code string, stock, minStock int) string {
	id := uuid.NewString()
	now := time.Now()
	store.AddProduct(&entity.Product{
		ID: id, Code: code, Name: "Producto " + code,
		Stock: stock, MinStock: minStock, Active: true, CreatedAt: now, UpdatedAt: now,
	})
	return id
}

// record aplica un movimiento en su propia transacción.
func record(t *testing.T, store *memory.Store, ledger *inventory.Ledger, in inventory.RecordInput) (*entity.StockMovement, error) {
	t.Helper()
	var out *entity.StockMovement
	err := store.Run(context.Background(), func(repos repository.Repositories) error {
		m, err := ledger.Record(context.Background(), repos, actor, in)
		out = m
		return err
	})
	return out, err
}

func manual(productID, movementType string, qty int) inventory.RecordInput {
	return inventory.RecordInput{
		ProductID: productID,
		Type:      movementType,
		Origin:    entity.OriginAjusteManual,
		Quantity:  qty,
	}
}

// ─── Record ───

func TestRecord_EntradaYSalida(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	id := addProduct(store, "P-1", 10, 0)

	m, err := record(t, store, ledger, manual(id, entity.MovementTypeEntrada, 5))
	require.NoError(t, err)
	assert.Equal(t, 10, m.StockBefore)
	assert.Equal(t, 15, m.StockAfter)
	assert.Equal(t, actor.ID, m.UserID)
	assert.False(t, m.MovedAt.IsZero())

	m, err = record(t, store, ledger, manual(id, entity.MovementTypeAjusteSalida, 3))
	require.NoError(t, err)
	assert.Equal(t, 15, m.StockBefore)
	assert.Equal(t, 12, m.StockAfter)
	assert.Equal(t, 12, store.Stock(id))
}

func TestRecord_SalidaHastaCero_Permitida(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	id := addProduct(store, "P-1", 4, 0)

	m, err := record(t, store, ledger, manual(id, entity.MovementTypeSalida, 4))
	require.NoError(t, err)
	assert.Equal(t, 0, m.StockAfter)
	assert.Equal(t, 0, store.Stock(id))
}

func TestRecord_StockInsuficiente_NoEscribe(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	id := addProduct(store, "P-1", 2, 0)

	_, err := record(t, store, ledger, manual(id, entity.MovementTypeAjusteSalida, 5))
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "Stock insuficiente. Stock actual: 2, cantidad solicitada: 5", err.Error())

	assert.Equal(t, 2, store.Stock(id))
	assert.Zero(t, store.MovementCount())
}

func TestRecord_SinAmbitoTransaccional(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	id := addProduct(store, "P-1", 2, 0)

	_, err := ledger.Record(context.Background(), nil, actor, manual(id, entity.MovementTypeEntrada, 1))
	assert.ErrorIs(t, err, inventory.ErrScopeRequired)
	assert.Equal(t, 2, store.Stock(id))
}

func TestRecord_Validaciones(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	id := addProduct(store, "P-1", 2, 0)

	tests := []struct {
		name string
		in   inventory.RecordInput
		want error
	}{
		{"cantidad cero", manual(id, entity.MovementTypeEntrada, 0), domain.ErrInvalidInput},
		{"cantidad negativa", manual(id, entity.MovementTypeEntrada, -3), domain.ErrInvalidInput},
		{"tipo desconocido", manual(id, "TRASLADO", 1), domain.ErrInvalidInput},
		{"origen desconocido", inventory.RecordInput{ProductID: id, Type: entity.MovementTypeEntrada, Origin: "REGALO", Quantity: 1}, domain.ErrInvalidInput},
		{"sin producto", manual("", entity.MovementTypeEntrada, 1), domain.ErrInvalidInput},
		{"producto inexistente", manual(uuid.NewString(), entity.MovementTypeEntrada, 1), domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := record(t, store, ledger, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, store.MovementCount())
	assert.Equal(t, 2, store.Stock(id))
}

func TestRecord_ActorSinIdentidad(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	id := addProduct(store, "P-1", 2, 0)

	err := store.Run(context.Background(), func(repos repository.Repositories) error {
		_, err := ledger.Record(context.Background(), repos, entity.Actor{}, manual(id, entity.MovementTypeEntrada, 1))
		return err
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRecord_LeeProductoConBloqueo(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	id := addProduct(store, "P-1", 2, 0)

	_, err := record(t, store, ledger, manual(id, entity.MovementTypeEntrada, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, store.LockedReads(id))
}

func TestRecord_FallaAlInsertarMovimiento_RevierteStock(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	id := addProduct(store, "P-1", 2, 0)
	store.FailNext(memory.OpMovementCreate, nil)

	_, err := record(t, store, ledger, manual(id, entity.MovementTypeEntrada, 5))
	assert.ErrorIs(t, err, memory.ErrInjected)
	assert.Equal(t, 2, store.Stock(id), "el stock no debe quedar actualizado sin su movimiento")
	assert.Zero(t, store.MovementCount())
}

func TestRecord_ErrorDelLlamadorDescartaTodo(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	id := addProduct(store, "P-1", 2, 0)
	boom := errors.New("falla posterior")

	err := store.Run(context.Background(), func(repos repository.Repositories) error {
		if _, err := ledger.Record(context.Background(), repos, actor, manual(id, entity.MovementTypeEntrada, 5)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, store.Stock(id))
	assert.Zero(t, store.MovementCount())
}

// ─── Cadena de auditoría ───

func TestLedger_CadenaDeMovimientosCuadraConStock(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	id := addProduct(store, "P-1", 0, 0)

	steps := []struct {
		movementType string
		qty          int
	}{
		{entity.MovementTypeEntrada, 20},
		{entity.MovementTypeSalida, 7},
		{entity.MovementTypeAjusteEntrada, 2},
		{entity.MovementTypeAjusteSalida, 5},
		{entity.MovementTypeSalida, 10},
	}
	for _, s := range steps {
		_, err := record(t, store, ledger, manual(id, s.movementType, s.qty))
		require.NoError(t, err)
	}
	_, err := record(t, store, ledger, manual(id, entity.MovementTypeSalida, 1))
	require.Error(t, err, "stock en 0: la salida debe rechazarse")

	history, total, err := ledger.ListByProduct(context.Background(), id, 0, 0)
	require.NoError(t, err)
	require.Equal(t, len(steps), total)

	// history viene de la más reciente a la más antigua
	sum := 0
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if i < len(history)-1 {
			assert.Equal(t, history[i+1].StockAfter, m.StockBefore, "stock_before debe encadenar con el anterior")
		}
		assert.Equal(t, m.StockBefore+entity.SignedQuantity(m.Type, m.Quantity), m.StockAfter)
		sum += entity.SignedQuantity(m.Type, m.Quantity)
	}
	assert.Equal(t, store.Stock(id), history[0].StockAfter)
	assert.Equal(t, store.Stock(id), sum)
}

func TestLedger_UpdateYDelete_SiempreRechazados(t *testing.T) {
	ledger := inventory.NewLedger(memory.New().Movements())

	err := ledger.Update(context.Background(), "cualquiera")
	assert.ErrorIs(t, err, domain.ErrAuditImmutable)
	assert.Equal(t, "No se permite actualizar movimientos de almacén. Solo se pueden crear y consultar.", err.Error())

	err = ledger.Delete(context.Background(), "cualquiera")
	assert.ErrorIs(t, err, domain.ErrAuditImmutable)
	assert.Equal(t, "No se permite eliminar movimientos de almacén. Son registros de auditoría.", err.Error())
}

func TestLedger_GetInexistente(t *testing.T) {
	ledger := inventory.NewLedger(memory.New().Movements())
	_, err := ledger.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_ListFiltroInvalido(t *testing.T) {
	ledger := inventory.NewLedger(memory.New().Movements())
	_, _, err := ledger.List(context.Background(), repository.MovementFilter{Type: "OTRO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_ListFiltraPorOrigen(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	id := addProduct(store, "P-1", 0, 0)

	_, err := record(t, store, ledger, manual(id, entity.MovementTypeEntrada, 3))
	require.NoError(t, err)
	_, err = record(t, store, ledger, inventory.RecordInput{
		ProductID: id, Type: entity.MovementTypeEntrada, Origin: entity.OriginCompra, Quantity: 2, ReferenceID: "compra-1",
	})
	require.NoError(t, err)

	list, total, err := ledger.List(context.Background(), repository.MovementFilter{Origin: entity.OriginCompra, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "compra-1", list[0].ReferenceID)
}

// ─── LockProducts ───

func TestLockProducts_DeduplicaYDevuelveIndexado(t *testing.T) {
	store := memory.New()
	a := addProduct(store, "A", 1, 0)
	b := addProduct(store, "B", 1, 0)

	err := store.Run(context.Background(), func(repos repository.Repositories) error {
		products, err := inventory.LockProducts(context.Background(), repos, []string{b, a, b})
		require.NoError(t, err)
		assert.Len(t, products, 2)
		assert.Equal(t, "A", products[a].Code)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.LockedReads(a))
	assert.Equal(t, 1, store.LockedReads(b))
}

func TestLockProducts_ProductoInexistente(t *testing.T) {
	store := memory.New()
	a := addProduct(store, "A", 1, 0)
	err := store.Run(context.Background(), func(repos repository.Repositories) error {
		_, err := inventory.LockProducts(context.Background(), repos, []string{a, "no-existe"})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Concurrencia ───

func TestRecord_SalidasConcurrentes_NuncaStockNegativo(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	uc := inventory.NewRegisterMovementUseCase(store, ledger, logger.Nop())
	id := addProduct(store, "P-1", 10, 0)

	const workers = 15
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, rejected := 0, 0
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Register(context.Background(), actor, dto.RegisterMovementRequest{
				ProductID: id, Type: entity.MovementTypeSalida, Quantity: 1,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 5, rejected)
	assert.Equal(t, 0, store.Stock(id))
	assert.Equal(t, 10, store.MovementCount())
}

// ─── RegisterMovementUseCase ───

func TestRegister_OrigenPorDefecto(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	uc := inventory.NewRegisterMovementUseCase(store, ledger, logger.Nop())
	id := addProduct(store, "P-1", 0, 0)

	out, err := uc.Register(context.Background(), actor, dto.RegisterMovementRequest{
		ProductID: id, Type: entity.MovementTypeAjusteEntrada, Quantity: 4, Notes: "conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OriginAjusteManual, out.Origin)
	assert.Equal(t, "conteo físico", out.Notes)
	assert.Equal(t, 4, out.StockAfter)
}

// ─── Límites ───

func TestRegister_CantidadFueraDeRango_EsValidacion(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	uc := inventory.NewRegisterMovementUseCase(store, ledger, logger.Nop())
	id := addProduct(store, "P-1", 10, 0)

	_, err := uc.Register(context.Background(), actor, dto.RegisterMovementRequest{
		ProductID: id, Type: entity.MovementTypeEntrada, Quantity: math.MaxInt64,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock, "una entrada nunca es falta de stock")
	assert.Equal(t, 10, store.Stock(id))
	assert.Zero(t, store.MovementCount())
}

func TestRecord_EntradaQueDesbordaElStock(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	id := addProduct(store, "P-1", 10, 0)

	_, err := record(t, store, ledger, manual(id, entity.MovementTypeAjusteEntrada, inventory.MaxQuantity))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 10, store.Stock(id))
	assert.Zero(t, store.MovementCount())

	m, err := record(t, store, ledger, manual(id, entity.MovementTypeEntrada, inventory.MaxQuantity-10))
	require.NoError(t, err)
	assert.Equal(t, inventory.MaxQuantity, m.StockAfter)
}

func TestList_LimiteCeroUsaPaginaPorDefecto(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	id := addProduct(store, "P-1", 0, 0)
	for range 12 {
		_, err := record(t, store, ledger, manual(id, entity.MovementTypeEntrada, 1))
		require.NoError(t, err)
	}

	list, total, err := ledger.List(context.Background(), repository.MovementFilter{ProductID: id})
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	assert.Len(t, list, dto.DefaultLimit)

	history, _, err := ledger.ListByProduct(context.Background(), id, 0, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	capped, _, err := ledger.ListByProduct(context.Background(), id, 1000, 0)
	require.NoError(t, err)
	assert.Len(t, capped, 12)
}

func TestList_IncluyeProductoYUsuario(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store.Movements())
	store.AddUser(&entity.User{ID: actor.ID, Name: "Bodega Central", Status: "active"})
	id := addProduct(store, "P-9", 0, 0)

	m, err := record(t, store, ledger, manual(id, entity.MovementTypeEntrada, 3))
	require.NoError(t, err)
	assert.Equal(t, "P-9", m.ProductCode)
	assert.Equal(t, "Producto P-9", m.ProductName)

	got, err := ledger.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "P-9", got.ProductCode)
	assert.Equal(t, "Producto P-9", got.ProductName)
	assert.Equal(t, "Bodega Central", got.UserName)

	out := inventory.ToMovementResponse(got)
	assert.Equal(t, "Producto P-9", out.ProductName)
	assert.Equal(t, "Bodega Central", out.UserName)
}
