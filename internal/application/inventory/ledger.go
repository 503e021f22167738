// Package inventory contiene el ledger de movimientos de almacén: el único
// componente que modifica el stock de un producto.
package inventory

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// Mensajes fijos para operaciones prohibidas sobre el ledger.
const (
	msgUpdateForbidden = "No se permite actualizar movimientos de almacén. Solo se pueden crear y consultar."
	msgDeleteForbidden = "No se permite eliminar movimientos de almacén. Son registros de auditoría."
)

// MaxQuantity tope de cantidad por movimiento y de stock resultante (columnas INTEGER).
const MaxQuantity = math.MaxInt32

// ErrScopeRequired se devuelve cuando Record se invoca sin ámbito transaccional.
var ErrScopeRequired = errors.New("ledger: se requiere un ámbito transaccional")

// RecordInput datos de un movimiento.
type RecordInput struct {
	ProductID   string
	Type        string
	Origin      string
	Quantity    int
	ReferenceID string
	Notes       string
}

// Ledger registra movimientos de almacén y mantiene Product.Stock consistente con ellos.
type Ledger struct {
	movements repository.StockMovementRepository
	now       func() time.Time
}

// NewLedger construye el ledger. movements se usa solo para lecturas fuera de transacción.
func NewLedger(movements repository.StockMovementRepository) *Ledger {
	return &Ledger{movements: movements, now: time.Now}
}

// Record aplica un movimiento dentro del ámbito transaccional del llamador:
// bloquea la fila del producto, calcula el nuevo stock, lo persiste y agrega
// el movimiento. Si el stock resultante es negativo no escribe nada.
// El llamador decide Commit o Rollback.
func (l *Ledger) Record(ctx context.Context, repos repository.Repositories, actor entity.Actor, in RecordInput) (*entity.StockMovement, error) {
	if repos == nil {
		return nil, ErrScopeRequired
	}
	if !actor.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	product, err := repos.Products().GetByIDForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", in.ProductID)
	}

	before := product.Stock
	signed := entity.SignedQuantity(in.Type, in.Quantity)
	if signed > 0 && before > MaxQuantity-signed {
		return nil, domain.Invalid("el stock resultante de %s supera el máximo permitido (%d)", product.Name, MaxQuantity)
	}
	after := before + signed
	if after < 0 {
		return nil, &domain.InsufficientStockError{
			ProductID: product.ID,
			Available: before,
			Requested: in.Quantity,
		}
	}

	if err := repos.Products().UpdateStock(ctx, product.ID, after); err != nil {
		return nil, err
	}
	product.Stock = after

	now := l.now()
	m := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		Type:        in.Type,
		Origin:      in.Origin,
		Quantity:    in.Quantity,
		StockBefore: before,
		StockAfter:  after,
		ReferenceID: in.ReferenceID,
		Notes:       in.Notes,
		UserID:      actor.ID,
		MovedAt:     now,
		CreatedAt:   now,
	}
	if err := repos.Movements().Create(ctx, m); err != nil {
		return nil, err
	}
	m.ProductCode, m.ProductName, m.UserName = product.Code, product.Name, actor.Name
	return m, nil
}

func validateInput(in RecordInput) error {
	if in.ProductID == "" {
		return domain.Invalid("product_id es requerido")
	}
	if !entity.ValidMovementType(in.Type) {
		return domain.Invalid("tipo de movimiento inválido: %q", in.Type)
	}
	if !entity.ValidOrigin(in.Origin) {
		return domain.Invalid("origen de movimiento inválido: %q", in.Origin)
	}
	if in.Quantity <= 0 {
		return domain.Invalid("la cantidad debe ser un entero positivo")
	}
	if in.Quantity > MaxQuantity {
		return domain.Invalid("la cantidad no puede superar %d", MaxQuantity)
	}
	return nil
}

// LockProducts bloquea los productos indicados en orden ascendente de id y los
// devuelve indexados. Los orquestadores lo llaman antes de Record para que dos
// operaciones sobre productos compartidos tomen los bloqueos en el mismo orden.
func LockProducts(ctx context.Context, repos repository.Repositories, ids []string) (map[string]*entity.Product, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)

	products := make(map[string]*entity.Product, len(unique))
	for _, id := range unique {
		p, err := repos.Products().GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NotFound("producto", id)
		}
		products[id] = p
	}
	return products, nil
}

// Get devuelve un movimiento por id.
func (l *Ledger) Get(ctx context.Context, id string) (*entity.StockMovement, error) {
	m, err := l.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NotFound("movimiento", id)
	}
	return m, nil
}

// List consulta el ledger con filtros, ordenado por fecha de movimiento descendente.
// Limit cero toma el tamaño de página por defecto.
func (l *Ledger) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	if filter.Type != "" && !entity.ValidMovementType(filter.Type) {
		return nil, 0, domain.Invalid("tipo de movimiento inválido: %q", filter.Type)
	}
	if filter.Origin != "" && !entity.ValidOrigin(filter.Origin) {
		return nil, 0, domain.Invalid("origen de movimiento inválido: %q", filter.Origin)
	}
	filter.Limit, filter.Offset = normalizePage(filter.Limit, filter.Offset)
	return l.movements.List(ctx, filter)
}

// ListByProduct devuelve el historial paginado de un producto.
func (l *Ledger) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, int, error) {
	limit, offset = normalizePage(limit, offset)
	return l.movements.List(ctx, repository.MovementFilter{ProductID: productID, Limit: limit, Offset: offset})
}

func normalizePage(limit, offset int) (int, int) {
	page := dto.PageRequest{Limit: limit, Offset: offset}
	page.DefaultPage()
	return page.Limit, page.Offset
}

// ListByReference devuelve los movimientos de una compra o venta en orden de registro.
func (l *Ledger) ListByReference(ctx context.Context, referenceID string) ([]*entity.StockMovement, error) {
	return l.movements.ListByReference(ctx, referenceID)
}

// Update siempre falla: los movimientos son registros de auditoría.
func (l *Ledger) Update(_ context.Context, _ string) error {
	return domain.Immutable(msgUpdateForbidden)
}

// Delete siempre falla: los movimientos son registros de auditoría.
func (l *Ledger) Delete(_ context.Context, _ string) error {
	return domain.Immutable(msgDeleteForbidden)
}
