// Package purchases orquesta las compras a proveedor: cada compra y su
// anulación se aplican al ledger dentro de una sola transacción.
package purchases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

const msgUpdateUnsupported = "Update compra not implemented for data integrity"

// PurchaseUseCase crea, consulta y anula compras.
type PurchaseUseCase struct {
	txRunner     inventory.TxRunner
	ledger       *inventory.Ledger
	purchaseRepo repository.PurchaseRepository
	log          *logger.Logger
	now          func() time.Time
}

// NewPurchaseUseCase construye el caso de uso. purchaseRepo se usa solo para lecturas.
func NewPurchaseUseCase(
	txRunner inventory.TxRunner,
	ledger *inventory.Ledger,
	purchaseRepo repository.PurchaseRepository,
	log *logger.Logger,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		purchaseRepo: purchaseRepo,
		log:          log,
		now:          time.Now,
	}
}

// Create valida proveedor y productos, persiste la compra y registra una
// ENTRADA/COMPRA por línea. Todo o nada.
func (uc *PurchaseUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if !actor.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if in.SupplierID == "" || len(in.Items) == 0 {
		return nil, domain.Invalid("supplier_id e items son requeridos")
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, domain.Invalid("cada item requiere product_id y cantidad positiva")
		}
		if item.Quantity > inventory.MaxQuantity {
			return nil, domain.Invalid("la cantidad no puede superar %d", inventory.MaxQuantity)
		}
		if item.UnitPrice.IsNegative() {
			return nil, domain.Invalid("unit_price no puede ser negativo")
		}
	}

	now := uc.now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	purchaseID := uuid.New().String()
	var purchase *entity.Purchase

	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		supplier, err := repos.Suppliers().GetByID(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.NotFound("proveedor", in.SupplierID)
		}

		ids := make([]string, 0, len(in.Items))
		for _, item := range in.Items {
			ids = append(ids, item.ProductID)
		}
		products, err := inventory.LockProducts(ctx, repos, ids)
		if err != nil {
			return err
		}

		purchase = &entity.Purchase{
			ID:           purchaseID,
			SupplierID:   supplier.ID,
			SupplierName: supplier.Name,
			Date:         date,
			UserID:       actor.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		total := decimal.Zero
		for _, item := range in.Items {
			product := products[item.ProductID]
			price := item.UnitPrice
			if price.IsZero() {
				price = product.PurchasePrice
			}
			subtotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(subtotal)
			purchase.Items = append(purchase.Items, &entity.PurchaseItem{
				ID:          uuid.New().String(),
				PurchaseID:  purchaseID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   price,
				Subtotal:    subtotal,
			})
		}
		purchase.Total = total

		if err := repos.Purchases().Create(ctx, purchase); err != nil {
			return err
		}

		notes := fmt.Sprintf("Compra #%s - Proveedor: %s", purchaseID, supplier.Name)
		for _, item := range purchase.Items {
			if _, err := uc.ledger.Record(ctx, repos, actor, inventory.RecordInput{
				ProductID:   item.ProductID,
				Type:        entity.MovementTypeEntrada,
				Origin:      entity.OriginCompra,
				Quantity:    item.Quantity,
				ReferenceID: purchaseID,
				Notes:       notes,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.logFailure(err, "crear compra", purchaseID, actor)
		return nil, err
	}

	uc.log.Info().
		Str("purchase_id", purchase.ID).
		Str("supplier_id", purchase.SupplierID).
		Int("items", len(purchase.Items)).
		Str("total", purchase.Total.StringFixed(2)).
		Msg("compra registrada")
	return toPurchaseResponse(purchase), nil
}

// Remove anula la compra: registra SALIDA/DEVOLUCION_COMPRA por línea y
// elimina el agregado. Si revertir dejaría stock negativo, la compra queda intacta.
func (uc *PurchaseUseCase) Remove(ctx context.Context, actor entity.Actor, id string) error {
	if !actor.Valid() {
		return domain.ErrUnauthorized
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		purchase, err := repos.Purchases().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.NotFound("compra", id)
		}

		ids := make([]string, 0, len(purchase.Items))
		for _, item := range purchase.Items {
			ids = append(ids, item.ProductID)
		}
		if _, err := inventory.LockProducts(ctx, repos, ids); err != nil {
			return err
		}

		notes := fmt.Sprintf("Anulación de Compra #%s - Proveedor: %s", purchase.ID, purchase.SupplierName)
		for _, item := range purchase.Items {
			if _, err := uc.ledger.Record(ctx, repos, actor, inventory.RecordInput{
				ProductID:   item.ProductID,
				Type:        entity.MovementTypeSalida,
				Origin:      entity.OriginDevolucionCompra,
				Quantity:    item.Quantity,
				ReferenceID: purchase.ID,
				Notes:       notes,
			}); err != nil {
				return err
			}
		}
		return repos.Purchases().Delete(ctx, purchase.ID)
	})
	if err != nil {
		uc.logFailure(err, "anular compra", id, actor)
		return err
	}
	uc.log.Info().Str("purchase_id", id).Str("user_id", actor.ID).Msg("compra anulada")
	return nil
}

// Update no está soportado: una compra se corrige anulándola y creándola de nuevo.
func (uc *PurchaseUseCase) Update(_ context.Context, _ entity.Actor, _ string) error {
	return domain.Immutable(msgUpdateUnsupported)
}

// Get devuelve una compra con sus líneas.
func (uc *PurchaseUseCase) Get(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("compra", id)
	}
	return toPurchaseResponse(p), nil
}

// List lista compras por fecha descendente.
func (uc *PurchaseUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.PurchaseListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.purchaseRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPurchaseResponse(p))
	}
	return &dto.PurchaseListResponse{Items: items, Page: dto.NewPage(page.Limit, page.Offset, total)}, nil
}

// logFailure registra el rechazo. Los errores de dominio van a Warn; el resto a Error.
func (uc *PurchaseUseCase) logFailure(err error, op, purchaseID string, actor entity.Actor) {
	ev := uc.log.Error()
	if domain.IsBusiness(err) {
		ev = uc.log.Warn()
	}
	ev.Err(err).Str("op", op).Str("purchase_id", purchaseID).Str("user_id", actor.ID).Msg("transacción revertida")
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	out := &dto.PurchaseResponse{
		ID:           p.ID,
		SupplierID:   p.SupplierID,
		SupplierName: p.SupplierName,
		Date:         p.Date,
		Total:        p.Total,
		UserID:       p.UserID,
		CreatedAt:    p.CreatedAt,
		Items:        make([]dto.PurchaseItemResponse, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		out.Items = append(out.Items, dto.PurchaseItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}
