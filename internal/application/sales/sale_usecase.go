// Package sales orquesta las ventas: valida disponibilidad, persiste la venta
// y descuenta stock a través del ledger dentro de una sola transacción.
package sales

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

const (
	msgUpdateUnsupported = "Update venta not implemented for data integrity"
	walkInCustomer       = "Consumidor final"
	dateLayout           = "2006-01-02"
)

// SaleUseCase crea, consulta y anula ventas.
type SaleUseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	saleRepo repository.SaleRepository
	log      *logger.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewSaleUseCase construye el caso de uso. loc define los límites de día de los
// filtros por fecha (nil = time.Local).
func NewSaleUseCase(
	txRunner inventory.TxRunner,
	ledger *inventory.Ledger,
	saleRepo repository.SaleRepository,
	log *logger.Logger,
	loc *time.Location,
) *SaleUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &SaleUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		saleRepo: saleRepo,
		log:      log,
		loc:      loc,
		now:      time.Now,
	}
}

// Create registra la venta y una SALIDA/VENTA por línea. Si alguna línea no
// tiene stock suficiente no se escribe nada.
func (uc *SaleUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if !actor.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("la venta debe tener al menos un item")
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
	payment := in.PaymentMethod
	if payment == "" {
		payment = entity.PaymentEfectivo
	}
	if !entity.ValidPaymentMethod(payment) {
		return nil, domain.Invalid("forma de pago inválida: %q", payment)
	}

	now := uc.now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	saleID := uuid.New().String()
	var sale *entity.Sale

	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		customerName := walkInCustomer
		if in.CustomerID != "" {
			customer, err := repos.Customers().GetByID(ctx, in.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return domain.NotFound("cliente", in.CustomerID)
			}
			customerName = customer.Name
		}

		ids := make([]string, 0, len(in.Items))
		for _, item := range in.Items {
			ids = append(ids, item.ProductID)
		}
		products, err := inventory.LockProducts(ctx, repos, ids)
		if err != nil {
			return err
		}

		sale = &entity.Sale{
			ID:            saleID,
			CustomerID:    in.CustomerID,
			CustomerName:  customerName,
			Date:          date,
			PaymentMethod: payment,
			UserID:        actor.ID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		requested := make(map[string]int, len(products))
		total := decimal.Zero
		for _, item := range in.Items {
			product := products[item.ProductID]
			requested[product.ID] += item.Quantity
			if product.Stock < requested[product.ID] {
				return &domain.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   requested[product.ID],
				}
			}
			price := item.UnitPrice
			if price.IsZero() {
				price = product.SalePrice
			}
			subtotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(subtotal)
			sale.Items = append(sale.Items, &entity.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      saleID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   price,
				Subtotal:    subtotal,
			})
		}
		sale.Total = total

		if err := repos.Sales().Create(ctx, sale); err != nil {
			return err
		}

		notes := fmt.Sprintf("Venta #%s - Cliente: %s", saleID, customerName)
		for _, item := range sale.Items {
			if _, err := uc.ledger.Record(ctx, repos, actor, inventory.RecordInput{
				ProductID:   item.ProductID,
				Type:        entity.MovementTypeSalida,
				Origin:      entity.OriginVenta,
				Quantity:    item.Quantity,
				ReferenceID: saleID,
				Notes:       notes,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.logFailure(err, "crear venta", saleID, actor)
		return nil, err
	}

	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("payment_method", sale.PaymentMethod).
		Int("items", len(sale.Items)).
		Str("total", sale.Total.StringFixed(2)).
		Msg("venta registrada")
	return ToSaleResponse(sale), nil
}

// Remove anula la venta: ENTRADA/DEVOLUCION_VENTA por línea y borrado del agregado.
func (uc *SaleUseCase) Remove(ctx context.Context, actor entity.Actor, id string) error {
	if !actor.Valid() {
		return domain.ErrUnauthorized
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		sale, err := repos.Sales().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.NotFound("venta", id)
		}

		ids := make([]string, 0, len(sale.Items))
		for _, item := range sale.Items {
			ids = append(ids, item.ProductID)
		}
		if _, err := inventory.LockProducts(ctx, repos, ids); err != nil {
			return err
		}

		customerName := sale.CustomerName
		if customerName == "" {
			customerName = walkInCustomer
		}
		notes := fmt.Sprintf("Anulación de Venta #%s - Cliente: %s", sale.ID, customerName)
		for _, item := range sale.Items {
			if _, err := uc.ledger.Record(ctx, repos, actor, inventory.RecordInput{
				ProductID:   item.ProductID,
				Type:        entity.MovementTypeEntrada,
				Origin:      entity.OriginDevolucionVenta,
				Quantity:    item.Quantity,
				ReferenceID: sale.ID,
				Notes:       notes,
			}); err != nil {
				return err
			}
		}
		return repos.Sales().Delete(ctx, sale.ID)
	})
	if err != nil {
		uc.logFailure(err, "anular venta", id, actor)
		return err
	}
	uc.log.Info().Str("sale_id", id).Str("user_id", actor.ID).Msg("venta anulada")
	return nil
}

// Update no está soportado: una venta se corrige anulándola y creándola de nuevo.
func (uc *SaleUseCase) Update(_ context.Context, _ entity.Actor, _ string) error {
	return domain.Immutable(msgUpdateUnsupported)
}

// Get devuelve una venta con sus líneas.
func (uc *SaleUseCase) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(s), nil
}

func (uc *SaleUseCase) find(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound("venta", id)
	}
	return s, nil
}

// List lista ventas por fecha descendente. Los días del rango son inclusivos;
// si solo llega StartDate se toma ese único día.
func (uc *SaleUseCase) List(ctx context.Context, q dto.SaleQuery) (*dto.SaleListResponse, error) {
	from, to, err := uc.dayRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.DefaultPage()

	list, total, err := uc.saleRepo.List(ctx, repository.SaleFilter{
		From:   from,
		To:     to,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *ToSaleResponse(s))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.NewPage(page.Limit, page.Offset, total)}, nil
}

// dayRange convierte fechas YYYY-MM-DD en el intervalo [inicio del primer día, inicio del día siguiente al último).
func (uc *SaleUseCase) dayRange(start, end string) (time.Time, time.Time, error) {
	var from, to time.Time
	if start != "" {
		d, err := time.ParseInLocation(dateLayout, start, uc.loc)
		if err != nil {
			return from, to, domain.Invalid("start_date inválida, formato esperado YYYY-MM-DD")
		}
		from = d
		to = d.AddDate(0, 0, 1)
	}
	if end != "" {
		d, err := time.ParseInLocation(dateLayout, end, uc.loc)
		if err != nil {
			return from, to, domain.Invalid("end_date inválida, formato esperado YYYY-MM-DD")
		}
		to = d.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return from, to, domain.Invalid("end_date no puede ser anterior a start_date")
	}
	return from, to, nil
}

func (uc *SaleUseCase) logFailure(err error, op, saleID string, actor entity.Actor) {
	ev := uc.log.Error()
	if domain.IsBusiness(err) {
		ev = uc.log.Warn()
	}
	ev.Err(err).Str("op", op).Str("sale_id", saleID).Str("user_id", actor.ID).Msg("transacción revertida")
}

// ToSaleResponse convierte la entidad en DTO.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	name := s.CustomerName
	if name == "" {
		name = walkInCustomer
	}
	out := &dto.SaleResponse{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		CustomerName:  name,
		Date:          s.Date,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		UserID:        s.UserID,
		CreatedAt:     s.CreatedAt,
		Items:         make([]dto.SaleItemResponse, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
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
