package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

const cashCountDateLayout = "2006-01-02"

// CashCountUseCase arqueos de caja. Los totales se calculan a partir de las
// ventas del día; el cliente solo informa base inicial y efectivo contado.
type CashCountUseCase struct {
	repo     repository.CashCountRepository
	saleRepo repository.SaleRepository
	loc      *time.Location
	now      func() time.Time
}

// NewCashCountUseCase construye el caso de uso. loc define el día de la tienda (nil = time.Local).
func NewCashCountUseCase(repo repository.CashCountRepository, saleRepo repository.SaleRepository, loc *time.Location) *CashCountUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &CashCountUseCase{repo: repo, saleRepo: saleRepo, loc: loc, now: time.Now}
}

// Create registra el arqueo del día indicado (vacío = hoy). Un arqueo por día.
func (uc *CashCountUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateCashCountRequest) (*dto.CashCountResponse, error) {
	if !actor.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if in.OpeningAmount.IsNegative() || in.CountedCash.IsNegative() {
		return nil, domain.Invalid("los montos no pueden ser negativos")
	}
	now := uc.now().In(uc.loc)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	if in.Date != "" {
		d, err := time.ParseInLocation(cashCountDateLayout, in.Date, uc.loc)
		if err != nil {
			return nil, domain.Invalid("date inválida, formato esperado YYYY-MM-DD")
		}
		day = d
	}
	if day.After(now) {
		return nil, domain.Invalid("no se puede arquear un día futuro")
	}

	existing, err := uc.repo.GetByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.DomainError{Err: domain.ErrDuplicate, Message: "ya existe un arqueo para " + day.Format(cashCountDateLayout)}
	}

	totals, err := uc.saleRepo.TotalsByPaymentMethod(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	cash := totals[entity.PaymentEfectivo]
	card := totals[entity.PaymentTarjeta]
	transfer := totals[entity.PaymentTransferencia]

	cc := &entity.CashCount{
		ID:             uuid.New().String(),
		Date:           day,
		OpeningAmount:  in.OpeningAmount,
		TotalCollected: cash.Add(card).Add(transfer),
		TotalCash:      cash,
		TotalCard:      card,
		TotalTransfer:  transfer,
		CountedCash:    in.CountedCash,
		Notes:          in.Notes,
		UserID:         actor.ID,
		CreatedAt:      uc.now(),
	}
	cc.Difference = Difference(cc.CountedCash, cc.OpeningAmount, cc.TotalCash)

	if err := uc.repo.Create(ctx, cc); err != nil {
		return nil, err
	}
	return toCashCountResponse(cc), nil
}

// Difference = contado - (base + ventas en efectivo). Positivo = sobrante.
func Difference(counted, opening, cashSales decimal.Decimal) decimal.Decimal {
	return counted.Sub(opening.Add(cashSales))
}

// GetByID obtiene un arqueo.
func (uc *CashCountUseCase) GetByID(ctx context.Context, id string) (*dto.CashCountResponse, error) {
	cc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cc == nil {
		return nil, domain.NotFound("arqueo", id)
	}
	return toCashCountResponse(cc), nil
}

// List lista arqueos por fecha descendente.
func (uc *CashCountUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CashCountListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CashCountResponse, 0, len(list))
	for _, cc := range list {
		items = append(items, *toCashCountResponse(cc))
	}
	return &dto.CashCountListResponse{Items: items, Page: dto.NewPage(page.Limit, page.Offset, total)}, nil
}

func toCashCountResponse(cc *entity.CashCount) *dto.CashCountResponse {
	return &dto.CashCountResponse{
		ID:             cc.ID,
		Date:           cc.Date.Format(cashCountDateLayout),
		OpeningAmount:  cc.OpeningAmount,
		TotalCollected: cc.TotalCollected,
		TotalCash:      cc.TotalCash,
		TotalCard:      cc.TotalCard,
		TotalTransfer:  cc.TotalTransfer,
		CountedCash:    cc.CountedCash,
		Difference:     cc.Difference,
		Notes:          cc.Notes,
		UserID:         cc.UserID,
		CreatedAt:      cc.CreatedAt,
	}
}
