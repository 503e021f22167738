package sales

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// ReceiptGenerator genera la representación imprimible de una venta.
type ReceiptGenerator interface {
	GenerateSaleReceipt(ctx context.Context, sale *entity.Sale) ([]byte, error)
}

// ReceiptUseCase obtiene la venta y delega la generación del PDF.
type ReceiptUseCase struct {
	saleRepo  repository.SaleRepository
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(saleRepo repository.SaleRepository, generator ReceiptGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{saleRepo: saleRepo, generator: generator}
}

// Generate devuelve los bytes del comprobante de la venta id.
func (uc *ReceiptUseCase) Generate(ctx context.Context, id string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NotFound("venta", id)
	}
	if sale.CustomerName == "" {
		sale.CustomerName = walkInCustomer
	}
	return uc.generator.GenerateSaleReceipt(ctx, sale)
}
