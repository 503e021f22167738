package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

const lowStockScanLimit = 500

// ReplenishmentUseCase genera la lista de reposición: productos activos con
// stock en o por debajo del mínimo, con la cantidad sugerida de pedido.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo}
}

// GenerateReplenishmentList devuelve las sugerencias ordenadas por déficit
// relativo descendente (el más cercano a quiebre primero).
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.LowStockSuggestionDTO, error) {
	products, err := uc.productRepo.ListLowStock(ctx, lowStockScanLimit)
	if err != nil {
		return nil, err
	}
	suggestions := make([]dto.LowStockSuggestionDTO, 0, len(products))
	for _, p := range products {
		// Stock ideal = 1.5 × mínimo, redondeado hacia arriba.
		ideal := (p.MinStock*3 + 1) / 2
		if ideal < 1 {
			ideal = 1
		}
		qty := ideal - p.Stock
		if qty < 0 {
			qty = 0
		}
		suggestions = append(suggestions, dto.LowStockSuggestionDTO{
			ProductID:         p.ID,
			Code:              p.Code,
			Name:              p.Name,
			CurrentStock:      p.Stock,
			MinStock:          p.MinStock,
			IdealStock:        ideal,
			SuggestedOrderQty: qty,
			UnitCost:          p.PurchasePrice,
			EstimatedCost:     p.PurchasePrice.Mul(decimal.NewFromInt(int64(qty))),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		ra := deficitRatio(a)
		rb := deficitRatio(b)
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		return a.SuggestedOrderQty > b.SuggestedOrderQty
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

// deficitRatio = (mínimo - actual) / mínimo; 1 cuando el mínimo es 0.
func deficitRatio(s dto.LowStockSuggestionDTO) decimal.Decimal {
	if s.MinStock <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(s.MinStock - s.CurrentStock)).Div(decimal.NewFromInt(int64(s.MinStock)))
}
