package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
)

func TestReplenishment_SugiereHastaStockIdeal(t *testing.T) {
	store := memory.New()
	now := time.Now()
	add := func(code string, stock, minStock int, cost int64, active bool) string {
		id := uuid.NewString()
		store.AddProduct(&entity.Product{
			ID: id, Code: code, Name: code, PurchasePrice: decimal.NewFromInt(cost),
			Stock: stock, MinStock: minStock, Active: active, CreatedAt: now, UpdatedAt: now,
		})
		return id
	}
	casiAgotado := add("A", 1, 10, 500, true) // déficit 0.9
	enMinimo := add("B", 4, 4, 1000, true)    // déficit 0
	mitad := add("C", 5, 10, 200, true)       // déficit 0.5
	add("D", 50, 10, 100, true)               // sobre el mínimo
	add("E", 0, 10, 100, false)               // inactivo

	out, err := inventory.NewReplenishmentUseCase(store.Products()).GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, casiAgotado, out[0].ProductID)
	assert.Equal(t, mitad, out[1].ProductID)
	assert.Equal(t, enMinimo, out[2].ProductID)

	first := out[0]
	assert.Equal(t, 15, first.IdealStock)
	assert.Equal(t, 14, first.SuggestedOrderQty)
	assert.True(t, decimal.NewFromInt(7000).Equal(first.EstimatedCost), first.EstimatedCost.String())
	assert.Equal(t, 1, first.Priority)

	assert.Equal(t, 6, out[2].IdealStock, "1.5 × 4")
	assert.Equal(t, 2, out[2].SuggestedOrderQty)
	assert.Equal(t, 3, out[2].Priority)
}

func TestReplenishment_SinProductosBajoMinimo(t *testing.T) {
	out, err := inventory.NewReplenishmentUseCase(memory.New().Products()).GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
}
