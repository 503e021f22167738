package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]decimal.Decimal{
		"$0":         decimal.Zero,
		"$950":       decimal.NewFromInt(950),
		"$25.000":    decimal.NewFromInt(25000),
		"$1.234.568": decimal.RequireFromString("1234567.6"),
		"-$1.500":    decimal.NewFromInt(-1500),
	}
	for want, in := range cases {
		assert.Equal(t, want, formatMoney(in))
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "ABCDEF12", shortID("abcdef12-3456"))
	assert.Equal(t, "AB", shortID("ab"))
}

func TestGenerateSaleReceipt_ProducesPDF(t *testing.T) {
	g := NewReceiptGenerator("Tienda Prueba")
	sale := &entity.Sale{
		ID:            "0f8c2a4e-1111-2222-3333-444455556666",
		CustomerName:  "Consumidor final",
		Date:          time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		PaymentMethod: entity.PaymentEfectivo,
		Total:         decimal.NewFromInt(30),
		Items: []*entity.SaleItem{
			{ProductName: "Café", Quantity: 2, UnitPrice: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(20)},
			{ProductName: "Pan", Quantity: 1, UnitPrice: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(10)},
		},
	}
	out, err := g.GenerateSaleReceipt(context.Background(), sale)
	require.NoError(t, err)
	require.Greater(t, len(out), 4)
	assert.Equal(t, "%PDF", string(out[:4]))
}
