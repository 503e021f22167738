// Package pdf genera el comprobante de venta en PDF con Maroto v2.
//
// Layout (A4):
//
//	┌──────────────────────────────────────────────┐
//	│  Negocio                │  N° venta + fecha  │
//	│  Cliente + forma de pago                     │
//	│  Cant | Producto | P.Unit | Subtotal         │
//	│  TOTAL                                       │
//	│  QR con el id de la venta                    │
//	└──────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

var _ sales.ReceiptGenerator = (*ReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ReceiptGenerator implementa sales.ReceiptGenerator.
type ReceiptGenerator struct {
	businessName string
}

// NewReceiptGenerator construye el generador; businessName encabeza el comprobante.
func NewReceiptGenerator(businessName string) *ReceiptGenerator {
	return &ReceiptGenerator{businessName: businessName}
}

// GenerateSaleReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateSaleReceipt(_ context.Context, sale *entity.Sale) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de venta", true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(sale.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(sale.Total))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(sale.ID))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *ReceiptGenerator) headerRow(sale *entity.Sale) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.businessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("#"+shortID(sale.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+sale.Date.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func customerRow(sale *entity.Sale) core.Row {
	return row.New(12).Add(
		col.New(8).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(sale.CustomerName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
		col.New(4).Add(
			text.New("Forma de pago: "+sale.PaymentMethod, props.Text{
				Size: 8, Align: align.Right, Top: 6, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func itemRows(items []*entity.SaleItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(it.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatMoney(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(formatMoney(it.Subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(formatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func footerRow(saleID string) core.Row {
	return row.New(35).Add(
		col.New(3).Add(code.NewQr(saleID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Gracias por su compra.", props.Text{Style: fontstyle.Bold, Size: 9, Top: 4, Left: 3}),
			text.New("Venta "+saleID, props.Text{Size: 7, Top: 12, Left: 3, Color: colorGray}),
		),
	)
}

// shortID primeros 8 caracteres del uuid.
func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// formatMoney redondea a pesos e inserta puntos de miles.
// Ej: 25000 → "$25.000", 1234567.6 → "$1.234.568".
func formatMoney(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + "$" + string(buf)
}
