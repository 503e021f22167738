package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

const header = "codigo;nombre;precio_compra;precio_venta;stock;stock_minimo\n"

func TestParseCatalog_Latin1YComaDecimal(t *testing.T) {
	// "Café" en ISO-8859-1: é = 0xE9
	raw := append([]byte(header+"CAF-1;Caf"), 0xE9)
	raw = append(raw, []byte(" molido;12000,50;18000;24;10\n")...)

	r, err := decodeReader(bytes.NewReader(raw), "latin1")
	require.NoError(t, err)
	rows, err := parseCatalog(r)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Café molido", rows[0].Name)
	assert.True(t, decimal.RequireFromString("12000.50").Equal(rows[0].PurchasePrice))
	assert.Equal(t, 24, rows[0].Stock)
	assert.Equal(t, 10, rows[0].MinStock)
}

func TestParseCatalog_CodigoRepetido(t *testing.T) {
	_, err := parseCatalog(strings.NewReader(header + "A;Uno;1;2;0;0\nA;Dos;1;2;0;0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 3")
}

func TestParseCatalog_StockNegativo(t *testing.T) {
	_, err := parseCatalog(strings.NewReader(header + "A;Uno;1;2;-4;0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock")
}

func TestParseCatalog_SoloEncabezado(t *testing.T) {
	rows, err := parseCatalog(strings.NewReader(header))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDecodeReader_CodificacionDesconocida(t *testing.T) {
	_, err := decodeReader(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}

func TestWriteSQL(t *testing.T) {
	admin := &entity.User{ID: "u-1", Email: "admin@tienda.co", PasswordHash: "$2a$hash", Name: "D'Angelo", Role: entity.RoleAdmin}
	rows := []catalogRow{{Code: "P-1", Name: "Jabón", SalePrice: decimal.NewFromInt(3000), Stock: 5}}

	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, admin, rows, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
	sql := buf.String()

	assert.Contains(t, sql, "ON CONFLICT (email) DO NOTHING")
	assert.Contains(t, sql, "'D''Angelo'")
	assert.Contains(t, sql, "'p-1 jabon'", "search_key normalizado")
	assert.Contains(t, sql, "'AJUSTE_ENTRADA', 'AJUSTE_MANUAL'")
	assert.True(t, strings.HasSuffix(sql, "COMMIT;\n"))
}
