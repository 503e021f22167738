// seed genera el script SQL de arranque para PostgreSQL: usuario administrador
// y catálogo inicial leído de un CSV exportado desde hoja de cálculo.
//
// Uso: go run ./cmd/seed -catalog productos.csv -email admin@tienda.co -password secreto [-encoding latin1] [-out seed.sql]
//
// Formato del CSV (separador ';', con encabezado):
//
//	codigo;nombre;precio_compra;precio_venta;stock;stock_minimo
//
// El stock inicial entra como AJUSTE_ENTRADA para que el historial del producto cuadre.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/pkg/textnorm"
)

type catalogRow struct {
	Code          string
	Name          string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	Stock         int
	MinStock      int
}

func main() {
	catalogPath := flag.String("catalog", "", "CSV con el catálogo inicial (opcional)")
	encoding := flag.String("encoding", "utf-8", "codificación del CSV: utf-8, latin1, windows-1252")
	email := flag.String("email", "", "email del administrador")
	password := flag.String("password", "", "contraseña del administrador")
	name := flag.String("name", "Administrador", "nombre del administrador")
	outPath := flag.String("out", "", "archivo de salida (vacío = stdout)")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "-email y -password son obligatorios")
		os.Exit(2)
	}

	var rows []catalogRow
	if *catalogPath != "" {
		f, err := os.Open(*catalogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		r, err := decodeReader(f, *encoding)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		rows, err = parseCatalog(r)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
			os.Exit(1)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hash de contraseña: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		file, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}

	admin := &entity.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		PasswordHash: string(hash),
		Name:         *name,
		Role:         entity.RoleAdmin,
		Status:       "active",
	}
	if err := writeSQL(out, admin, rows, time.Now().UTC()); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	if *outPath != "" {
		fmt.Fprintf(os.Stderr, "Generado %s: administrador %s, %d productos\n", *outPath, admin.Email, len(rows))
	}
}

// decodeReader envuelve r con el decodificador de la codificación indicada.
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(encoding, "_", "-")) {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("codificación no soportada: %q", encoding)
}

// parseCatalog lee el CSV; la primera fila es encabezado. Acepta coma decimal.
func parseCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 6

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	var rows []catalogRow
	seen := make(map[string]int)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if prev, ok := seen[row.Code]; ok {
			return nil, fmt.Errorf("línea %d: código %s repetido (línea %d)", line, row.Code, prev)
		}
		seen[row.Code] = line
		rows = append(rows, row)
	}
}

func parseRow(rec []string) (catalogRow, error) {
	row := catalogRow{Code: strings.TrimSpace(rec[0]), Name: strings.TrimSpace(rec[1])}
	if row.Code == "" || row.Name == "" {
		return row, errors.New("código y nombre son obligatorios")
	}
	var err error
	if row.PurchasePrice, err = parseMoney(rec[2]); err != nil {
		return row, fmt.Errorf("precio_compra: %w", err)
	}
	if row.SalePrice, err = parseMoney(rec[3]); err != nil {
		return row, fmt.Errorf("precio_venta: %w", err)
	}
	if row.Stock, err = parseCount(rec[4]); err != nil {
		return row, fmt.Errorf("stock: %w", err)
	}
	if row.MinStock, err = parseCount(rec[5]); err != nil {
		return row, fmt.Errorf("stock_minimo: %w", err)
	}
	return row, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("no puede ser negativo")
	}
	return d, nil
}

func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("no puede ser negativo")
	}
	return n, nil
}

// writeSQL escribe un script idempotente: los usuarios y productos que ya existen se omiten.
func writeSQL(w io.Writer, admin *entity.User, rows []catalogRow, now time.Time) error {
	var b strings.Builder
	ts := now.Format(time.RFC3339)

	b.WriteString("-- Datos iniciales del punto de venta\n")
	b.WriteString("BEGIN;\n\n")
	fmt.Fprintf(&b, "INSERT INTO users (id, email, password_hash, name, role, status, created_at, updated_at)\n")
	fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', '%s', '%s', 'active', '%s', '%s')\n",
		admin.ID, escapeSQL(admin.Email), escapeSQL(admin.PasswordHash), escapeSQL(admin.Name), admin.Role, ts, ts)
	b.WriteString("ON CONFLICT (email) DO NOTHING;\n")

	for _, row := range rows {
		b.WriteString("\n")
		fmt.Fprintf(&b, "WITH p AS (\n")
		fmt.Fprintf(&b, "  INSERT INTO products (id, code, name, purchase_price, sale_price, stock, min_stock, active, search_key, created_at, updated_at)\n")
		fmt.Fprintf(&b, "  VALUES ('%s', '%s', '%s', %s, %s, %d, %d, TRUE, '%s', '%s', '%s')\n",
			uuid.NewString(), escapeSQL(row.Code), escapeSQL(row.Name),
			row.PurchasePrice.StringFixed(2), row.SalePrice.StringFixed(2), row.Stock, row.MinStock,
			escapeSQL(textnorm.SearchKey(row.Code, row.Name)), ts, ts)
		fmt.Fprintf(&b, "  ON CONFLICT (code) DO NOTHING\n")
		fmt.Fprintf(&b, "  RETURNING id, stock\n")
		fmt.Fprintf(&b, ")\n")
		fmt.Fprintf(&b, "INSERT INTO stock_movements (id, product_id, type, origin, quantity, stock_before, stock_after, notes, user_id, moved_at, created_at)\n")
		fmt.Fprintf(&b, "SELECT '%s', id, '%s', '%s', stock, 0, stock, 'Inventario inicial', (SELECT id FROM users WHERE email = '%s'), '%s', '%s'\n",
			uuid.NewString(), entity.MovementTypeAjusteEntrada, entity.OriginAjusteManual, escapeSQL(admin.Email), ts, ts)
		fmt.Fprintf(&b, "FROM p WHERE stock > 0;\n")
	}

	b.WriteString("\nCOMMIT;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
