// Package textnorm normaliza texto para búsquedas sin tildes ni mayúsculas.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold quita diacríticos, pasa a minúsculas y colapsa espacios.
// "  Café  Molido " → "cafe molido".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// SearchKey construye la clave de búsqueda de un producto a partir de código y nombre.
func SearchKey(code, name string) string {
	return Fold(code + " " + name)
}
