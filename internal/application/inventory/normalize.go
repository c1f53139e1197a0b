package inventory

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName clave de búsqueda de un ítem: sin acentos, minúsculas y espacios colapsados.
// "  Açúcar  Refinado" → "acucar refinado".
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, name)
	if err != nil {
		out = name
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}
