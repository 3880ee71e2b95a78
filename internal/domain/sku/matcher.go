package sku

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
)

// Matches verifica si los atributos de un SKU son un superconjunto de los atributos consultados.
// Todos los atributos suministrados deben coincidir (nombre y valor, case-insensitive);
// atributos extra del SKU no suministrados no se exigen (consulta parcial permitida).
func Matches(skuAttrs, query []entity.VariantAttribute) bool {
	for _, q := range query {
		found := false
		for _, a := range skuAttrs {
			if strings.EqualFold(a.Name, q.Name) && strings.EqualFold(a.Value, q.Value) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// BuildSKUCode deriva el código legible de un SKU de forma determinista:
// primeros 8 caracteres del product id en mayúsculas + "-" + hasta 3 caracteres en mayúsculas
// de cada valor de atributo, unidos por "-". Colisiones entre productos son aceptables:
// el código es informativo, no la clave primaria.
func BuildSKUCode(productID string, attrs []entity.VariantAttribute) string {
	parts := make([]string, 0, len(attrs)+1)
	parts = append(parts, strings.ToUpper(firstRunes(productID, 8)))
	for _, a := range attrs {
		parts = append(parts, strings.ToUpper(firstRunes(foldDiacritics(a.Value), 3)))
	}
	return strings.Join(parts, "-")
}

// foldTransformer elimina marcas diacríticas (NFD → quitar Mn → NFC) para que
// valores como "Média" produzcan "MED" y no bytes partidos de la combinación.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldDiacritics(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return out
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
