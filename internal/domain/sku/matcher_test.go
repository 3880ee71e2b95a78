package sku_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/domain/sku"
)

func attrs(pairs ...string) []entity.VariantAttribute {
	out := make([]entity.VariantAttribute, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, entity.VariantAttribute{Name: pairs[i], Value: pairs[i+1]})
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Matches
// ──────────────────────────────────────────────────────────────────────────────

func TestMatches_CoincidenciaExacta(t *testing.T) {
	skuAttrs := attrs("color", "rojo", "talla", "M")
	assert.True(t, sku.Matches(skuAttrs, attrs("color", "rojo", "talla", "M")))
}

func TestMatches_CaseInsensitive(t *testing.T) {
	skuAttrs := attrs("Color", "Rojo", "Talla", "M")
	assert.True(t, sku.Matches(skuAttrs, attrs("color", "ROJO", "talla", "m")),
		"nombre y valor deben comparar sin distinguir mayúsculas")
}

func TestMatches_ConsultaParcial(t *testing.T) {
	// El SKU tiene más atributos que la consulta: los extra no se exigen.
	skuAttrs := attrs("color", "rojo", "talla", "M", "material", "algodón")
	assert.True(t, sku.Matches(skuAttrs, attrs("color", "rojo")))
}

func TestMatches_ValorDistinto(t *testing.T) {
	skuAttrs := attrs("color", "rojo", "talla", "M")
	assert.False(t, sku.Matches(skuAttrs, attrs("color", "azul")))
}

func TestMatches_AtributoAusente(t *testing.T) {
	skuAttrs := attrs("color", "rojo")
	assert.False(t, sku.Matches(skuAttrs, attrs("talla", "M")),
		"un atributo consultado que el SKU no tiene nunca coincide")
}

func TestMatches_ConsultaVacia(t *testing.T) {
	// Consulta vacía coincide con cualquier SKU (superset trivial).
	assert.True(t, sku.Matches(attrs("color", "rojo"), nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// BuildSKUCode
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildSKUCode_Determinista(t *testing.T) {
	code1 := sku.BuildSKUCode("camiseta-basica", attrs("color", "rojo", "talla", "M"))
	code2 := sku.BuildSKUCode("camiseta-basica", attrs("color", "rojo", "talla", "M"))
	assert.Equal(t, code1, code2, "el código debe ser determinista")
	assert.Equal(t, "CAMISETA-ROJ-M", code1)
}

func TestBuildSKUCode_TruncaProductoYValores(t *testing.T) {
	code := sku.BuildSKUCode("pantalon-largo-invierno", attrs("color", "negro"))
	assert.Equal(t, "PANTALON-NEG", code,
		"producto a 8 runas y valor a 3, siempre en mayúsculas")
}

func TestBuildSKUCode_SinAtributos(t *testing.T) {
	assert.Equal(t, "GORRA", sku.BuildSKUCode("gorra", nil))
}

func TestBuildSKUCode_PliegaDiacriticos(t *testing.T) {
	code := sku.BuildSKUCode("vestido", attrs("talla", "média"))
	assert.Equal(t, "VESTIDO-MED", code,
		"los diacríticos se pliegan antes de truncar para no partir bytes")
}
