package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kryonshao/eshop-sub000/internal/application/catalog"
	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/infrastructure/memory"
)

func newCatalog(t *testing.T) *catalog.UseCase {
	t.Helper()
	return catalog.NewUseCase(memory.NewStore().SKUs())
}

func crearSKU(t *testing.T, uc *catalog.UseCase, productID, price string, pairs ...string) *entity.SKU {
	t.Helper()
	attrs := make([]entity.VariantAttribute, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		attrs = append(attrs, entity.VariantAttribute{Name: pairs[i], Value: pairs[i+1]})
	}
	s, err := uc.CreateSKU(context.Background(), catalog.CreateSKUInput{
		ProductID:  productID,
		Attributes: attrs,
		Price:      decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateSKU
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSKU_GeneraCodigoYQuedaActivo(t *testing.T) {
	uc := newCatalog(t)
	s := crearSKU(t, uc, "camiseta", "25.50", "color", "rojo", "talla", "M")

	assert.True(t, s.IsActive)
	assert.Equal(t, "CAMISETA-ROJ-M", s.SKUCode)
	assert.True(t, s.Price.Equal(decimal.RequireFromString("25.50")))
}

func TestCreateSKU_CombinacionDuplicada(t *testing.T) {
	uc := newCatalog(t)
	crearSKU(t, uc, "camiseta", "25.50", "color", "rojo")

	_, err := uc.CreateSKU(context.Background(), catalog.CreateSKUInput{
		ProductID:  "camiseta",
		Attributes: []entity.VariantAttribute{{Name: "color", Value: "rojo"}},
		Price:      decimal.RequireFromString("30.00"),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateSKU_PrecioNegativo(t *testing.T) {
	uc := newCatalog(t)
	_, err := uc.CreateSKU(context.Background(), catalog.CreateSKUInput{
		ProductID: "camiseta",
		Price:     decimal.RequireFromString("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSKU_AtributoSinValor(t *testing.T) {
	uc := newCatalog(t)
	_, err := uc.CreateSKU(context.Background(), catalog.CreateSKUInput{
		ProductID:  "camiseta",
		Attributes: []entity.VariantAttribute{{Name: "color", Value: ""}},
		Price:      decimal.RequireFromString("10"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolve
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_PrefiereCoincidenciaExacta(t *testing.T) {
	uc := newCatalog(t)
	ctx := context.Background()
	crearSKU(t, uc, "camiseta", "25.50", "color", "rojo", "talla", "M")
	exacto := crearSKU(t, uc, "camiseta", "22.00", "color", "rojo")

	// Ambos SKUs matchean {color=rojo}; gana el que tiene exactamente esos atributos.
	s, err := uc.Resolve(ctx, "camiseta", []entity.VariantAttribute{{Name: "color", Value: "rojo"}})
	require.NoError(t, err)
	assert.Equal(t, exacto.ID, s.ID)
}

func TestResolve_CaseInsensitive(t *testing.T) {
	uc := newCatalog(t)
	creado := crearSKU(t, uc, "camiseta", "25.50", "Color", "Rojo")

	s, err := uc.Resolve(context.Background(), "camiseta",
		[]entity.VariantAttribute{{Name: "color", Value: "ROJO"}})
	require.NoError(t, err)
	assert.Equal(t, creado.ID, s.ID)
}

func TestResolve_SinCoincidencia(t *testing.T) {
	uc := newCatalog(t)
	crearSKU(t, uc, "camiseta", "25.50", "color", "rojo")

	_, err := uc.Resolve(context.Background(), "camiseta",
		[]entity.VariantAttribute{{Name: "color", Value: "verde"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolve_IgnoraDesactivados(t *testing.T) {
	uc := newCatalog(t)
	ctx := context.Background()
	s := crearSKU(t, uc, "camiseta", "25.50", "color", "rojo")
	require.NoError(t, uc.DeactivateSKU(ctx, s.ID))

	_, err := uc.Resolve(ctx, "camiseta", []entity.VariantAttribute{{Name: "color", Value: "rojo"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// DeactivateSKU / ListSKUs
// ──────────────────────────────────────────────────────────────────────────────

func TestDeactivateSKU_Inexistente(t *testing.T) {
	uc := newCatalog(t)
	err := uc.DeactivateSKU(context.Background(), "sku-fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSKUs_IncluyeInactivos(t *testing.T) {
	uc := newCatalog(t)
	ctx := context.Background()
	s1 := crearSKU(t, uc, "camiseta", "25.50", "color", "rojo")
	crearSKU(t, uc, "camiseta", "25.50", "color", "azul")
	require.NoError(t, uc.DeactivateSKU(ctx, s1.ID))

	// El back-office ve el catálogo completo, incluidos los desactivados.
	skus, err := uc.ListSKUs(ctx, "camiseta", 10, 0)
	require.NoError(t, err)
	assert.Len(t, skus, 2)
}
