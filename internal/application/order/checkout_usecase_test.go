package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kryonshao/eshop-sub000/internal/application/catalog"
	"github.com/kryonshao/eshop-sub000/internal/application/inventory"
	"github.com/kryonshao/eshop-sub000/internal/application/order"
	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/infrastructure/memory"
	"github.com/kryonshao/eshop-sub000/pkg/logger"
)

const bodega = "wh-main"

// entorno agrupa los colaboradores reales que el checkout orquesta.
type entorno struct {
	store    *memory.Store
	ledger   *inventory.LedgerUseCase
	catalogo *catalog.UseCase
	checkout *order.CheckoutUseCase
}

func newEntorno(t *testing.T) *entorno {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Warehouses().Create(&entity.Warehouse{
		ID: bodega, Code: "MAIN", Name: "Bodega principal", IsDefault: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	ledger := inventory.NewLedgerUseCase(store, store.Stock(), store.Movements(), store.Warehouses())
	catalogo := catalog.NewUseCase(store.SKUs())
	return &entorno{
		store:    store,
		ledger:   ledger,
		catalogo: catalogo,
		checkout: order.NewCheckoutUseCase(store, catalogo, ledger, logger.Nop()),
	}
}

// sembrarSKU crea un SKU y deja qty unidades disponibles en la bodega principal.
func (e *entorno) sembrarSKU(t *testing.T, productID string, price string, qty int, pairs ...string) *entity.SKU {
	t.Helper()
	attrs := make([]entity.VariantAttribute, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		attrs = append(attrs, entity.VariantAttribute{Name: pairs[i], Value: pairs[i+1]})
	}
	s, err := e.catalogo.CreateSKU(context.Background(), catalog.CreateSKUInput{
		ProductID:  productID,
		Attributes: attrs,
		Price:      decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	if qty > 0 {
		require.NoError(t, e.ledger.Receive(context.Background(), inventory.ReceiveInput{
			SKUID:       s.ID,
			WarehouseID: bodega,
			Quantity:    qty,
			Reason:      "siembra",
		}))
	}
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckout_CreaOrdenPendingConReserva(t *testing.T) {
	e := newEntorno(t)
	ctx := context.Background()
	e.sembrarSKU(t, "camiseta", "25.50", 10, "color", "rojo", "size", "M")

	o, err := e.checkout.Checkout(ctx, order.CheckoutInput{
		UserID:          "user-1",
		WarehouseID:     bodega,
		ShippingAddress: "Calle 10 #4-20",
		Lines: []order.CheckoutLine{{
			ProductID:   "camiseta",
			Attributes:  []entity.VariantAttribute{{Name: "color", Value: "rojo"}, {Name: "size", Value: "M"}},
			ProductName: "Camiseta básica",
			Quantity:    2,
		}},
	})
	require.NoError(t, err)
	require.NotNil(t, o)

	assert.Equal(t, entity.OrderStatusPending, o.Status)
	assert.NotEmpty(t, o.OrderNo)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("51.00")),
		"total = precio del SKU x cantidad, got %s", o.TotalAmount)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "M", o.Items[0].Size)
	assert.Equal(t, "rojo", o.Items[0].Color)

	// La reserva quedó aplicada en el ledger.
	stock, err := e.store.Stock().Get(o.Items[0].SKUID, bodega)
	require.NoError(t, err)
	assert.Equal(t, 8, stock.Available)
	assert.Equal(t, 2, stock.Reserved)

	// Primera entrada de tracking en pending.
	tracking, err := e.store.Tracking().ListByOrder(o.ID)
	require.NoError(t, err)
	require.Len(t, tracking, 1)
	assert.Equal(t, entity.OrderStatusPending, tracking[0].Status)
	assert.Equal(t, "订单已创建，等待支付", tracking[0].Description)

	// La orden quedó persistida con sus items.
	guardada, err := e.store.Orders().GetByID(o.ID)
	require.NoError(t, err)
	require.NotNil(t, guardada)
	assert.Len(t, guardada.Items, 1)
}

func TestCheckout_TotalMultilinea(t *testing.T) {
	e := newEntorno(t)
	ctx := context.Background()
	e.sembrarSKU(t, "camiseta", "25.50", 10, "color", "rojo")
	e.sembrarSKU(t, "pantalon", "60.00", 10, "color", "negro")

	o, err := e.checkout.Checkout(ctx, order.CheckoutInput{
		UserID:      "user-1",
		WarehouseID: bodega,
		Lines: []order.CheckoutLine{
			{ProductID: "camiseta", Attributes: []entity.VariantAttribute{{Name: "color", Value: "rojo"}}, Quantity: 3},
			{ProductID: "pantalon", Attributes: []entity.VariantAttribute{{Name: "color", Value: "negro"}}, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("136.50")),
		"3x25.50 + 1x60.00, got %s", o.TotalAmount)
}

func TestCheckout_TodoONada(t *testing.T) {
	e := newEntorno(t)
	ctx := context.Background()
	conStock := e.sembrarSKU(t, "camiseta", "25.50", 10, "color", "rojo")
	e.sembrarSKU(t, "pantalon", "60.00", 1, "color", "negro")

	// La segunda línea pide más de lo disponible: la reserva de la primera debe revertirse.
	_, err := e.checkout.Checkout(ctx, order.CheckoutInput{
		UserID:      "user-1",
		WarehouseID: bodega,
		Lines: []order.CheckoutLine{
			{ProductID: "camiseta", Attributes: []entity.VariantAttribute{{Name: "color", Value: "rojo"}}, Quantity: 2},
			{ProductID: "pantalon", Attributes: []entity.VariantAttribute{{Name: "color", Value: "negro"}}, Quantity: 5},
		},
	})
	require.Error(t, err)

	var lineErr *order.LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 1, lineErr.Index, "el error señala la línea culpable")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	stock, err := e.store.Stock().Get(conStock.ID, bodega)
	require.NoError(t, err)
	assert.Equal(t, 10, stock.Available, "la reserva de la primera línea se revirtió")
	assert.Equal(t, 0, stock.Reserved)

	// Tampoco quedó orden ni movimientos huérfanos.
	movs, err := e.store.Movements().ListBySKU(conStock.ID, nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "solo la recepción de siembra")
}

func TestCheckout_VarianteInexistente(t *testing.T) {
	e := newEntorno(t)
	e.sembrarSKU(t, "camiseta", "25.50", 10, "color", "rojo")

	_, err := e.checkout.Checkout(context.Background(), order.CheckoutInput{
		UserID:      "user-1",
		WarehouseID: bodega,
		Lines: []order.CheckoutLine{{
			ProductID:  "camiseta",
			Attributes: []entity.VariantAttribute{{Name: "color", Value: "verde"}},
			Quantity:   1,
		}},
	})
	require.Error(t, err)

	var lineErr *order.LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 0, lineErr.Index)
	assert.ErrorIs(t, err, domain.ErrNotFound, "configuración no vendible, no agotamiento")
}

func TestCheckout_SKUDesactivadoNoResuelve(t *testing.T) {
	e := newEntorno(t)
	ctx := context.Background()
	s := e.sembrarSKU(t, "camiseta", "25.50", 10, "color", "rojo")
	require.NoError(t, e.catalogo.DeactivateSKU(ctx, s.ID))

	_, err := e.checkout.Checkout(ctx, order.CheckoutInput{
		UserID:      "user-1",
		WarehouseID: bodega,
		Lines: []order.CheckoutLine{{
			ProductID:  "camiseta",
			Attributes: []entity.VariantAttribute{{Name: "color", Value: "rojo"}},
			Quantity:   1,
		}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckout_CarritoVacio(t *testing.T) {
	e := newEntorno(t)
	_, err := e.checkout.Checkout(context.Background(), order.CheckoutInput{
		UserID:      "user-1",
		WarehouseID: bodega,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheckout_CantidadInvalidaEnLinea(t *testing.T) {
	e := newEntorno(t)
	_, err := e.checkout.Checkout(context.Background(), order.CheckoutInput{
		UserID:      "user-1",
		WarehouseID: bodega,
		Lines:       []order.CheckoutLine{{ProductID: "camiseta", Quantity: 0}},
	})
	var lineErr *order.LineError
	require.True(t, errors.As(err, &lineErr))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
