package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kryonshao/eshop-sub000/internal/application/inventory"
	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
	"github.com/kryonshao/eshop-sub000/internal/infrastructure/memory"
)

const (
	bodegaPrincipal = "wh-main"
	bodegaNorte     = "wh-norte"
)

// newLedger arma el caso de uso sobre el store en memoria con dos bodegas sembradas.
func newLedger(t *testing.T) (*inventory.LedgerUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	for _, w := range []*entity.Warehouse{
		{ID: bodegaPrincipal, Code: "MAIN", Name: "Bodega principal", IsDefault: true},
		{ID: bodegaNorte, Code: "NORTE", Name: "Bodega norte"},
	} {
		w.CreatedAt = time.Now()
		w.UpdatedAt = w.CreatedAt
		require.NoError(t, store.Warehouses().Create(w))
	}
	uc := inventory.NewLedgerUseCase(store, store.Stock(), store.Movements(), store.Warehouses())
	return uc, store
}

func recibir(t *testing.T, uc *inventory.LedgerUseCase, skuID, warehouseID string, qty int) {
	t.Helper()
	require.NoError(t, uc.Receive(context.Background(), inventory.ReceiveInput{
		SKUID:       skuID,
		WarehouseID: warehouseID,
		Quantity:    qty,
		Reason:      "recepción inicial",
		UserID:      "user-1",
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_IncrementaDisponibleYRegistraMovimiento(t *testing.T) {
	uc, store := newLedger(t)
	ctx := context.Background()

	recibir(t, uc, "sku-1", bodegaPrincipal, 10)

	stock, err := uc.GetStockInfo(ctx, "sku-1", bodegaPrincipal)
	require.NoError(t, err)
	assert.Equal(t, 10, stock.Available)
	assert.Equal(t, 0, stock.Reserved)

	movs, err := store.Movements().ListBySKU("sku-1", nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypePurchase, movs[0].Type)
	assert.Equal(t, 10, movs[0].Quantity)
	assert.Equal(t, "user-1", movs[0].CreatedBy)
}

func TestReceive_BodegaInexistente(t *testing.T) {
	uc, _ := newLedger(t)
	err := uc.Receive(context.Background(), inventory.ReceiveInput{
		SKUID:       "sku-1",
		WarehouseID: "wh-fantasma",
		Quantity:    5,
	})
	assert.ErrorIs(t, err, domain.ErrWarehouseNotFound)
}

func TestReceive_CantidadInvalida(t *testing.T) {
	uc, _ := newLedger(t)
	err := uc.Receive(context.Background(), inventory.ReceiveInput{
		SKUID:       "sku-1",
		WarehouseID: bodegaPrincipal,
		Quantity:    0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Adjust
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_DecrementoConTope(t *testing.T) {
	uc, store := newLedger(t)
	ctx := context.Background()
	recibir(t, uc, "sku-1", bodegaPrincipal, 3)

	// El decremento excede el disponible: available queda en 0 y el movimiento
	// registra el delta efectivo (-3), no el solicitado (-5).
	require.NoError(t, uc.Adjust(ctx, inventory.AdjustInput{
		SKUID:       "sku-1",
		WarehouseID: bodegaPrincipal,
		Delta:       -5,
		Reason:      "baja por daño",
		UserID:      "user-1",
	}))

	stock, err := uc.GetStockInfo(ctx, "sku-1", bodegaPrincipal)
	require.NoError(t, err)
	assert.Equal(t, 0, stock.Available)

	movs, err := store.Movements().ListBySKU("sku-1", nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	ajuste := movs[1]
	assert.Equal(t, entity.MovementTypeAdjustment, ajuste.Type)
	assert.Equal(t, -3, ajuste.Quantity, "el log debe cuadrar con el contador")
}

func TestAdjust_Incremento(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()

	require.NoError(t, uc.Adjust(ctx, inventory.AdjustInput{
		SKUID:       "sku-1",
		WarehouseID: bodegaPrincipal,
		Delta:       7,
		Reason:      "conteo físico",
	}))

	stock, err := uc.GetStockInfo(ctx, "sku-1", bodegaPrincipal)
	require.NoError(t, err)
	assert.Equal(t, 7, stock.Available)
}

func TestAdjust_DeltaCero(t *testing.T) {
	uc, _ := newLedger(t)
	err := uc.Adjust(context.Background(), inventory.AdjustInput{
		SKUID:       "sku-1",
		WarehouseID: bodegaPrincipal,
		Delta:       0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transfer
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_MueveEntreBodegas(t *testing.T) {
	uc, store := newLedger(t)
	ctx := context.Background()
	recibir(t, uc, "sku-1", bodegaPrincipal, 10)

	require.NoError(t, uc.Transfer(ctx, inventory.TransferInput{
		SKUID:           "sku-1",
		FromWarehouseID: bodegaPrincipal,
		ToWarehouseID:   bodegaNorte,
		Quantity:        4,
		Reason:          "reposición tienda norte",
		UserID:          "user-1",
	}))

	origen, err := uc.GetStockInfo(ctx, "sku-1", bodegaPrincipal)
	require.NoError(t, err)
	destino, err := uc.GetStockInfo(ctx, "sku-1", bodegaNorte)
	require.NoError(t, err)
	assert.Equal(t, 6, origen.Available)
	assert.Equal(t, 4, destino.Available)

	// Dos movimientos transfer con la misma referencia y cantidades espejadas.
	movs, err := store.Movements().ListBySKU("sku-1", nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 3)
	salida, entrada := movs[1], movs[2]
	assert.Equal(t, entity.MovementTypeTransfer, salida.Type)
	assert.Equal(t, -4, salida.Quantity)
	assert.Equal(t, 4, entrada.Quantity)
	assert.NotEmpty(t, salida.ReferenceID)
	assert.Equal(t, salida.ReferenceID, entrada.ReferenceID)
}

func TestTransfer_SinStockSuficiente(t *testing.T) {
	uc, store := newLedger(t)
	ctx := context.Background()
	recibir(t, uc, "sku-1", bodegaPrincipal, 2)

	err := uc.Transfer(ctx, inventory.TransferInput{
		SKUID:           "sku-1",
		FromWarehouseID: bodegaPrincipal,
		ToWarehouseID:   bodegaNorte,
		Quantity:        3,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada se movió y no quedaron movimientos huérfanos.
	origen, err := uc.GetStockInfo(ctx, "sku-1", bodegaPrincipal)
	require.NoError(t, err)
	assert.Equal(t, 2, origen.Available)
	movs, err := store.Movements().ListBySKU("sku-1", nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestTransfer_MismaBodega(t *testing.T) {
	uc, _ := newLedger(t)
	err := uc.Transfer(context.Background(), inventory.TransferInput{
		SKUID:           "sku-1",
		FromWarehouseID: bodegaPrincipal,
		ToWarehouseID:   bodegaPrincipal,
		Quantity:        1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckStock / SetAlertThreshold
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckStock_SumaTodasLasBodegas(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()
	recibir(t, uc, "sku-1", bodegaPrincipal, 3)
	recibir(t, uc, "sku-1", bodegaNorte, 2)

	ok, err := uc.CheckStock(ctx, "sku-1", 5, "")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.CheckStock(ctx, "sku-1", 6, "")
	require.NoError(t, err)
	assert.False(t, ok)

	// Por bodega no se cruza stock de otras.
	ok, err = uc.CheckStock(ctx, "sku-1", 4, bodegaPrincipal)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetAlertThreshold_ApareceEnLowStock(t *testing.T) {
	uc, store := newLedger(t)
	ctx := context.Background()
	recibir(t, uc, "sku-1", bodegaPrincipal, 2)
	recibir(t, uc, "sku-2", bodegaPrincipal, 50)

	require.NoError(t, uc.SetAlertThreshold(ctx, "sku-1", bodegaPrincipal, 5))
	require.NoError(t, uc.SetAlertThreshold(ctx, "sku-2", bodegaPrincipal, 5))

	alerts := inventory.NewAlertsUseCase(store.Stock(), store.Movements())
	low, err := alerts.LowStock(ctx, "", 20, 0)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "sku-1", low[0].SKUID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reservas dentro de transacción
// ──────────────────────────────────────────────────────────────────────────────

func TestReserveRelease_TotalInvariante(t *testing.T) {
	uc, store := newLedger(t)
	ctx := context.Background()
	recibir(t, uc, "sku-1", bodegaPrincipal, 10)
	now := time.Now()

	err := store.Run(ctx, func(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository) error {
		ok, err := uc.ReserveInTx(stockRepo, movRepo, "sku-1", bodegaPrincipal, 4, "order-1", "user-1", now)
		require.NoError(t, err)
		require.True(t, ok)
		return nil
	})
	require.NoError(t, err)

	stock, err := uc.GetStockInfo(ctx, "sku-1", bodegaPrincipal)
	require.NoError(t, err)
	assert.Equal(t, 6, stock.Available)
	assert.Equal(t, 4, stock.Reserved)
	assert.Equal(t, 10, stock.Total(), "reservar no cambia el conteo físico")

	err = store.Run(ctx, func(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository) error {
		return uc.ReleaseInTx(stockRepo, movRepo, "sku-1", bodegaPrincipal, 4, "order-1", "user-1", now)
	})
	require.NoError(t, err)

	stock, err = uc.GetStockInfo(ctx, "sku-1", bodegaPrincipal)
	require.NoError(t, err)
	assert.Equal(t, 10, stock.Available)
	assert.Equal(t, 0, stock.Reserved)
	assert.Equal(t, 10, stock.Total())
}

func TestReserveInTx_SinStockNoMuta(t *testing.T) {
	uc, store := newLedger(t)
	ctx := context.Background()
	recibir(t, uc, "sku-1", bodegaPrincipal, 2)

	err := store.Run(ctx, func(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository) error {
		ok, err := uc.ReserveInTx(stockRepo, movRepo, "sku-1", bodegaPrincipal, 3, "order-1", "user-1", time.Now())
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)

	stock, err := uc.GetStockInfo(ctx, "sku-1", bodegaPrincipal)
	require.NoError(t, err)
	assert.Equal(t, 2, stock.Available)
	assert.Equal(t, 0, stock.Reserved)
}

func TestDeductInTx_DescuentaSoloReservado(t *testing.T) {
	uc, store := newLedger(t)
	ctx := context.Background()
	recibir(t, uc, "sku-1", bodegaPrincipal, 10)
	now := time.Now()

	err := store.Run(ctx, func(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository) error {
		ok, err := uc.ReserveInTx(stockRepo, movRepo, "sku-1", bodegaPrincipal, 4, "order-1", "user-1", now)
		require.NoError(t, err)
		require.True(t, ok)
		return uc.DeductInTx(stockRepo, "sku-1", bodegaPrincipal, 4, now)
	})
	require.NoError(t, err)

	stock, err := uc.GetStockInfo(ctx, "sku-1", bodegaPrincipal)
	require.NoError(t, err)
	assert.Equal(t, 6, stock.Available, "la venta confirmada no devuelve unidades a la pool vendible")
	assert.Equal(t, 0, stock.Reserved)
}

// Dos reservas concurrentes por la última unidad: exactamente una gana.
func TestReserveInTx_CarreraPorUltimaUnidad(t *testing.T) {
	uc, store := newLedger(t)
	ctx := context.Background()
	recibir(t, uc, "sku-1", bodegaPrincipal, 1)

	var wg sync.WaitGroup
	results := make(chan bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			orderID := uuid.New().String()
			err := store.Run(ctx, func(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository) error {
				ok, err := uc.ReserveInTx(stockRepo, movRepo, "sku-1", bodegaPrincipal, 1, orderID, "user-1", time.Now())
				if err != nil {
					return err
				}
				results <- ok
				if !ok {
					return domain.ErrInsufficientStock
				}
				return nil
			})
			if err != nil && err != domain.ErrInsufficientStock {
				t.Errorf("error inesperado en reserva concurrente: %v", err)
			}
		}()
	}
	wg.Wait()
	close(results)

	ganadores := 0
	for ok := range results {
		if ok {
			ganadores++
		}
	}
	assert.Equal(t, 1, ganadores, "solo una reserva puede tomar la última unidad")

	stock, err := uc.GetStockInfo(ctx, "sku-1", bodegaPrincipal)
	require.NoError(t, err)
	assert.Equal(t, 0, stock.Available)
	assert.Equal(t, 1, stock.Reserved)
}
