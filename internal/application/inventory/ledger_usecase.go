package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
)

// LedgerUseCase es el libro mayor de inventario: posee los contadores available/reserved
// por (SKU, bodega) y el log append-only de movimientos. Toda mutación corre dentro de una
// transacción (TxRunner) y produce exactamente una fila de movimiento (dos en traslados).
//
// Las operaciones que afectan reservas de órdenes (ReserveInTx/ReleaseInTx/DeductInTx) solo
// se invocan desde la máquina de estados de órdenes, dentro de la transacción del caller:
// el ciclo de vida de la orden es quien garantiza que cada una se aplique una sola vez.
type LedgerUseCase struct {
	txRunner      TxRunner
	stockRepo     repository.StockRepository
	movementRepo  repository.StockMovementRepository
	warehouseRepo repository.WarehouseRepository
}

// NewLedgerUseCase construye el caso de uso del libro mayor.
func NewLedgerUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	movementRepo repository.StockMovementRepository,
	warehouseRepo repository.WarehouseRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:      txRunner,
		stockRepo:     stockRepo,
		movementRepo:  movementRepo,
		warehouseRepo: warehouseRepo,
	}
}

// CheckStock indica si hay al menos qty unidades disponibles del SKU.
// warehouseID vacío suma available en todas las bodegas. Es una lectura sin lock:
// los callers deben re-verificar atómicamente dentro de ReserveInTx.
func (uc *LedgerUseCase) CheckStock(ctx context.Context, skuID string, qty int, warehouseID string) (bool, error) {
	if skuID == "" || qty <= 0 {
		return false, domain.ErrInvalidInput
	}
	if warehouseID == "" {
		total, err := uc.stockRepo.SumAvailable(skuID)
		if err != nil {
			return false, err
		}
		return total >= qty, nil
	}
	stock, err := uc.stockRepo.Get(skuID, warehouseID)
	if err != nil {
		return false, err
	}
	return stock.Available >= qty, nil
}

// GetStockInfo devuelve los contadores actuales de un SKU en una bodega.
func (uc *LedgerUseCase) GetStockInfo(ctx context.Context, skuID, warehouseID string) (*entity.StockInfo, error) {
	if skuID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.stockRepo.Get(skuID, warehouseID)
}

// ReceiveInput entrada para recepción de mercancía.
type ReceiveInput struct {
	SKUID       string
	WarehouseID string
	Quantity    int
	Reason      string
	UserID      string
}

// Receive registra una entrada de mercancía: available += qty, movimiento tipo purchase.
func (uc *LedgerUseCase) Receive(ctx context.Context, input ReceiveInput) error {
	if input.SKUID == "" || input.WarehouseID == "" || input.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if err := uc.requireWarehouse(input.WarehouseID); err != nil {
		return err
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(input.SKUID, input.WarehouseID)
		if err != nil {
			return err
		}
		stock.Available += input.Quantity
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		return movRepo.Create(&entity.StockMovement{
			ID:          uuid.New().String(),
			SKUID:       input.SKUID,
			WarehouseID: input.WarehouseID,
			Type:        entity.MovementTypePurchase,
			Quantity:    input.Quantity,
			Reason:      input.Reason,
			CreatedBy:   input.UserID,
			CreatedAt:   now,
		})
	})
}

// AdjustInput entrada para una corrección manual de stock.
type AdjustInput struct {
	SKUID       string
	WarehouseID string
	Delta       int // positivo recibe, negativo da de baja
	Reason      string
	UserID      string
}

// Adjust aplica una corrección directa sobre available (recepciones por conteo, bajas).
// En decrementos available se fija en 0 como mínimo; el movimiento registra el delta
// efectivamente aplicado para que el log cuadre exacto con los contadores.
func (uc *LedgerUseCase) Adjust(ctx context.Context, input AdjustInput) error {
	if input.SKUID == "" || input.WarehouseID == "" || input.Delta == 0 {
		return domain.ErrInvalidInput
	}
	if err := uc.requireWarehouse(input.WarehouseID); err != nil {
		return err
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(input.SKUID, input.WarehouseID)
		if err != nil {
			return err
		}
		applied := input.Delta
		if newAvail := stock.Available + input.Delta; newAvail < 0 {
			applied = -stock.Available
		}
		stock.Available += applied
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		return movRepo.Create(&entity.StockMovement{
			ID:          uuid.New().String(),
			SKUID:       input.SKUID,
			WarehouseID: input.WarehouseID,
			Type:        entity.MovementTypeAdjustment,
			Quantity:    applied,
			Reason:      input.Reason,
			CreatedBy:   input.UserID,
			CreatedAt:   now,
		})
	})
}

// TransferInput entrada para traslado entre bodegas.
type TransferInput struct {
	SKUID           string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        int
	Reason          string
	UserID          string
}

// Transfer resta available en la bodega origen (falla con ErrInsufficientStock si no alcanza)
// y suma (o crea la fila) en la destino, misma transacción. Emite dos movimientos con signos
// opuestos que se referencian mutuamente en el reason.
func (uc *LedgerUseCase) Transfer(ctx context.Context, input TransferInput) error {
	if input.SKUID == "" || input.FromWarehouseID == "" || input.ToWarehouseID == "" ||
		input.FromWarehouseID == input.ToWarehouseID || input.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if err := uc.requireWarehouse(input.FromWarehouseID); err != nil {
		return err
	}
	if err := uc.requireWarehouse(input.ToWarehouseID); err != nil {
		return err
	}
	now := time.Now()
	transferID := uuid.New().String()
	return uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		origin, err := stockRepo.GetForUpdate(input.SKUID, input.FromWarehouseID)
		if err != nil {
			return err
		}
		if origin.Available < input.Quantity {
			return domain.ErrInsufficientStock
		}
		dest, err := stockRepo.GetForUpdate(input.SKUID, input.ToWarehouseID)
		if err != nil {
			return err
		}
		origin.Available -= input.Quantity
		dest.Available += input.Quantity
		origin.UpdatedAt = now
		dest.UpdatedAt = now
		if err := stockRepo.Upsert(origin); err != nil {
			return err
		}
		if err := stockRepo.Upsert(dest); err != nil {
			return err
		}
		if err := movRepo.Create(&entity.StockMovement{
			ID:          uuid.New().String(),
			SKUID:       input.SKUID,
			WarehouseID: input.FromWarehouseID,
			Type:        entity.MovementTypeTransfer,
			Quantity:    -input.Quantity,
			ReferenceID: transferID,
			Reason:      fmt.Sprintf("%s (hacia bodega %s)", input.Reason, input.ToWarehouseID),
			CreatedBy:   input.UserID,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		return movRepo.Create(&entity.StockMovement{
			ID:          uuid.New().String(),
			SKUID:       input.SKUID,
			WarehouseID: input.ToWarehouseID,
			Type:        entity.MovementTypeTransfer,
			Quantity:    input.Quantity,
			ReferenceID: transferID,
			Reason:      fmt.Sprintf("%s (desde bodega %s)", input.Reason, input.FromWarehouseID),
			CreatedBy:   input.UserID,
			CreatedAt:   now,
		})
	})
}

// SetAlertThreshold fija el umbral de alerta de stock bajo para (SKU, bodega).
func (uc *LedgerUseCase) SetAlertThreshold(ctx context.Context, skuID, warehouseID string, threshold int) error {
	if skuID == "" || warehouseID == "" || threshold < 0 {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		_ repository.StockMovementRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(skuID, warehouseID)
		if err != nil {
			return err
		}
		stock.AlertThreshold = threshold
		stock.UpdatedAt = time.Now()
		return stockRepo.Upsert(stock)
	})
}

// requireWarehouse valida que la bodega exista: su ausencia es un error de configuración,
// distinto de un agotamiento de stock.
func (uc *LedgerUseCase) requireWarehouse(warehouseID string) error {
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return err
	}
	if wh == nil {
		return domain.ErrWarehouseNotFound
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Primitivas in-tx: usadas exclusivamente por la máquina de estados de órdenes
// dentro de su propia transacción (misma tx del caller).
// ──────────────────────────────────────────────────────────────────────────────

// ReserveInTx mueve qty de available a reserved con un único update condicionado
// (available >= qty). Devuelve false sin mutación alguna si no hay suficiente:
// el caller decide abortar la transacción completa. Registra movimiento sale con
// referencia a la orden.
func (uc *LedgerUseCase) ReserveInTx(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	skuID, warehouseID string,
	qty int,
	orderID, userID string,
	now time.Time,
) (bool, error) {
	ok, err := stockRepo.Reserve(skuID, warehouseID, qty)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	err = movRepo.Create(&entity.StockMovement{
		ID:          uuid.New().String(),
		SKUID:       skuID,
		WarehouseID: warehouseID,
		Type:        entity.MovementTypeSale,
		Quantity:    -qty,
		ReferenceID: orderID,
		CreatedBy:   userID,
		CreatedAt:   now,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// ReleaseInTx devuelve qty reservado a available (cancelación): available += qty,
// reserved = max(0, reserved - qty). Registra movimiento return con referencia a la orden.
// El clamp de reserved evita contadores negativos ante un caller hipotético que libere
// dos veces; la invocación única real la garantiza la transición a cancelled.
func (uc *LedgerUseCase) ReleaseInTx(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	skuID, warehouseID string,
	qty int,
	orderID, userID string,
	now time.Time,
) error {
	stock, err := stockRepo.GetForUpdate(skuID, warehouseID)
	if err != nil {
		return err
	}
	stock.Available += qty
	stock.Reserved -= qty
	if stock.Reserved < 0 {
		stock.Reserved = 0
	}
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return err
	}
	return movRepo.Create(&entity.StockMovement{
		ID:          uuid.New().String(),
		SKUID:       skuID,
		WarehouseID: warehouseID,
		Type:        entity.MovementTypeReturn,
		Quantity:    qty,
		ReferenceID: orderID,
		CreatedBy:   userID,
		CreatedAt:   now,
	})
}

// DeductInTx confirma la venta al pagarse la orden: reserved = max(0, reserved - qty),
// available no se toca (la unidad sale del sistema). No emite movimiento: la reserva
// ya registró la venta y una fila de suma cero duplicaría la reconciliación.
func (uc *LedgerUseCase) DeductInTx(
	stockRepo repository.StockRepository,
	skuID, warehouseID string,
	qty int,
	now time.Time,
) error {
	stock, err := stockRepo.GetForUpdate(skuID, warehouseID)
	if err != nil {
		return err
	}
	stock.Reserved -= qty
	if stock.Reserved < 0 {
		stock.Reserved = 0
	}
	stock.UpdatedAt = now
	return stockRepo.Upsert(stock)
}
