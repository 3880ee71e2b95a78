package inventory

import (
	"context"
	"time"

	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
)

// AlertsUseCase vistas derivadas de solo lectura sobre el libro mayor:
// alertas de stock bajo e historial de movimientos. No tiene invariantes propios.
type AlertsUseCase struct {
	stockRepo    repository.StockRepository
	movementRepo repository.StockMovementRepository
}

// NewAlertsUseCase construye la vista de alertas/reportes.
func NewAlertsUseCase(
	stockRepo repository.StockRepository,
	movementRepo repository.StockMovementRepository,
) *AlertsUseCase {
	return &AlertsUseCase{stockRepo: stockRepo, movementRepo: movementRepo}
}

// LowStock lista las filas con available <= alert_threshold.
// warehouseID vacío considera todas las bodegas. Aquí también aflora la deriva
// pendiente de reconciliación manual tras una liberación parcial en cancelaciones.
func (uc *AlertsUseCase) LowStock(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockInfo, error) {
	return uc.stockRepo.ListBelowThreshold(warehouseID, limit, offset)
}

// MovementsBySKU historial de movimientos de un SKU en un rango de fechas.
func (uc *AlertsUseCase) MovementsBySKU(ctx context.Context, skuID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if skuID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movementRepo.ListBySKU(skuID, from, to, limit, offset)
}

// MovementsByWarehouse historial de movimientos de una bodega en un rango de fechas.
func (uc *AlertsUseCase) MovementsByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movementRepo.ListByWarehouse(warehouseID, from, to, limit, offset)
}
