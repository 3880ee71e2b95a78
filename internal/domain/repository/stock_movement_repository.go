package repository

import (
	"time"

	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el log de movimientos.
// Solo inserta y lista: los movimientos nunca se editan ni se borran.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListBySKU(skuID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
