package repository

import "github.com/kryonshao/eshop-sub000/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar contadores de stock por SKU+bodega.
// Las mutaciones se usan dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve la fila de stock; si no existe, contadores en cero (no error).
	Get(skuID, warehouseID string) (*entity.StockInfo, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(skuID, warehouseID string) (*entity.StockInfo, error)
	Upsert(stock *entity.StockInfo) error
	// Reserve mueve qty de available a reserved con un único update condicionado
	// (available >= qty). Devuelve false sin mutación si no alcanza: dos checkouts
	// compitiendo por la última unidad producen exactamente un éxito.
	Reserve(skuID, warehouseID string, qty int) (bool, error)
	// SumAvailable suma available del SKU en todas las bodegas.
	SumAvailable(skuID string) (int, error)
	// ListBelowThreshold filas con available <= alert_threshold (vista de alertas).
	// warehouseID vacío = todas las bodegas.
	ListBelowThreshold(warehouseID string, limit, offset int) ([]*entity.StockInfo, error)
}
