package entity

import "time"

// StockInfo contadores de inventario de un SKU en una bodega.
// Invariante: Available >= 0 y Reserved >= 0 en todo momento.
// Total = Available + Reserved es el conteo físico: solo cambia por ajuste/recepción/traslado,
// nunca por reservar/liberar/descontar (esas operaciones mueven cantidad entre los dos pools).
type StockInfo struct {
	SKUID          string
	WarehouseID    string
	Available      int // vendible ahora
	Reserved       int // retenido por órdenes abiertas
	AlertThreshold int // umbral para la vista de alertas de stock bajo
	UpdatedAt      time.Time
}

// Total devuelve el conteo físico de unidades.
func (s *StockInfo) Total() int {
	return s.Available + s.Reserved
}
