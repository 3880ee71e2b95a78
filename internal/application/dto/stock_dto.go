package dto

import "time"

// AdjustStockRequest body para POST /api/stock/adjust.
type AdjustStockRequest struct {
	SKUID       string `json:"sku_id"`
	WarehouseID string `json:"warehouse_id,omitempty"` // vacío = bodega por defecto
	Delta       int    `json:"delta"`
	Reason      string `json:"reason"`
}

// ReceiveStockRequest body para POST /api/stock/receive.
type ReceiveStockRequest struct {
	SKUID       string `json:"sku_id"`
	WarehouseID string `json:"warehouse_id,omitempty"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason"`
}

// TransferStockRequest body para POST /api/stock/transfer.
type TransferStockRequest struct {
	SKUID           string `json:"sku_id"`
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	Quantity        int    `json:"quantity"`
	Reason          string `json:"reason"`
}

// AlertThresholdRequest body para PUT /api/stock/threshold.
type AlertThresholdRequest struct {
	SKUID       string `json:"sku_id"`
	WarehouseID string `json:"warehouse_id,omitempty"`
	Threshold   int    `json:"threshold"`
}

// StockInfoResponse contadores actuales de un SKU en una bodega.
type StockInfoResponse struct {
	SKUID          string `json:"sku_id"`
	WarehouseID    string `json:"warehouse_id"`
	Available      int    `json:"available"`
	Reserved       int    `json:"reserved"`
	Total          int    `json:"total"`
	AlertThreshold int    `json:"alert_threshold"`
}

// StockMovementResponse una fila del historial de movimientos.
type StockMovementResponse struct {
	ID          string    `json:"id"`
	SKUID       string    `json:"sku_id"`
	WarehouseID string    `json:"warehouse_id"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	ReferenceID string    `json:"reference_id,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
