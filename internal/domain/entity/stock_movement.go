package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypePurchase   = "purchase"   // recepción de mercancía
	MovementTypeSale       = "sale"       // reserva por orden de venta
	MovementTypeTransfer   = "transfer"   // traslado entre bodegas
	MovementTypeAdjustment = "adjustment" // corrección manual
	MovementTypeReturn     = "return"     // liberación por cancelación
)

// StockMovement registro de auditoría inmutable de cada cambio de cantidad.
// Cada mutación de contadores produce exactamente una fila (dos para traslados).
// Nunca se edita ni se borra: es la fuente de verdad para reconciliación.
type StockMovement struct {
	ID          string
	SKUID       string
	WarehouseID string
	Type        string // purchase, sale, transfer, adjustment, return
	Quantity    int    // delta con signo: negativo resta de available
	ReferenceID string // ID de orden u operación asociada
	Reason      string
	CreatedBy   string // UserID
	CreatedAt   time.Time
}
