package entity

import "time"

// Warehouse una bodega: pool de inventario con ubicación propia.
// Un SKU puede tener filas de stock independientes por bodega.
type Warehouse struct {
	ID        string
	Code      string // código corto único (ej. MAIN)
	Name      string
	Address   string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
