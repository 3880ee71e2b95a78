package entity

import "github.com/shopspring/decimal"

// OrderItem snapshot del producto al momento de la compra (nombre, imagen, precio, talla, color).
// Ediciones posteriores del catálogo nunca cambian órdenes históricas; SKUID queda como FK.
type OrderItem struct {
	ID          string
	OrderID     string
	SKUID       string
	WarehouseID string // bodega donde se reservó: liberar/descontar golpean el mismo pool
	ProductID   string
	ProductName string
	ImageURL    string
	Price       decimal.Decimal
	Size        string
	Color       string
	Quantity    int
}
