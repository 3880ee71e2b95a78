package repository

import "github.com/kryonshao/eshop-sub000/internal/domain/entity"

// SKURepository define el puerto de persistencia para SKUs del catálogo.
type SKURepository interface {
	Create(sku *entity.SKU) error
	// GetByID devuelve nil sin error si no existe.
	GetByID(id string) (*entity.SKU, error)
	// ListActiveByProduct SKUs activos del producto en orden de creación.
	ListActiveByProduct(productID string) ([]*entity.SKU, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.SKU, error)
	// Deactivate soft delete: las órdenes históricas siguen referenciando el SKU.
	Deactivate(id string) error
}
