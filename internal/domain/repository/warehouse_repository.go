package repository

import "github.com/kryonshao/eshop-sub000/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para bodegas.
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	// Las búsquedas devuelven nil sin error si no existe.
	GetByID(id string) (*entity.Warehouse, error)
	GetByCode(code string) (*entity.Warehouse, error)
	List(limit, offset int) ([]*entity.Warehouse, error)
}
