package repository

import "github.com/kryonshao/eshop-sub000/internal/domain/entity"

// OrderRepository define el puerto de persistencia para órdenes (con sus items snapshot).
type OrderRepository interface {
	// Create inserta la orden y sus items en la misma operación lógica.
	Create(order *entity.Order) error
	// GetByID devuelve la orden con items; nil sin error si no existe.
	GetByID(id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila de la orden durante una transición de estado.
	GetForUpdate(id string) (*entity.Order, error)
	// UpdateStatus persiste status, timestamps de hito y datos de despacho.
	UpdateStatus(order *entity.Order) error
	ListByUser(userID string, limit, offset int) ([]*entity.Order, error)
}
