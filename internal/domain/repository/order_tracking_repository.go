package repository

import "github.com/kryonshao/eshop-sub000/internal/domain/entity"

// OrderTrackingRepository define el puerto para la línea de tiempo de órdenes (append-only).
type OrderTrackingRepository interface {
	Create(tracking *entity.OrderTracking) error
	ListByOrder(orderID string) ([]*entity.OrderTracking, error)
}
