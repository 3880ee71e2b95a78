package order

import (
	"context"

	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
)

// QueryUseCase lecturas de órdenes: detalle con línea de tiempo y listado por usuario.
type QueryUseCase struct {
	orderRepo    repository.OrderRepository
	trackingRepo repository.OrderTrackingRepository
}

// NewQueryUseCase construye el caso de uso de lecturas.
func NewQueryUseCase(orderRepo repository.OrderRepository, trackingRepo repository.OrderTrackingRepository) *QueryUseCase {
	return &QueryUseCase{orderRepo: orderRepo, trackingRepo: trackingRepo}
}

// GetOrder devuelve la orden con sus items y su línea de tiempo.
func (uc *QueryUseCase) GetOrder(ctx context.Context, id string) (*entity.Order, []*entity.OrderTracking, error) {
	if id == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	o, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if o == nil {
		return nil, nil, domain.ErrNotFound
	}
	tracking, err := uc.trackingRepo.ListByOrder(id)
	if err != nil {
		return nil, nil, err
	}
	return o, tracking, nil
}

// ListOrders lista las órdenes de un usuario, más recientes primero.
func (uc *QueryUseCase) ListOrders(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.orderRepo.ListByUser(userID, limit, offset)
}
