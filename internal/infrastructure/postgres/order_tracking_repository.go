package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
)

var _ repository.OrderTrackingRepository = (*OrderTrackingRepo)(nil)

// OrderTrackingRepo implementación sobre PostgreSQL (usable con pool o tx).
type OrderTrackingRepo struct {
	q Querier
}

// NewOrderTrackingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderTrackingRepository(q Querier) *OrderTrackingRepo {
	return &OrderTrackingRepo{q: q}
}

// Create persiste una entrada de la línea de tiempo.
func (r *OrderTrackingRepo) Create(tracking *entity.OrderTracking) error {
	if tracking.ID == "" {
		tracking.ID = uuid.New().String()
	}
	query := `
		INSERT INTO order_tracking (id, order_id, status, description, carrier, tracking_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		tracking.ID, tracking.OrderID, tracking.Status, tracking.Description,
		tracking.Carrier, tracking.TrackingNumber, tracking.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create order tracking: %w", err)
	}
	return nil
}

// ListByOrder lista la línea de tiempo de una orden en orden cronológico.
func (r *OrderTrackingRepo) ListByOrder(orderID string) ([]*entity.OrderTracking, error) {
	query := `
		SELECT id, order_id, status, description, carrier, tracking_number, created_at
		FROM order_tracking WHERE order_id = $1
		ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order tracking: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderTracking
	for rows.Next() {
		var t entity.OrderTracking
		if err := rows.Scan(&t.ID, &t.OrderID, &t.Status, &t.Description,
			&t.Carrier, &t.TrackingNumber, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order tracking: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
