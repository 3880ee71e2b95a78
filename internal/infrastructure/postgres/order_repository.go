package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, order_no, user_id, status, total_amount, shipping_address,
	carrier, tracking_number, paid_at, shipped_at, delivered_at, cancelled_at, created_at, updated_at`

// Create inserta la orden y sus items. Debe llamarse dentro de una tx
// para que orden e items queden juntos o no queden.
func (r *OrderRepo) Create(order *entity.Order) error {
	ctx := context.Background()
	query := `
		INSERT INTO orders (id, order_no, user_id, status, total_amount, shipping_address,
			carrier, tracking_number, paid_at, shipped_at, delivered_at, cancelled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.OrderNo, order.UserID, order.Status, order.TotalAmount, order.ShippingAddress,
		order.Carrier, order.TrackingNumber, order.PaidAt, order.ShippedAt,
		order.DeliveredAt, order.CancelledAt, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, sku_id, warehouse_id, product_id, product_name,
			image_url, price, size, color, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, item := range order.Items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.OrderID = order.ID
		_, err := r.q.Exec(ctx, itemQuery,
			item.ID, item.OrderID, item.SKUID, item.WarehouseID, item.ProductID, item.ProductName,
			item.ImageURL, item.Price, item.Size, item.Color, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una orden con sus items.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.getOne(query, id)
}

// GetForUpdate obtiene la orden bloqueando la fila (SELECT FOR UPDATE).
// Serializa transiciones concurrentes sobre la misma orden.
func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

// UpdateStatus persiste status, timestamps de hito y datos de despacho.
func (r *OrderRepo) UpdateStatus(order *entity.Order) error {
	query := `
		UPDATE orders
		SET status = $2, carrier = $3, tracking_number = $4,
			paid_at = $5, shipped_at = $6, delivered_at = $7, cancelled_at = $8, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		order.ID, order.Status, order.Carrier, order.TrackingNumber,
		order.PaidAt, order.ShippedAt, order.DeliveredAt, order.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByUser lista las órdenes de un usuario, más recientes primero. Sin items.
func (r *OrderRepo) ListByUser(userID string, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *OrderRepo) getOne(query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := r.listItems(o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepo) listItems(orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, sku_id, warehouse_id, product_id, product_name,
			image_url, price, size, color, quantity
		FROM order_items WHERE order_id = $1
		ORDER BY id ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var items []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.SKUID, &it.WarehouseID, &it.ProductID,
			&it.ProductName, &it.ImageURL, &it.Price, &it.Size, &it.Color, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	if err := row.Scan(&o.ID, &o.OrderNo, &o.UserID, &o.Status, &o.TotalAmount, &o.ShippingAddress,
		&o.Carrier, &o.TrackingNumber, &o.PaidAt, &o.ShippedAt,
		&o.DeliveredAt, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
