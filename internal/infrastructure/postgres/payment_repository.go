package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository sobre PostgreSQL (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Upsert inserta o actualiza el pago por gateway_payment_id.
func (r *PaymentRepo) Upsert(payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, gateway_payment_id, status, amount, actually_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (gateway_payment_id)
		DO UPDATE SET status = EXCLUDED.status, actually_paid = EXCLUDED.actually_paid, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.OrderID, payment.GatewayPaymentID, payment.Status,
		payment.Amount, payment.ActuallyPaid, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert payment: %w", err)
	}
	return nil
}

// GetByGatewayID obtiene el pago por el ID de la pasarela. Devuelve nil sin error si no existe.
func (r *PaymentRepo) GetByGatewayID(gatewayPaymentID string) (*entity.Payment, error) {
	query := `
		SELECT id, order_id, gateway_payment_id, status, amount, actually_paid, created_at, updated_at
		FROM payments WHERE gateway_payment_id = $1`
	return r.getOne(query, gatewayPaymentID)
}

// GetByOrderID obtiene el pago asociado a una orden.
func (r *PaymentRepo) GetByOrderID(orderID string) (*entity.Payment, error) {
	query := `
		SELECT id, order_id, gateway_payment_id, status, amount, actually_paid, created_at, updated_at
		FROM payments WHERE order_id = $1
		ORDER BY created_at DESC LIMIT 1`
	return r.getOne(query, orderID)
}

func (r *PaymentRepo) getOne(query, arg string) (*entity.Payment, error) {
	var p entity.Payment
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&p.ID, &p.OrderID, &p.GatewayPaymentID, &p.Status,
		&p.Amount, &p.ActuallyPaid, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}
