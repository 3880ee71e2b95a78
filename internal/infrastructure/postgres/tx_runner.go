package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kryonshao/eshop-sub000/internal/application/inventory"
	"github.com/kryonshao/eshop-sub000/internal/application/order"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and order.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ order.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stockRepo := NewStockRepository(tx)
	movRepo := NewStockMovementRepository(tx)

	if err := fn(stockRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunOrder inicia una transacción con los repos del ciclo orden-pago
// (checkout, transiciones de estado y procesamiento de webhooks).
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	orderRepo repository.OrderRepository,
	trackingRepo repository.OrderTrackingRepository,
	paymentRepo repository.PaymentRepository,
	eventRepo repository.WebhookEventRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stockRepo := NewStockRepository(tx)
	movRepo := NewStockMovementRepository(tx)
	orderRepo := NewOrderRepository(tx)
	trackingRepo := NewOrderTrackingRepository(tx)
	paymentRepo := NewPaymentRepository(tx)
	eventRepo := NewWebhookEventRepository(tx)

	if err := fn(stockRepo, movRepo, orderRepo, trackingRepo, paymentRepo, eventRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
