package order

import (
	"context"
	"time"

	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los repositorios
// del ciclo orden-pago atados a esa tx. Checkout y transiciones son atómicos:
// una orden nunca queda "paid" sin que el stock se haya descontado.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.OrderRepository,
		trackingRepo repository.OrderTrackingRepository,
		paymentRepo repository.PaymentRepository,
		eventRepo repository.WebhookEventRepository,
	) error) error
}

// StockLedger primitivas de inventario ejecutadas dentro de la transacción del caller.
// Implementadas por inventory.LedgerUseCase; la máquina de estados es su único caller.
type StockLedger interface {
	ReserveInTx(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		skuID, warehouseID string,
		qty int,
		orderID, userID string,
		now time.Time,
	) (bool, error)
	ReleaseInTx(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		skuID, warehouseID string,
		qty int,
		orderID, userID string,
		now time.Time,
	) error
	DeductInTx(
		stockRepo repository.StockRepository,
		skuID, warehouseID string,
		qty int,
		now time.Time,
	) error
}

// Resolver mapea (producto, atributos) a un SKU activo. Implementado por catalog.UseCase.
type Resolver interface {
	Resolve(ctx context.Context, productID string, attrs []entity.VariantAttribute) (*entity.SKU, error)
}
