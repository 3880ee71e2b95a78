package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	domainorder "github.com/kryonshao/eshop-sub000/internal/domain/order"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
	"github.com/kryonshao/eshop-sub000/pkg/logger"
)

// LineError error de checkout atribuible a una línea concreta del carrito:
// el storefront muestra el mensaje ("sin stock", "configuración no vendible")
// junto a esa línea y aborta el checkout completo.
type LineError struct {
	Index     int
	ProductID string
	Err       error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("línea %d (producto %s): %v", e.Index, e.ProductID, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// CheckoutLine una línea del carrito. Los datos de producto (nombre, imagen) vienen
// del catálogo, colaborador de solo lectura; el precio sale del SKU resuelto.
type CheckoutLine struct {
	ProductID   string
	Attributes  []entity.VariantAttribute
	ProductName string
	ImageURL    string
	Quantity    int
}

// CheckoutInput entrada del checkout. WarehouseID es la bodega por defecto resuelta
// una vez en el boundary, no re-consultada por cada llamada al ledger.
type CheckoutInput struct {
	UserID          string
	WarehouseID     string
	ShippingAddress string
	Lines           []CheckoutLine
}

// CheckoutUseCase crea la orden: resuelve variantes a SKUs, reserva stock todo-o-nada
// y deja la orden en pending con el snapshot de items y su primera entrada de tracking.
type CheckoutUseCase struct {
	txRunner TxRunner
	resolver Resolver
	ledger   StockLedger
	log      *logger.Logger
}

// NewCheckoutUseCase construye el caso de uso de checkout.
func NewCheckoutUseCase(txRunner TxRunner, resolver Resolver, ledger StockLedger, log *logger.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{txRunner: txRunner, resolver: resolver, ledger: ledger, log: log}
}

// Checkout reserva todas las líneas dentro de una sola transacción. Cualquier línea
// sin stock aborta y revierte las reservas ya hechas: nunca queda una orden parcial
// con unas líneas reservadas y otras no. Devuelve LineError con la línea culpable.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, input CheckoutInput) (*entity.Order, error) {
	if input.WarehouseID == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for i, line := range input.Lines {
		if line.ProductID == "" || line.Quantity <= 0 {
			return nil, &LineError{Index: i, ProductID: line.ProductID, Err: domain.ErrInvalidInput}
		}
	}

	// Resolver cada línea a su SKU antes de abrir la transacción (lookup puro).
	// NotFound aquí significa "configuración no vendible", no agotamiento.
	skus := make([]*entity.SKU, len(input.Lines))
	for i, line := range input.Lines {
		s, err := uc.resolver.Resolve(ctx, line.ProductID, line.Attributes)
		if err != nil {
			return nil, &LineError{Index: i, ProductID: line.ProductID, Err: err}
		}
		skus[i] = s
	}

	now := time.Now()
	o := &entity.Order{
		ID:              uuid.New().String(),
		OrderNo:         buildOrderNo(now),
		UserID:          input.UserID,
		Status:          entity.OrderStatusPending,
		TotalAmount:     decimal.Zero,
		ShippingAddress: input.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for i, line := range input.Lines {
		s := skus[i]
		o.TotalAmount = o.TotalAmount.Add(s.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		o.Items = append(o.Items, &entity.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     o.ID,
			SKUID:       s.ID,
			WarehouseID: input.WarehouseID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			ImageURL:    line.ImageURL,
			Price:       s.Price,
			Size:        attributeValue(s.Attributes, "size"),
			Color:       attributeValue(s.Attributes, "color"),
			Quantity:    line.Quantity,
		})
	}

	err := uc.txRunner.RunOrder(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.OrderRepository,
		trackingRepo repository.OrderTrackingRepository,
		_ repository.PaymentRepository,
		_ repository.WebhookEventRepository,
	) error {
		for i, item := range o.Items {
			ok, err := uc.ledger.ReserveInTx(stockRepo, movRepo,
				item.SKUID, item.WarehouseID, item.Quantity, o.ID, input.UserID, now)
			if err != nil {
				return err
			}
			if !ok {
				// Rollback de la transacción: las reservas previas se revierten solas.
				return &LineError{Index: i, ProductID: item.ProductID, Err: domain.ErrInsufficientStock}
			}
		}
		if err := orderRepo.Create(o); err != nil {
			return err
		}
		return trackingRepo.Create(&entity.OrderTracking{
			ID:          uuid.New().String(),
			OrderID:     o.ID,
			Status:      entity.OrderStatusPending,
			Description: domainorder.TrackingDescription(entity.OrderStatusPending),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("order_id", o.ID).
		Str("order_no", o.OrderNo).
		Int("items", len(o.Items)).
		Msg("orden creada con stock reservado")
	return o, nil
}

// buildOrderNo genera el número legible de la orden: fecha + sufijo aleatorio corto.
func buildOrderNo(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return "ORD" + now.Format("20060102150405") + suffix
}

// attributeValue busca el valor de un atributo por nombre (case-insensitive).
func attributeValue(attrs []entity.VariantAttribute, name string) string {
	for _, a := range attrs {
		if strings.EqualFold(a.Name, name) {
			return a.Value
		}
	}
	return ""
}
