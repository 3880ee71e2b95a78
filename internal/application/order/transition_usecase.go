package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	domainorder "github.com/kryonshao/eshop-sub000/internal/domain/order"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
	"github.com/kryonshao/eshop-sub000/pkg/logger"
)

// TransitionOptions datos opcionales de una transición: transportadora y guía al
// despachar, motivo visible en tracking, usuario que la dispara.
type TransitionOptions struct {
	Carrier        string
	TrackingNumber string
	Reason         string
	UserID         string
}

// ItemReleaseResult resultado por item de la liberación best-effort en cancelaciones.
// Err no nulo marca el item que necesita reconciliación manual (vista de alertas).
type ItemReleaseResult struct {
	SKUID       string
	WarehouseID string
	Quantity    int
	Err         error
}

// Result resultado de una transición aplicada.
type Result struct {
	Order    *entity.Order
	Released []ItemReleaseResult
}

// TransitionUseCase es la máquina de estados de órdenes. Valida la legalidad de cada
// transición (nunca confía en el caller), dispara los efectos de stock por arista y
// escribe una entrada de tracking por transición. Es la única puerta de entrada a las
// primitivas de reserva del libro mayor.
type TransitionUseCase struct {
	txRunner TxRunner
	ledger   StockLedger
	log      *logger.Logger
}

// NewTransitionUseCase construye la máquina de estados.
func NewTransitionUseCase(txRunner TxRunner, ledger StockLedger, log *logger.Logger) *TransitionUseCase {
	return &TransitionUseCase{txRunner: txRunner, ledger: ledger, log: log}
}

// Transition aplica orderID → target dentro de una transacción, con lock de la fila
// de la orden. Segura de invocar en cualquier momento hasta un estado terminal:
// la tabla de sucesores rechaza lo demás.
func (uc *TransitionUseCase) Transition(ctx context.Context, orderID, target string, opts TransitionOptions) (*Result, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *Result
	err := uc.txRunner.RunOrder(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.OrderRepository,
		trackingRepo repository.OrderTrackingRepository,
		_ repository.PaymentRepository,
		_ repository.WebhookEventRepository,
	) error {
		o, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		result, err = uc.TransitionInTx(stockRepo, movRepo, orderRepo, trackingRepo, o, target, opts, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TransitionInTx aplica la transición usando los repositorios del caller (misma tx).
// Lo usa el gate de webhooks dentro de su propia transacción.
//
// Efectos por arista:
//   - * → paid: descuenta lo reservado de cada item; cualquier error aborta la
//     transición completa (la orden nunca aparece pagada sin stock descontado).
//   - pending|paid → cancelled: libera item por item best-effort; un fallo en un
//     item no bloquea los demás ni la cancelación (se registra y se continúa:
//     dejar la orden atascada sin cancelar es peor que una deriva menor del
//     ledger, que la vista de alertas hace visible).
//   - paid → shipped: fija transportadora y número de guía.
//   - otras aristas: sin efecto de stock.
func (uc *TransitionUseCase) TransitionInTx(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	orderRepo repository.OrderRepository,
	trackingRepo repository.OrderTrackingRepository,
	o *entity.Order,
	target string,
	opts TransitionOptions,
	now time.Time,
) (*Result, error) {
	if !domainorder.CanTransition(o.Status, target) {
		return nil, domain.ErrInvalidTransition
	}

	result := &Result{Order: o}
	switch target {
	case entity.OrderStatusPaid:
		for _, item := range o.Items {
			if err := uc.ledger.DeductInTx(stockRepo, item.SKUID, item.WarehouseID, item.Quantity, now); err != nil {
				return nil, err
			}
		}
		o.PaidAt = &now

	case entity.OrderStatusCancelled:
		for _, item := range o.Items {
			err := uc.ledger.ReleaseInTx(stockRepo, movRepo,
				item.SKUID, item.WarehouseID, item.Quantity, o.ID, opts.UserID, now)
			result.Released = append(result.Released, ItemReleaseResult{
				SKUID:       item.SKUID,
				WarehouseID: item.WarehouseID,
				Quantity:    item.Quantity,
				Err:         err,
			})
			if err != nil {
				uc.log.Warn().Err(err).
					Str("order_id", o.ID).
					Str("sku_id", item.SKUID).
					Msg("liberación de stock falló; la cancelación continúa, reconciliar manualmente")
			}
		}
		o.CancelledAt = &now

	case entity.OrderStatusShipped:
		o.Carrier = opts.Carrier
		o.TrackingNumber = opts.TrackingNumber
		o.ShippedAt = &now

	case entity.OrderStatusDelivered:
		o.DeliveredAt = &now
	}

	o.Status = target
	o.UpdatedAt = now
	if err := orderRepo.UpdateStatus(o); err != nil {
		return nil, err
	}

	desc := domainorder.TrackingDescription(target)
	if opts.Reason != "" {
		desc = desc + "：" + opts.Reason
	}
	err := trackingRepo.Create(&entity.OrderTracking{
		ID:             uuid.New().String(),
		OrderID:        o.ID,
		Status:         target,
		Description:    desc,
		Carrier:        opts.Carrier,
		TrackingNumber: opts.TrackingNumber,
		CreatedAt:      now,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
