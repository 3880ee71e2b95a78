package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kryonshao/eshop-sub000/internal/application/order"
	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	domainorder "github.com/kryonshao/eshop-sub000/internal/domain/order"
	domainpayment "github.com/kryonshao/eshop-sub000/internal/domain/payment"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
	"github.com/kryonshao/eshop-sub000/pkg/logger"
)

// Result respuesta del procesamiento de un webhook.
type Result struct {
	Ok        bool   `json:"ok"`
	Status    string `json:"status,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// gatewayID identificador que la pasarela manda como string o como número JSON.
// Los IDs de orden propios son UUIDs, así que un string no numérico es el caso normal.
type gatewayID string

func (g *gatewayID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*g = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*g = gatewayID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*g = gatewayID(n.String())
	return nil
}

func (g gatewayID) String() string { return string(g) }

// gatewayPayload campos consumidos del cuerpo JSON de la pasarela.
type gatewayPayload struct {
	PaymentID     gatewayID       `json:"payment_id"`
	OrderID       gatewayID       `json:"order_id"`
	PaymentStatus string          `json:"payment_status"`
	ActuallyPaid  decimal.Decimal `json:"actually_paid"`
}

// UseCase es el gate de ingestión de webhooks: verificador sin estado delante de la
// máquina de estados de órdenes. Pipeline: verificar firma → deduplicar por hash de
// contenido → mapear estado de la pasarela → transicionar la orden → marcar procesado.
// Cada evento distinto se aplica como máximo una vez; la tabla de transiciones de la
// orden es el guardián de ordenamiento real ante entregas fuera de orden.
type UseCase struct {
	secret     string
	txRunner   order.TxRunner
	eventRepo  repository.WebhookEventRepository
	transition *order.TransitionUseCase
	notifier   Notifier
	log        *logger.Logger
}

// NewUseCase construye el gate. Un secreto vacío es un error de configuración:
// se valida fuerte aquí para fallar en el arranque y no ante el primer webhook.
func NewUseCase(
	secret string,
	txRunner order.TxRunner,
	eventRepo repository.WebhookEventRepository,
	transition *order.TransitionUseCase,
	notifier Notifier,
	log *logger.Logger,
) (*UseCase, error) {
	if secret == "" {
		return nil, fmt.Errorf("webhook: PAYMENT_WEBHOOK_SECRET no configurado")
	}
	return &UseCase{
		secret:     secret,
		txRunner:   txRunner,
		eventRepo:  eventRepo,
		transition: transition,
		notifier:   notifier,
		log:        log,
	}, nil
}

// Handle procesa una entrega de la pasarela. rawBody es el cuerpo exacto de la
// petición; signature el header hex HMAC-SHA512.
//
// Errores: domain.ErrInvalidSignature (401, sin efectos, evento no registrado:
// spam forjado no contamina la tabla de dedup) y domain.ErrInvalidInput (400, JSON
// malformado). Una entrega duplicada no es un error: responde éxito sin mutación.
func (uc *UseCase) Handle(ctx context.Context, rawBody []byte, signature string) (*Result, error) {
	// 1. Verificar la firma sobre el cuerpo crudo exacto, antes de parsear nada.
	if !domainpayment.VerifySignature(uc.secret, rawBody, signature) {
		uc.log.Warn().Msg("webhook rechazado: firma inválida")
		return nil, domain.ErrInvalidSignature
	}

	// 2. Dedup por hash de contenido.
	hash := domainpayment.EventHash(rawBody)
	existing, err := uc.eventRepo.GetByHash(hash)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ProcessedAt != nil {
		uc.log.Debug().Str("event_hash", hash).Msg("webhook duplicado ya procesado")
		return &Result{Ok: true, Duplicate: true}, nil
	}

	var payload gatewayPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if payload.PaymentID.String() == "" {
		return nil, domain.ErrInvalidInput
	}

	// Persistir el evento aceptado (para replay/auditoría). El unique constraint del
	// hash resuelve la carrera: un insert duplicado concurrente se trata como ya procesado.
	event := existing
	if event == nil {
		event = &entity.WebhookEvent{
			ID:         uuid.New().String(),
			EventHash:  hash,
			PaymentID:  payload.PaymentID.String(),
			OrderID:    payload.OrderID.String(),
			RawPayload: rawBody,
			CreatedAt:  time.Now(),
		}
		if err := uc.eventRepo.Create(event); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return &Result{Ok: true, Duplicate: true}, nil
			}
			return nil, err
		}
	}

	// 3. Mapear el vocabulario de la pasarela al del dominio.
	status, known := domainpayment.MapProviderStatus(payload.PaymentStatus)
	if !known {
		// Un 4xx haría que la pasarela reintente un cuerpo que nunca podremos
		// interpretar: se marca procesado y se responde éxito.
		uc.log.Warn().
			Str("payment_status", payload.PaymentStatus).
			Str("payment_id", payload.PaymentID.String()).
			Msg("estado de pasarela desconocido, evento registrado sin efectos")
		if err := uc.eventRepo.MarkProcessed(event.ID, time.Now()); err != nil {
			return nil, err
		}
		return &Result{Ok: true}, nil
	}

	// 4. Actualizar el pago y, si el estado es terminal, transicionar la orden:
	// todo en una transacción junto con la marca de procesado. Si algo falla, el
	// evento queda sin processed_at y el reintento de la pasarela vuelve a entrar.
	var orderStatus string
	err = uc.txRunner.RunOrder(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.OrderRepository,
		trackingRepo repository.OrderTrackingRepository,
		paymentRepo repository.PaymentRepository,
		eventRepo repository.WebhookEventRepository,
	) error {
		now := time.Now()
		if err := uc.upsertPayment(paymentRepo, orderRepo, payload, status, now); err != nil {
			return err
		}

		if entity.IsTerminalPaymentStatus(status) && payload.OrderID.String() != "" {
			target := entity.OrderStatusCancelled
			if status == entity.PaymentStatusSucceeded {
				target = entity.OrderStatusPaid
			}
			o, err := orderRepo.GetForUpdate(payload.OrderID.String())
			if err != nil {
				return err
			}
			switch {
			case o == nil:
				uc.log.Warn().
					Str("order_id", payload.OrderID.String()).
					Msg("webhook referencia una orden inexistente")
			case !domainorder.CanTransition(o.Status, target):
				// Evento tardío o fuera de orden: el estado actual manda.
				uc.log.Info().
					Str("order_id", o.ID).
					Str("from", o.Status).
					Str("to", target).
					Msg("transición rechazada por estado actual, evento descartado")
			default:
				opts := order.TransitionOptions{Reason: "", UserID: "payment-gateway"}
				if _, err := uc.transition.TransitionInTx(
					stockRepo, movRepo, orderRepo, trackingRepo, o, target, opts, now); err != nil {
					return err
				}
				orderStatus = target
			}
		}

		return eventRepo.MarkProcessed(event.ID, now)
	})
	if err != nil {
		return nil, err
	}

	// 5. Notificación al boundary externo: fire-and-forget, nunca afecta la respuesta.
	uc.notifyAsync(Notification{
		OrderID:       payload.OrderID.String(),
		PaymentID:     payload.PaymentID.String(),
		PaymentStatus: status,
		OrderStatus:   orderStatus,
	})

	return &Result{Ok: true, Status: status}, nil
}

// upsertPayment crea o actualiza el registro de pago. Un estado terminal ya aplicado
// no se degrada por un evento no terminal tardío. Al crear el registro, el monto
// esperado viene del total de la orden referenciada.
func (uc *UseCase) upsertPayment(paymentRepo repository.PaymentRepository, orderRepo repository.OrderRepository, payload gatewayPayload, status string, now time.Time) error {
	p, err := paymentRepo.GetByGatewayID(payload.PaymentID.String())
	if err != nil {
		return err
	}
	if p == nil {
		p = &entity.Payment{
			ID:               uuid.New().String(),
			OrderID:          payload.OrderID.String(),
			GatewayPaymentID: payload.PaymentID.String(),
			Status:           status,
			ActuallyPaid:     payload.ActuallyPaid,
			CreatedAt:        now,
		}
		if p.OrderID != "" {
			o, err := orderRepo.GetByID(p.OrderID)
			if err != nil {
				return err
			}
			if o != nil {
				p.Amount = o.TotalAmount
			}
		}
	} else {
		if entity.IsTerminalPaymentStatus(p.Status) {
			return nil
		}
		p.Status = status
		p.ActuallyPaid = payload.ActuallyPaid
	}
	p.UpdatedAt = now
	return paymentRepo.Upsert(p)
}

// notifyAsync dispara la notificación en background con su propio timeout,
// desacoplada del ciclo de vida de la petición HTTP.
func (uc *UseCase) notifyAsync(n Notification) {
	if uc.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := uc.notifier.Notify(ctx, n); err != nil {
			uc.log.Error().Err(err).
				Str("order_id", n.OrderID).
				Msg("notificación al boundary externo falló")
		}
	}()
}
