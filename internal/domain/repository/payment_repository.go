package repository

import "github.com/kryonshao/eshop-sub000/internal/domain/entity"

// PaymentRepository define el puerto de persistencia para registros de pago.
type PaymentRepository interface {
	// Upsert inserta o actualiza por gateway_payment_id.
	Upsert(payment *entity.Payment) error
	// Las búsquedas devuelven nil sin error si no hay registro.
	GetByGatewayID(gatewayPaymentID string) (*entity.Payment, error)
	GetByOrderID(orderID string) (*entity.Payment, error)
}
