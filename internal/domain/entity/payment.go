package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago del dominio (vocabulario de la pasarela mapeado por domain/payment).
// succeeded, failed, canceled y expired son terminales.
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusSucceeded  = "succeeded"
	PaymentStatusFailed     = "failed"
	PaymentStatusCanceled   = "canceled"
	PaymentStatusExpired    = "expired"
)

// Payment registro del pago cripto asociado a una orden.
type Payment struct {
	ID               string
	OrderID          string
	GatewayPaymentID string
	Status           string
	Amount           decimal.Decimal // monto esperado
	ActuallyPaid     decimal.Decimal // monto reportado por la pasarela
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsTerminalPaymentStatus indica si un estado de pago ya no puede cambiar.
func IsTerminalPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusSucceeded, PaymentStatusFailed, PaymentStatusCanceled, PaymentStatusExpired:
		return true
	}
	return false
}
