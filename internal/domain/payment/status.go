package payment

import "github.com/kryonshao/eshop-sub000/internal/domain/entity"

// Tabla fija: vocabulario de estados de la pasarela → estados de pago del dominio.
var providerStatusMap = map[string]string{
	"waiting":        entity.PaymentStatusPending,
	"confirming":     entity.PaymentStatusProcessing,
	"confirmed":      entity.PaymentStatusProcessing,
	"sending":        entity.PaymentStatusProcessing,
	"partially_paid": entity.PaymentStatusProcessing,
	"finished":       entity.PaymentStatusSucceeded,
	"failed":         entity.PaymentStatusFailed,
	"refunded":       entity.PaymentStatusCanceled,
	"expired":        entity.PaymentStatusExpired,
}

// MapProviderStatus traduce el estado reportado por la pasarela al vocabulario del dominio.
// ok=false si el estado no está en la tabla (el evento se persiste pero no produce efectos).
func MapProviderStatus(providerStatus string) (status string, ok bool) {
	status, ok = providerStatusMap[providerStatus]
	return status, ok
}
