package payment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/domain/payment"
)

func TestMapProviderStatus_TablaCompleta(t *testing.T) {
	cases := map[string]string{
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
	for provider, want := range cases {
		got, ok := payment.MapProviderStatus(provider)
		assert.True(t, ok, "estado %q debe estar en la tabla", provider)
		assert.Equal(t, want, got, "estado %q", provider)
	}
}

func TestMapProviderStatus_Desconocido(t *testing.T) {
	_, ok := payment.MapProviderStatus("on_hold")
	assert.False(t, ok, "un estado fuera de la tabla devuelve ok=false, nunca un mapeo inventado")
}

func TestIsTerminalPaymentStatus(t *testing.T) {
	assert.True(t, entity.IsTerminalPaymentStatus(entity.PaymentStatusSucceeded))
	assert.True(t, entity.IsTerminalPaymentStatus(entity.PaymentStatusFailed))
	assert.True(t, entity.IsTerminalPaymentStatus(entity.PaymentStatusCanceled))
	assert.True(t, entity.IsTerminalPaymentStatus(entity.PaymentStatusExpired))
	assert.False(t, entity.IsTerminalPaymentStatus(entity.PaymentStatusPending))
	assert.False(t, entity.IsTerminalPaymentStatus(entity.PaymentStatusProcessing))
}
