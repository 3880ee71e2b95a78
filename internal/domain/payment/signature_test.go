package payment_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kryonshao/eshop-sub000/internal/domain/payment"
)

const testSecret = "super-secreto-compartido"

func TestVerifySignature_FirmaValida(t *testing.T) {
	body := []byte(`{"payment_id":"123","payment_status":"finished"}`)
	sig := payment.Sign(testSecret, body)
	assert.True(t, payment.VerifySignature(testSecret, body, sig))
}

func TestVerifySignature_AceptaHexEnMayusculas(t *testing.T) {
	body := []byte(`{"payment_id":"123"}`)
	sig := strings.ToUpper(payment.Sign(testSecret, body))
	assert.True(t, payment.VerifySignature(testSecret, body, sig),
		"la comparación debe ser tolerante a hex en mayúsculas")
}

func TestVerifySignature_CuerpoAlterado(t *testing.T) {
	body := []byte(`{"payment_id":"123","actually_paid":"10.00"}`)
	sig := payment.Sign(testSecret, body)
	tampered := []byte(`{"payment_id":"123","actually_paid":"99.00"}`)
	assert.False(t, payment.VerifySignature(testSecret, tampered, sig),
		"un byte cambiado en el cuerpo invalida la firma")
}

func TestVerifySignature_SecretoDistinto(t *testing.T) {
	body := []byte(`{}`)
	sig := payment.Sign("otro-secreto", body)
	assert.False(t, payment.VerifySignature(testSecret, body, sig))
}

func TestVerifySignature_FirmaVacia(t *testing.T) {
	assert.False(t, payment.VerifySignature(testSecret, []byte(`{}`), ""))
}

func TestVerifySignature_SecretoVacio(t *testing.T) {
	body := []byte(`{}`)
	assert.False(t, payment.VerifySignature("", body, payment.Sign("", body)),
		"sin secreto configurado nunca se acepta")
}

func TestEventHash_MismoCuerpoMismoHash(t *testing.T) {
	body := []byte(`{"payment_id":"123"}`)
	assert.Equal(t, payment.EventHash(body), payment.EventHash(body))
	assert.Len(t, payment.EventHash(body), 64, "SHA-256 en hex son 64 caracteres")
}

func TestEventHash_CuerposDistintos(t *testing.T) {
	a := payment.EventHash([]byte(`{"payment_id":"123"}`))
	b := payment.EventHash([]byte(`{"payment_id":"124"}`))
	assert.NotEqual(t, a, b)
}
